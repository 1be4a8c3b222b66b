package dupefinder

import "github.com/nearcopy/dupefinder/pkg/dupefinder/index"

// Index is the inverted hash-postings index and duplicate-group search
// exposed from the root package. See package index for the
// implementation.
type Index = index.Index

// NewIndex builds an empty Index with the default hash_threshold and
// comparator thresholds.
func NewIndex() *Index {
	return index.New(index.DefaultConfig())
}
