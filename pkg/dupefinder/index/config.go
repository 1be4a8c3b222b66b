package index

import "github.com/nearcopy/dupefinder/pkg/dupefinder/compare"

// Config controls candidate generation and, through Comparator, the
// confirmation stage that decides whether two candidates are duplicates.
type Config struct {
	// HashThreshold is the minimum number of matching-hash postings a
	// candidate must accumulate before it is compared in full.
	HashThreshold int

	// Comparator is passed through to compare.Compare for confirmation and
	// scoring.
	Comparator compare.Config
}

// DefaultConfig returns hash_threshold=5 paired with
// compare's own defaults.
func DefaultConfig() Config {
	return Config{
		HashThreshold: 5,
		Comparator:    compare.DefaultConfig(),
	}
}
