package dupefinder

import (
	"github.com/nearcopy/dupefinder/pkg/dupefinder/compare"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// Compare aligns fp1 and fp2 globally using the comparator's
// default thresholds and returns the resulting MatchResult.
func Compare(fp1, fp2 *model.Fingerprint) (model.MatchResult, error) {
	return compare.Compare(fp1, fp2, compare.DefaultConfig())
}

// CompareSlidingWindow compares fp1 and fp2 segment-wise using
// the comparator's default thresholds.
func CompareSlidingWindow(fp1, fp2 *model.Fingerprint) (model.MatchResult, error) {
	return compare.CompareSlidingWindow(fp1, fp2, compare.DefaultConfig())
}
