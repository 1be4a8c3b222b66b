package compare

import (
	"errors"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// ErrInvalidFingerprint is returned when Compare or CompareSlidingWindow is
// given a nil or empty fingerprint.
var ErrInvalidFingerprint = errors.New("compare: invalid fingerprint")

// Compare aligns fp1 and fp2 globally and reports similarity, bit error
// rate, offset and matched segment count. CoverageRatio is left at zero;
// only CompareSlidingWindow sets it.
func Compare(fp1, fp2 *model.Fingerprint, cfg Config) (model.MatchResult, error) {
	if fp1 == nil || fp2 == nil || len(fp1.SubFingerprints) == 0 || len(fp2.SubFingerprints) == 0 {
		return model.MatchResult{}, ErrInvalidFingerprint
	}
	if len(fp1.SubFingerprints) < cfg.MinimumOverlap || len(fp2.SubFingerprints) < cfg.MinimumOverlap {
		return model.MatchResult{BitErrorRate: 1, Similarity: 0}, nil
	}

	a, b := fp1.SubFingerprints, fp2.SubFingerprints

	if !quickFilterPass(a, b, cfg.SimilarityThreshold) {
		return model.MatchResult{BitErrorRate: 1, Similarity: 0}, nil
	}

	offset := findBestAlignment(a, b, cfg)
	similarity, ber, matched := similarityAtOffset(a, b, offset)

	isDuplicate := similarity >= cfg.SimilarityThreshold &&
		ber <= cfg.BitErrorThreshold &&
		matched >= cfg.MinimumOverlap

	return model.MatchResult{
		Similarity:      similarity,
		BestOffset:      offset,
		MatchedSegments: matched,
		BitErrorRate:    ber,
		IsDuplicate:     isDuplicate,
	}, nil
}
