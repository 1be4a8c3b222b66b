package compare

import (
	"sort"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

const (
	windowSize             = 60
	windowStride           = 30
	windowSweepStep        = 6
	windowAcceptRatio      = 0.8
	windowSuppressDistance = 30
	minSlidingCoverage     = 0.5
	minSlidingMatches      = 3
)

type windowMatch struct {
	offset     int
	similarity float64
}

// CompareSlidingWindow slides a window of 60 sub-fingerprints across fp1
// with stride 30, finds the best-matching position in fp2 for each window,
// suppresses overlapping matches, and aggregates the survivors into a
// segment-wise MatchResult.
func CompareSlidingWindow(fp1, fp2 *model.Fingerprint, cfg Config) (model.MatchResult, error) {
	if fp1 == nil || fp2 == nil || len(fp1.SubFingerprints) == 0 || len(fp2.SubFingerprints) == 0 {
		return model.MatchResult{}, ErrInvalidFingerprint
	}

	a, b := fp1.SubFingerprints, fp2.SubFingerprints
	if len(a) < windowSize || len(b) < windowSize {
		return model.MatchResult{BitErrorRate: 1, Similarity: 0}, nil
	}

	candidates := collectWindowMatches(a, b, cfg.SimilarityThreshold)
	kept := suppressOverlapping(candidates)

	if len(kept) == 0 {
		return model.MatchResult{BitErrorRate: 1, Similarity: 0}, nil
	}

	segments := make([]model.SegmentMatch, len(kept))
	var weightedSum, weightSum float64
	for i, m := range kept {
		segments[i] = model.SegmentMatch{Offset: m.offset, Similarity: m.similarity}
		weightedSum += m.similarity * m.similarity
		weightSum += m.similarity
	}
	similarity := weightedSum / weightSum

	bestOffset := kept[0].offset
	_, ber, _ := similarityAtOffset(a, b, bestOffset)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	coverage := float64(len(kept)*windowSize) / float64(maxLen)
	if coverage > 1 {
		coverage = 1
	}

	isDuplicate := similarity >= cfg.SimilarityThreshold &&
		ber <= cfg.BitErrorThreshold &&
		coverage >= minSlidingCoverage &&
		len(kept) >= minSlidingMatches

	return model.MatchResult{
		Similarity:      similarity,
		BestOffset:      bestOffset,
		MatchedSegments: len(kept),
		BitErrorRate:    ber,
		IsDuplicate:     isDuplicate,
		CoverageRatio:   coverage,
		Segments:        segments,
	}, nil
}

func collectWindowMatches(a, b []uint32, similarityThreshold float64) []windowMatch {
	var matches []windowMatch
	acceptAt := windowAcceptRatio * similarityThreshold

	for w := 0; w+windowSize <= len(a); w += windowStride {
		window1 := a[w : w+windowSize]

		bestSim := -1.0
		bestPos := -1
		for p := 0; p+windowSize <= len(b); p += windowSweepStep {
			window2 := b[p : p+windowSize]
			sim, _, _ := similarityAtOffset(window1, window2, 0)
			if sim > bestSim {
				bestSim = sim
				bestPos = p
			}
		}

		if bestPos >= 0 && bestSim >= acceptAt {
			matches = append(matches, windowMatch{offset: bestPos - w, similarity: bestSim})
		}
	}
	return matches
}

// suppressOverlapping sorts candidates by similarity descending and greedily
// keeps a candidate only if it is not within windowSuppressDistance offset
// units of an already-kept candidate.
func suppressOverlapping(candidates []windowMatch) []windowMatch {
	sorted := make([]windowMatch, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].similarity > sorted[j].similarity })

	var kept []windowMatch
	for _, c := range sorted {
		overlaps := false
		for _, k := range kept {
			if abs(c.offset-k.offset) < windowSuppressDistance {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
