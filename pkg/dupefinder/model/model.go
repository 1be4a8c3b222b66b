// Package model holds the data types shared by the preprocessing, comparator
// and index subsystems: fingerprints, file entries, postings and the results
// of a comparison or a group search.
package model

import (
	"fmt"
	"math"
)

// MaxFingerprintLength is the largest sub-fingerprint count considered a
// valid Fingerprint. Longer sequences are rejected by Validate.
const MaxFingerprintLength = 100000

// FingerprintSampleRate is the fixed rate, in Hz, that every Fingerprint is
// computed at. Both the bulk and the streaming ingest paths resample to this
// rate before feeding the fingerprinter.
const FingerprintSampleRate = 11025

// Fingerprint is an ordered sequence of 32-bit sub-fingerprints produced by a
// Fingerprinter, together with the metadata needed to interpret it.
type Fingerprint struct {
	SubFingerprints []uint32
	SampleRate      int
	Duration        float64
	Path            string
}

// Validate checks the invariants a Fingerprint must satisfy to be usable by
// the comparator or the index: non-empty, bounded, positive rate and
// duration.
func (f *Fingerprint) Validate() error {
	if f == nil || len(f.SubFingerprints) == 0 {
		return fmt.Errorf("fingerprint %q: %w", pathOrUnknown(f), ErrEmpty)
	}
	if len(f.SubFingerprints) > MaxFingerprintLength {
		return fmt.Errorf("fingerprint %q: %d entries exceeds max %d: %w", f.Path, len(f.SubFingerprints), MaxFingerprintLength, ErrTooLong)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("fingerprint %q: sample rate must be positive: %w", f.Path, ErrInvalid)
	}
	if f.Duration <= 0 {
		return fmt.Errorf("fingerprint %q: duration must be positive: %w", f.Path, ErrInvalid)
	}
	return nil
}

func pathOrUnknown(f *Fingerprint) string {
	if f == nil || f.Path == "" {
		return "<unknown>"
	}
	return f.Path
}

// String renders a short, log-friendly summary of the fingerprint.
func (f *Fingerprint) String() string {
	if f == nil {
		return "Fingerprint(nil)"
	}
	return fmt.Sprintf("Fingerprint(path=%s, len=%d, rate=%dHz, dur=%.2fs)", f.Path, len(f.SubFingerprints), f.SampleRate, f.Duration)
}

// FileEntry is a file path plus its owned Fingerprint. The index it lives in
// never removes or reorders FileEntries once appended; the entry's position
// in the store is its stable file_id.
type FileEntry struct {
	Path        string
	Fingerprint *Fingerprint
}

// IndexPosting is a (file_id, position) pair: position is the offset of a
// hash within the originating fingerprint's sub-fingerprint sequence.
type IndexPosting struct {
	FileID   int
	Position int
}

// SegmentMatch is one accepted window in a sliding-window comparison.
type SegmentMatch struct {
	Offset     int
	Similarity float64
}

// MatchResult is the outcome of comparing two fingerprints, either via the
// global alignment search or via the sliding-window matcher.
type MatchResult struct {
	Similarity      float64
	BestOffset      int
	MatchedSegments int
	BitErrorRate    float64
	IsDuplicate     bool
	CoverageRatio   float64
	Segments        []SegmentMatch
}

// String renders a short, log-friendly summary of the match result.
func (m MatchResult) String() string {
	return fmt.Sprintf("MatchResult(sim=%.4f, ber=%.4f, offset=%d, matched=%d, dup=%v)",
		m.Similarity, m.BitErrorRate, m.BestOffset, m.MatchedSegments, m.IsDuplicate)
}

// DuplicateGroup is a set of file_ids believed to be near-duplicates of one
// another, plus the average pairwise similarity within the group.
type DuplicateGroup struct {
	FileIDs           []int
	AverageSimilarity float64
}

// ApproxEqual reports whether a and b differ by no more than eps, used by
// invariant checks that must tolerate floating-point rounding.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
