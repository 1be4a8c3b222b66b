package main

import "github.com/nearcopy/dupefinder/pkg/dupefinder/model"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// ErrorResponse is the JSON body returned for any handler failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// FingerprintRequest is the body of POST /fingerprint: a filesystem path
// resolvable by the server process. Uploading raw audio bytes is out of
// scope for this convenience surface; it exists to exercise the core
// library over HTTP, not to be a full media-ingestion service.
type FingerprintRequest struct {
	Path string `json:"path"`
}

// FingerprintResponse mirrors the fields of model.Fingerprint that are safe
// to serialize; SubFingerprints is included so a client can round-trip a
// fingerprint into a later /compare call without re-decoding audio.
type FingerprintResponse struct {
	Path            string   `json:"path"`
	SampleRate      int      `json:"sample_rate"`
	Duration        float64  `json:"duration"`
	SubFingerprints []uint32 `json:"sub_fingerprints"`
}

func fingerprintResponse(fp *model.Fingerprint) FingerprintResponse {
	return FingerprintResponse{
		Path:            fp.Path,
		SampleRate:      fp.SampleRate,
		Duration:        fp.Duration,
		SubFingerprints: fp.SubFingerprints,
	}
}

// CompareRequest is the body of POST /compare: two already-computed
// fingerprints (as returned by /fingerprint) plus whether to use the
// sliding-window comparator instead of the default global one.
type CompareRequest struct {
	A             FingerprintPayload `json:"a"`
	B             FingerprintPayload `json:"b"`
	SlidingWindow bool               `json:"sliding_window"`
}

// FingerprintPayload is the wire shape of a fingerprint a client submits
// back to the server, the inverse of FingerprintResponse.
type FingerprintPayload struct {
	Path            string   `json:"path"`
	SampleRate      int      `json:"sample_rate"`
	Duration        float64  `json:"duration"`
	SubFingerprints []uint32 `json:"sub_fingerprints"`
}

func (p FingerprintPayload) toModel() *model.Fingerprint {
	return &model.Fingerprint{
		Path:            p.Path,
		SampleRate:      p.SampleRate,
		Duration:        p.Duration,
		SubFingerprints: p.SubFingerprints,
	}
}

// CompareResponse mirrors model.MatchResult.
type CompareResponse struct {
	Similarity      float64              `json:"similarity"`
	BestOffset      int                  `json:"best_offset"`
	MatchedSegments int                  `json:"matched_segments"`
	BitErrorRate    float64              `json:"bit_error_rate"`
	IsDuplicate     bool                 `json:"is_duplicate"`
	CoverageRatio   float64              `json:"coverage_ratio"`
	Segments        []model.SegmentMatch `json:"segments,omitempty"`
}

func compareResponse(r model.MatchResult) CompareResponse {
	return CompareResponse{
		Similarity:      r.Similarity,
		BestOffset:      r.BestOffset,
		MatchedSegments: r.MatchedSegments,
		BitErrorRate:    r.BitErrorRate,
		IsDuplicate:     r.IsDuplicate,
		CoverageRatio:   r.CoverageRatio,
		Segments:        r.Segments,
	}
}

// IndexDuplicatesRequest is the body of POST /index/duplicates: a batch of
// paths to fingerprint, index and group in a single request. This endpoint
// builds a throwaway Index for the lifetime of the request only; the server
// holds no index state between calls, matching the core Index's own
// no-persistence stance.
type IndexDuplicatesRequest struct {
	Paths    []string `json:"paths"`
	Parallel bool     `json:"parallel"`
	Workers  int      `json:"workers"`
}

// IndexDuplicatesResponse reports the discovered groups by path instead of
// by file_id, since file_id has no meaning outside the request.
type IndexDuplicatesResponse struct {
	Groups []DuplicateGroupByPath `json:"groups"`
	Failed map[string]string      `json:"failed,omitempty"`
}

// DuplicateGroupByPath is model.DuplicateGroup with file_ids resolved back
// to the paths the caller submitted.
type DuplicateGroupByPath struct {
	Paths             []string `json:"paths"`
	AverageSimilarity float64  `json:"average_similarity"`
}
