package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nearcopy/dupefinder/pkg/dupefinder"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/audio"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
	"github.com/nearcopy/dupefinder/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies. It holds no
// index or fingerprint state between requests: every /index/duplicates call
// builds and discards its own Index.
type Server struct {
	config *ServerConfig
	log    *logger.Logger
	newGen func() (*dupefinder.Generator, error)
}

// NewServer creates a new server instance.
func NewServer(config *ServerConfig) *Server {
	return &Server{
		config: config,
		log:    logger.GetLogger(),
		newGen: newFileGenerator,
	}
}

// newFileGenerator builds a Generator wired to the concrete WAV decoder and
// toy fingerprinter, the same pair cmd/scan uses.
func newFileGenerator() (*dupefinder.Generator, error) {
	return dupefinder.NewGenerator(
		dupefinder.WithDecoderFactory(func() dupefinder.Decoder { return audio.NewWAVDecoder() }),
		dupefinder.WithFingerprinterFactory(func() dupefinder.Fingerprinter { return audio.NewToyFingerprinter() }),
	)
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response.
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "dupefinder API",
		"endpoints": map[string]string{
			"health":          "GET /health",
			"fingerprint":     "POST /fingerprint",
			"compare":         "POST /compare",
			"indexDuplicates": "POST /index/duplicates",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleFingerprint handles POST /fingerprint: fingerprints a file already
// present on the server's filesystem and returns it in a form the client
// can feed straight back into /compare or /index/duplicates.
func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req FingerprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	gen, err := s.newGen()
	if err != nil {
		s.log.Errorf("building generator: %v", err)
		s.respondError(w, http.StatusInternalServerError, "server misconfiguration")
		return
	}

	fp, err := gen.GenerateFingerprintWithPreprocessing(req.Path, preprocess.DefaultConfig())
	if err != nil {
		s.log.Warnf("fingerprinting %q failed: %v", req.Path, err)
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.log.Infof("fingerprinted %q (%d sub-fingerprints, %.2fs)", req.Path, len(fp.SubFingerprints), fp.Duration)
	s.respondJSON(w, http.StatusOK, fingerprintResponse(fp))
}

// handleCompare handles POST /compare: compares two client-supplied
// fingerprints, no filesystem access involved.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fpA := req.A.toModel()
	fpB := req.B.toModel()

	var result model.MatchResult
	var err error
	if req.SlidingWindow {
		result, err = dupefinder.CompareSlidingWindow(fpA, fpB)
	} else {
		result, err = dupefinder.Compare(fpA, fpB)
	}
	if err != nil {
		s.log.Warnf("compare failed: %v", err)
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, compareResponse(result))
}

// handleIndexDuplicates handles POST /index/duplicates: fingerprints every
// path in the request, builds a throwaway Index, and returns the discovered
// duplicate groups keyed by path.
func (s *Server) handleIndexDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req IndexDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Paths) == 0 {
		s.respondError(w, http.StatusBadRequest, "paths must not be empty")
		return
	}

	gen, err := s.newGen()
	if err != nil {
		s.log.Errorf("building generator: %v", err)
		s.respondError(w, http.StatusInternalServerError, "server misconfiguration")
		return
	}

	idx := dupefinder.NewIndex()
	indexedPaths := make([]string, 0, len(req.Paths))
	failed := make(map[string]string)

	for _, path := range req.Paths {
		fp, err := gen.GenerateFingerprintWithPreprocessing(path, preprocess.DefaultConfig())
		if err != nil {
			failed[path] = err.Error()
			continue
		}
		if _, err := idx.AddFile(path, fp); err != nil {
			failed[path] = err.Error()
			continue
		}
		indexedPaths = append(indexedPaths, path)
	}

	if len(indexedPaths) == 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "no path could be fingerprinted")
		return
	}

	workers := req.Workers
	if workers < 1 {
		workers = 4
	}

	var groups []model.DuplicateGroup
	if req.Parallel {
		groups, err = idx.FindAllDuplicatesParallel(workers)
	} else {
		groups, err = idx.FindAllDuplicates()
	}
	if err != nil {
		s.log.Errorf("finding duplicates: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to search for duplicates")
		return
	}

	resp := IndexDuplicatesResponse{
		Groups: make([]DuplicateGroupByPath, 0, len(groups)),
		Failed: failed,
	}
	for _, g := range groups {
		paths := make([]string, 0, len(g.FileIDs))
		for _, id := range g.FileIDs {
			if id >= 0 && id < len(indexedPaths) {
				paths = append(paths, indexedPaths[id])
			}
		}
		resp.Groups = append(resp.Groups, DuplicateGroupByPath{
			Paths:             paths,
			AverageSimilarity: g.AverageSimilarity,
		})
	}

	s.respondJSON(w, http.StatusOK, resp)
}
