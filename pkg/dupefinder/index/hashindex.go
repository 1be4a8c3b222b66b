package index

import (
	"sync"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// hashIndex maps a 16-bit hash (the low 16 bits of a sub-fingerprint) to the
// ordered sequence of postings recorded under it. It is append-only and
// guarded by a readers-writer lock: add takes the writer, everything else
// takes the reader, so multiple candidate searches may run concurrently with
// one another but never alongside a write.
type hashIndex struct {
	mu      sync.RWMutex
	buckets map[uint16][]model.IndexPosting
}

func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make(map[uint16][]model.IndexPosting)}
}

// add records one posting per sub-fingerprint position in fp under fileID.
func (h *hashIndex) add(fileID int, fp *model.Fingerprint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for pos, v := range fp.SubFingerprints {
		hash := uint16(v & 0xFFFF)
		h.buckets[hash] = append(h.buckets[hash], model.IndexPosting{FileID: fileID, Position: pos})
	}
}

// postings returns the postings recorded under hash.
func (h *hashIndex) postings(hash uint16) []model.IndexPosting {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.buckets[hash]
}
