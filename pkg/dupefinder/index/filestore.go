// Package index implements the inverted hash-to-postings index, candidate
// generation, and sequential/parallel duplicate-group discovery over a
// growing collection of fingerprinted files.
package index

import (
	"sync"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// fileStore is an append-only collection of FileEntries. A file's index in
// the store is its stable file_id; entries are never removed or reordered.
// Storing *model.FileEntry (not model.FileEntry by value) keeps addresses
// stable even as the backing slice grows and reallocates, without needing a
// custom arena.
type fileStore struct {
	mu      sync.RWMutex
	entries []*model.FileEntry
}

func (s *fileStore) append(entry *model.FileEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return len(s.entries) - 1
}

func (s *fileStore) get(fileID int) (*model.FileEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if fileID < 0 || fileID >= len(s.entries) {
		return nil, false
	}
	return s.entries[fileID], true
}

func (s *fileStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
