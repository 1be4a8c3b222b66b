package index

import (
	"fmt"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// Index holds a growing, append-only collection of fingerprinted files plus
// the inverted hash index used to find candidates among them. The zero value
// is not usable; construct with New.
type Index struct {
	store  *fileStore
	hashes *hashIndex
	cfg    Config
	built  bool
}

// New builds an empty Index configured with cfg.
func New(cfg Config) *Index {
	return &Index{
		store:  &fileStore{},
		hashes: newHashIndex(),
		cfg:    cfg,
		built:  true,
	}
}

func (idx *Index) checkReady() error {
	if idx == nil || !idx.built {
		return fmt.Errorf("%w", errIndexNotReady)
	}
	return nil
}

// AddFile validates fp, appends a FileEntry for it, records its postings in
// the hash index, and returns the assigned file_id. file_ids are handed out
// in append order starting at 0 and are never reused.
func (idx *Index) AddFile(path string, fp *model.Fingerprint) (int, error) {
	if err := idx.checkReady(); err != nil {
		return 0, err
	}
	if fp == nil {
		return 0, fmt.Errorf("index: add %q: %w", path, errInvalidInput)
	}
	if err := fp.Validate(); err != nil {
		return 0, fmt.Errorf("index: add %q: %w", path, err)
	}

	entry := &model.FileEntry{Path: path, Fingerprint: fp}
	fileID := idx.store.append(entry)
	idx.hashes.add(fileID, fp)
	return fileID, nil
}

// AddFilesBatch adds each (path, fingerprint) pair in order and returns the
// assigned file_ids. It stops at the first error, returning the file_ids
// assigned so far.
func (idx *Index) AddFilesBatch(paths []string, fps []*model.Fingerprint) ([]int, error) {
	if err := idx.checkReady(); err != nil {
		return nil, err
	}
	if len(paths) != len(fps) {
		return nil, fmt.Errorf("index: add batch: %d paths but %d fingerprints: %w", len(paths), len(fps), errInvalidInput)
	}

	ids := make([]int, 0, len(paths))
	for i := range paths {
		id, err := idx.AddFile(paths[i], fps[i])
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindCandidates returns the file_ids in the index whose posting count
// against fp meets the configured hash_threshold, sorted by count
// descending.
func (idx *Index) FindCandidates(fp *model.Fingerprint) ([]int, error) {
	if err := idx.checkReady(); err != nil {
		return nil, err
	}
	if fp == nil {
		return nil, fmt.Errorf("index: find candidates: %w", errInvalidInput)
	}
	return findCandidates(idx.hashes, fp, idx.cfg.HashThreshold), nil
}

// FindCandidatesByID is the file_id form of FindCandidates: it looks up the
// fingerprint already stored for fileID and finds its candidates the same
// way. fileID itself is never included in its own candidate list.
func (idx *Index) FindCandidatesByID(fileID int) ([]int, error) {
	if err := idx.checkReady(); err != nil {
		return nil, err
	}
	entry, ok := idx.store.get(fileID)
	if !ok {
		return nil, fmt.Errorf("index: find candidates: file_id %d: %w", fileID, errInvalidInput)
	}
	candidates := findCandidates(idx.hashes, entry.Fingerprint, idx.cfg.HashThreshold)
	out := candidates[:0:0]
	for _, c := range candidates {
		if c != fileID {
			out = append(out, c)
		}
	}
	return out, nil
}

// FileCount returns the number of files currently in the index.
func (idx *Index) FileCount() int {
	if err := idx.checkReady(); err != nil {
		return 0
	}
	return idx.store.len()
}

// FindAllDuplicates walks the index sequentially in file_id order, greedily
// assigning each file to the first group it matches, and returns the
// resulting groups sorted by average similarity descending. This
// is deliberately not thread-safe against concurrent AddFile calls.
func (idx *Index) FindAllDuplicates() ([]model.DuplicateGroup, error) {
	if err := idx.checkReady(); err != nil {
		return nil, err
	}
	raw := findAllDuplicatesSequential(idx.store, idx.hashes, idx.cfg)
	return finalizeGroups(idx.store, raw, idx.cfg), nil
}

// FindAllDuplicatesParallel is the concurrent counterpart of
// FindAllDuplicates, partitioning files across nWorkers goroutines. Because
// worker partitions are processed independently and a matching pair can be
// discovered from either side, the exact greedy assignment of a file that
// fits more than one group may differ from the sequential result; group
// membership and scores are otherwise equivalent.
func (idx *Index) FindAllDuplicatesParallel(nWorkers int) ([]model.DuplicateGroup, error) {
	if err := idx.checkReady(); err != nil {
		return nil, err
	}
	raw := findAllDuplicatesParallel(idx.store, idx.hashes, idx.cfg, nWorkers)
	return finalizeGroups(idx.store, raw, idx.cfg), nil
}

// SetSimilarityThreshold overrides the comparator's duplicate-decision
// threshold.
func (idx *Index) SetSimilarityThreshold(v float64) { idx.cfg.Comparator.SimilarityThreshold = v }

// SetMaxAlignmentOffset overrides the comparator's alignment search bound.
func (idx *Index) SetMaxAlignmentOffset(v int) { idx.cfg.Comparator.MaxAlignmentOffset = v }

// SetBitErrorThreshold overrides the comparator's bit-error-rate bound.
func (idx *Index) SetBitErrorThreshold(v float64) { idx.cfg.Comparator.BitErrorThreshold = v }

// SetHashThreshold overrides the minimum posting count required for a
// candidate.
func (idx *Index) SetHashThreshold(v int) { idx.cfg.HashThreshold = v }
