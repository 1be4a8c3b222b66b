package index

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/compare"
)

// findAllDuplicatesParallel partitions files across nWorkers goroutines.
// Each worker runs the same per-file candidate-generate-and-confirm
// procedure as the sequential path; a processed bitmap guarded by its own
// mutex is read before scanning a file and re-checked ("double-checked")
// before a worker commits a group, so a file can never end up claimed by two
// groups. Each committed group is appended to the shared group list under a
// separate lock.
func findAllDuplicatesParallel(store *fileStore, idx *hashIndex, cfg Config, nWorkers int) []rawGroup {
	n := store.len()
	if nWorkers < 1 {
		nWorkers = 1
	}
	if nWorkers > n {
		nWorkers = n
	}
	if n == 0 {
		return nil
	}

	processed := make([]bool, n)
	var processedMu sync.Mutex

	var rawGroupsMu sync.Mutex
	var groups []rawGroup

	g := new(errgroup.Group)
	chunk := (n + nWorkers - 1) / nWorkers

	for w := 0; w < nWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.Go(func() error {
			for i := start; i < end; i++ {
				processedMu.Lock()
				alreadyDone := processed[i]
				processedMu.Unlock()
				if alreadyDone {
					continue
				}

				entry, ok := store.get(i)
				if !ok {
					continue
				}

				candidates := findCandidates(idx, entry.Fingerprint, cfg.HashThreshold)
				members := []int{i}

				for _, c := range candidates {
					if c == i {
						continue
					}
					processedMu.Lock()
					done := processed[c]
					processedMu.Unlock()
					if done {
						continue
					}

					candidateEntry, ok := store.get(c)
					if !ok {
						continue
					}
					res, err := compare.Compare(entry.Fingerprint, candidateEntry.Fingerprint, cfg.Comparator)
					if err != nil || !res.IsDuplicate {
						continue
					}
					members = append(members, c)
				}

				processedMu.Lock()
				filtered := members[:0:0]
				for _, m := range members {
					if !processed[m] {
						filtered = append(filtered, m)
					}
				}
				if len(filtered) > 1 {
					for _, m := range filtered {
						processed[m] = true
					}
				} else if len(filtered) == 1 {
					processed[filtered[0]] = true
				}
				processedMu.Unlock()

				if len(filtered) > 1 {
					rawGroupsMu.Lock()
					groups = append(groups, rawGroup{fileIDs: filtered})
					rawGroupsMu.Unlock()
				}
			}
			return nil
		})
	}

	_ = g.Wait()
	return groups
}
