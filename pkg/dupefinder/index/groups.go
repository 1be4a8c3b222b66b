package index

import (
	"sort"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/compare"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// findAllDuplicatesSequential walks files in file_id order, generates
// candidates for each unprocessed file, confirms candidates with a full
// Compare, and emits a group as soon as it has more than one member. A file
// already claimed by an earlier group is skipped entirely: a file that
// would have matched multiple disjoint sets is assigned greedily to the
// first, by design.
func findAllDuplicatesSequential(store *fileStore, idx *hashIndex, cfg Config) []rawGroup {
	n := store.len()
	processed := make([]bool, n)
	var groups []rawGroup

	for i := 0; i < n; i++ {
		if processed[i] {
			continue
		}

		entry, ok := store.get(i)
		if !ok {
			continue
		}

		candidates := findCandidates(idx, entry.Fingerprint, cfg.HashThreshold)
		members := []int{i}

		for _, c := range candidates {
			if c == i || processed[c] {
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

		if len(members) > 1 {
			groups = append(groups, rawGroup{fileIDs: members})
			for _, m := range members {
				processed[m] = true
			}
		} else {
			processed[i] = true
		}
	}

	return groups
}

// rawGroup is a not-yet-scored set of member file_ids awaiting the
// merge/finalize pass.
type rawGroup struct {
	fileIDs []int
}

// finalizeGroups sorts each group's members ascending, scores it by average
// pairwise similarity, and returns the groups sorted by that average
// descending.
func finalizeGroups(store *fileStore, raw []rawGroup, cfg Config) []model.DuplicateGroup {
	groups := make([]model.DuplicateGroup, 0, len(raw))

	for _, g := range raw {
		members := append([]int(nil), g.fileIDs...)
		sort.Ints(members)

		avg := averagePairwiseSimilarity(store, members, cfg)
		groups = append(groups, model.DuplicateGroup{FileIDs: members, AverageSimilarity: avg})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AverageSimilarity > groups[j].AverageSimilarity
	})

	return groups
}

func averagePairwiseSimilarity(store *fileStore, members []int, cfg Config) float64 {
	if len(members) < 2 {
		return 0
	}

	var sum float64
	var pairs int
	for i := 0; i < len(members); i++ {
		a, ok := store.get(members[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			b, ok := store.get(members[j])
			if !ok {
				continue
			}
			res, err := compare.Compare(a.Fingerprint, b.Fingerprint, cfg.Comparator)
			if err != nil {
				continue
			}
			sum += res.Similarity
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}
