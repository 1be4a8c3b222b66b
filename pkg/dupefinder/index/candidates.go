package index

import (
	"sort"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

// findCandidates extracts fp's 16-bit hashes, tallies how many postings
// exist per file_id across those hashes, and returns the file_ids whose
// count is at least hashThreshold, sorted by count descending. Self-matches
// are not filtered here; callers filter by file_id != self.
func findCandidates(idx *hashIndex, fp *model.Fingerprint, hashThreshold int) []int {
	counts := make(map[int]int)

	for _, v := range fp.SubFingerprints {
		hash := uint16(v & 0xFFFF)
		for _, p := range idx.postings(hash) {
			counts[p.FileID]++
		}
	}

	type scored struct {
		fileID int
		count  int
	}
	scoredList := make([]scored, 0, len(counts))
	for id, c := range counts {
		if c >= hashThreshold {
			scoredList = append(scoredList, scored{id, c})
		}
	}
	sort.Slice(scoredList, func(i, j int) bool {
		if scoredList[i].count != scoredList[j].count {
			return scoredList[i].count > scoredList[j].count
		}
		return scoredList[i].fileID < scoredList[j].fileID
	})

	out := make([]int, len(scoredList))
	for i, s := range scoredList {
		out[i] = s.fileID
	}
	return out
}
