package index

import (
	"math/rand"
	"testing"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

func fp(path string, values []uint32) *model.Fingerprint {
	return &model.Fingerprint{SubFingerprints: values, SampleRate: model.FingerprintSampleRate, Duration: float64(len(values)) * 0.12, Path: path}
}

func randomFingerprint(rng *rand.Rand, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = rng.Uint32()
	}
	return out
}

// noisyCopy flips bitErrorFraction of all bits, choosing only among the high
// 16 bits of each sub-fingerprint so the low-16-bit hashes used for
// candidate generation and the quick filter stay intact.
func noisyCopy(rng *rand.Rand, values []uint32, bitErrorFraction float64) []uint32 {
	out := make([]uint32, len(values))
	copy(out, values)
	flips := int(float64(len(values)*32) * bitErrorFraction)
	for i := 0; i < flips; i++ {
		idx := rng.Intn(len(out))
		bit := uint(16 + rng.Intn(16))
		out[idx] ^= 1 << bit
	}
	return out
}

// S6 — Index grouping: A, B (A + ~5% bit noise), C (independent random) ->
// one group {A, B} with average_similarity >= 0.90, C unmatched.
func TestFindAllDuplicatesGroupsNearCopiesOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := randomFingerprint(rng, 80)
	b := noisyCopy(rng, a, 0.05)
	c := randomFingerprint(rng, 80)

	idx := New(DefaultConfig())
	idA, err := idx.AddFile("a.wav", fp("a.wav", a))
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	idB, err := idx.AddFile("b.wav", fp("b.wav", b))
	if err != nil {
		t.Fatalf("add b: %v", err)
	}
	idC, err := idx.AddFile("c.wav", fp("c.wav", c))
	if err != nil {
		t.Fatalf("add c: %v", err)
	}

	groups, err := idx.FindAllDuplicates()
	if err != nil {
		t.Fatalf("find all duplicates: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected exactly one group, got %d: %+v", len(groups), groups)
	}
	g := groups[0]
	if len(g.FileIDs) != 2 || g.FileIDs[0] != min(idA, idB) || g.FileIDs[1] != max(idA, idB) {
		t.Errorf("expected group {%d,%d}, got %+v", idA, idB, g.FileIDs)
	}
	if g.AverageSimilarity < 0.90 {
		t.Errorf("average similarity = %v, want >= 0.90", g.AverageSimilarity)
	}
	for _, group := range groups {
		for _, id := range group.FileIDs {
			if id == idC {
				t.Error("independent random file must not appear in any group")
			}
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Invariant 5: a file whose fingerprint is already indexed is among the
// candidates returned for that same fingerprint.
func TestFindCandidatesCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	a := randomFingerprint(rng, 50)
	b := noisyCopy(rng, a, 0.05)

	idx := New(DefaultConfig())
	idA, _ := idx.AddFile("a.wav", fp("a.wav", a))
	_, _ = idx.AddFile("b.wav", fp("b.wav", b))

	candidates, err := idx.FindCandidates(fp("a.wav", a))
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	found := false
	for _, c := range candidates {
		if c == idA {
			found = true
		}
	}
	if !found {
		t.Error("expected a file to be its own candidate")
	}
}

// FindCandidatesByID is the file_id form of FindCandidates: same posting
// tally, resolved from a file already in the index, excluding itself.
func TestFindCandidatesByID(t *testing.T) {
	rng := rand.New(rand.NewSource(46))
	a := randomFingerprint(rng, 50)
	b := noisyCopy(rng, a, 0.05)
	c := randomFingerprint(rng, 50)

	idx := New(DefaultConfig())
	idA, _ := idx.AddFile("a.wav", fp("a.wav", a))
	idB, _ := idx.AddFile("b.wav", fp("b.wav", b))
	_, _ = idx.AddFile("c.wav", fp("c.wav", c))

	candidates, err := idx.FindCandidatesByID(idA)
	if err != nil {
		t.Fatalf("find candidates by id: %v", err)
	}
	for _, cand := range candidates {
		if cand == idA {
			t.Error("FindCandidatesByID must not include the queried file_id itself")
		}
	}
	found := false
	for _, cand := range candidates {
		if cand == idB {
			found = true
		}
	}
	if !found {
		t.Error("expected the near-duplicate file to be a candidate")
	}

	if _, err := idx.FindCandidatesByID(9999); err == nil {
		t.Error("expected an error for an out-of-range file_id")
	}
}

// Invariant 6: group validity — no member appears in two groups, and every
// group has at least two members.
func TestFindAllDuplicatesGroupValidity(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	idx := New(DefaultConfig())

	base := randomFingerprint(rng, 60)
	near := noisyCopy(rng, base, 0.05)
	other := randomFingerprint(rng, 60)

	_, _ = idx.AddFile("a.wav", fp("a.wav", base))
	_, _ = idx.AddFile("b.wav", fp("b.wav", near))
	_, _ = idx.AddFile("c.wav", fp("c.wav", other))
	_, _ = idx.AddFile("d.wav", fp("d.wav", noisyCopy(rng, other, 0.05)))

	groups, err := idx.FindAllDuplicates()
	if err != nil {
		t.Fatalf("find all duplicates: %v", err)
	}

	seen := make(map[int]bool)
	for _, g := range groups {
		if len(g.FileIDs) < 2 {
			t.Errorf("group with fewer than two members: %+v", g)
		}
		for _, id := range g.FileIDs {
			if seen[id] {
				t.Errorf("file_id %d appears in more than one group", id)
			}
			seen[id] = true
		}
	}
}

func TestFindAllDuplicatesOrderingBySimilarityDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(45))
	idx := New(DefaultConfig())

	tight := randomFingerprint(rng, 60)
	tightCopy := noisyCopy(rng, tight, 0.01)
	loose := randomFingerprint(rng, 60)
	looseCopy := noisyCopy(rng, loose, 0.10)

	_, _ = idx.AddFile("tight-a", fp("tight-a", tight))
	_, _ = idx.AddFile("tight-b", fp("tight-b", tightCopy))
	_, _ = idx.AddFile("loose-a", fp("loose-a", loose))
	_, _ = idx.AddFile("loose-b", fp("loose-b", looseCopy))

	groups, err := idx.FindAllDuplicates()
	if err != nil {
		t.Fatalf("find all duplicates: %v", err)
	}
	for i := 1; i < len(groups); i++ {
		if groups[i-1].AverageSimilarity < groups[i].AverageSimilarity {
			t.Errorf("groups not sorted by average similarity descending: %+v", groups)
		}
	}
}

func TestIndexNotReadyBeforeConstruction(t *testing.T) {
	var idx Index
	if _, err := idx.AddFile("a.wav", fp("a.wav", []uint32{1, 2, 3})); err == nil {
		t.Error("expected error from zero-value Index")
	}
}

func TestAddFileRejectsInvalidFingerprint(t *testing.T) {
	idx := New(DefaultConfig())
	if _, err := idx.AddFile("a.wav", fp("a.wav", nil)); err == nil {
		t.Error("expected error for empty fingerprint")
	}
	if _, err := idx.AddFile("a.wav", nil); err == nil {
		t.Error("expected error for nil fingerprint")
	}
}

func TestFileIDsAssignedInAppendOrder(t *testing.T) {
	idx := New(DefaultConfig())
	rng := rand.New(rand.NewSource(46))
	for i := 0; i < 5; i++ {
		id, err := idx.AddFile("f", fp("f", randomFingerprint(rng, 20)))
		if err != nil {
			t.Fatalf("add file %d: %v", i, err)
		}
		if id != i {
			t.Errorf("file %d got id %d, want %d", i, id, i)
		}
	}
}

func TestFindAllDuplicatesParallelAgreesWithSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(47))
	buildIndex := func() *Index {
		idx := New(DefaultConfig())
		base1 := randomFingerprint(rng, 60)
		base2 := randomFingerprint(rng, 60)
		_, _ = idx.AddFile("a1", fp("a1", base1))
		_, _ = idx.AddFile("a2", fp("a2", noisyCopy(rng, base1, 0.05)))
		_, _ = idx.AddFile("b1", fp("b1", base2))
		_, _ = idx.AddFile("b2", fp("b2", noisyCopy(rng, base2, 0.05)))
		_, _ = idx.AddFile("solo", fp("solo", randomFingerprint(rng, 60)))
		return idx
	}

	seqIdx := buildIndex()
	seqGroups, err := seqIdx.FindAllDuplicates()
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}

	parIdx := buildIndex()
	parGroups, err := parIdx.FindAllDuplicatesParallel(4)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(seqGroups) != len(parGroups) {
		t.Fatalf("group count mismatch: sequential=%d parallel=%d", len(seqGroups), len(parGroups))
	}
}
