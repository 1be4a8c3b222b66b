package compare

import "math/bits"

// overlapRange returns the [start, end) range of indices into fp1 that
// overlap fp2 when fp1[i] is compared against fp2[i+k].
func overlapRange(len1, len2, k int) (start, end int) {
	start = 0
	if -k > start {
		start = -k
	}
	end = len1
	if len2-k < end {
		end = len2 - k
	}
	return start, end
}

// similarityAtOffset computes bit-similarity and bit-error-rate between fp1
// and fp2 at offset k (core metrics), plus the number of
// overlapping sub-fingerprint positions considered.
func similarityAtOffset(fp1, fp2 []uint32, k int) (similarity, ber float64, overlapCount int) {
	start, end := overlapRange(len(fp1), len(fp2), k)
	if end <= start {
		return 0, 1, 0
	}

	var equalBits, errorBits uint64
	for i := start; i < end; i++ {
		diff := fp1[i] ^ fp2[i+k]
		errBits := bits.OnesCount32(diff)
		errorBits += uint64(errBits)
		equalBits += uint64(32 - errBits)
	}

	overlapCount = end - start
	totalBits := float64(32 * overlapCount)
	similarity = float64(equalBits) / totalBits
	ber = float64(errorBits) / totalBits
	return similarity, ber, overlapCount
}
