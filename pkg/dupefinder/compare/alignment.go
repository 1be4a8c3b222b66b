package compare

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	histogramSigma       = 2.0
	histogramLocalMaxMin = 0.1
)

// histogramEstimate votes for an offset every time a 16-bit hash recurs
// between fp1 and fp2, smooths the resulting histogram with a Gaussian
// kernel, and returns the strongest local maximum above the noise floor.
func histogramEstimate(fp1, fp2 []uint32, maxOffset int) (offset int, ok bool) {
	positions := make(map[uint16][]int, len(fp2))
	for j, v := range fp2 {
		h := uint16(v & 0xFFFF)
		positions[h] = append(positions[h], j)
	}

	size := 2*maxOffset + 1
	votes := make([]float64, size)
	var total float64

	for i, v := range fp1 {
		h := uint16(v & 0xFFFF)
		for _, j := range positions[h] {
			k := j - i
			if k < -maxOffset || k > maxOffset {
				continue
			}
			votes[k+maxOffset]++
			total++
		}
	}

	if total == 0 {
		return 0, false
	}
	for i := range votes {
		votes[i] /= total
	}

	smoothed := gaussianSmooth(votes, histogramSigma)

	bestVal := -1.0
	bestIdx := -1
	for i, v := range smoothed {
		if v <= histogramLocalMaxMin {
			continue
		}
		leftOK := i == 0 || smoothed[i-1] <= v
		rightOK := i == len(smoothed)-1 || smoothed[i+1] <= v
		if !leftOK || !rightOK {
			continue
		}
		if v > bestVal {
			bestVal = v
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return 0, false
	}
	return bestIdx - maxOffset, true
}

// gaussianSmooth convolves votes with a Gaussian kernel of the given sigma,
// truncated to a half-width of 3*sigma, normalizing the kernel to sum to
// one via gonum/floats.
func gaussianSmooth(votes []float64, sigma float64) []float64 {
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	out := make([]float64, len(votes))
	for i := range votes {
		var acc float64
		for k := -radius; k <= radius; k++ {
			idx := i + k
			if idx < 0 || idx >= len(votes) {
				continue
			}
			acc += votes[idx] * kernel[k+radius]
		}
		out[i] = acc
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(3 * sigma)
	size := 2*radius + 1
	kernel := make([]float64, size)
	for i := -radius; i <= radius; i++ {
		x := float64(i)
		kernel[i+radius] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	sum := floats.Sum(kernel)
	if sum > 0 {
		floats.Scale(1/sum, kernel)
	}
	return kernel
}

// correlationEstimate sweeps k across [-maxOffset, maxOffset] in strides of
// step and returns the offset maximizing bit-match similarity.
func correlationEstimate(fp1, fp2 []uint32, maxOffset, step int) int {
	if step < 1 {
		step = 1
	}
	bestK := -maxOffset
	bestSim := -1.0
	for k := -maxOffset; k <= maxOffset; k += step {
		sim, _, overlap := similarityAtOffset(fp1, fp2, k)
		if overlap == 0 {
			continue
		}
		if sim > bestSim {
			bestSim = sim
			bestK = k
		}
	}
	return bestK
}

// fineTune evaluates k-2..k+2 around the candidate offset and keeps whatever
// maximizes similarity, staying within [-maxOffset, maxOffset].
func fineTune(fp1, fp2 []uint32, candidate, maxOffset int) int {
	bestK := candidate
	bestSim, _, overlap := similarityAtOffset(fp1, fp2, candidate)
	if overlap == 0 {
		bestSim = -1.0
	}

	for delta := -2; delta <= 2; delta++ {
		k := candidate + delta
		if k < -maxOffset || k > maxOffset {
			continue
		}
		sim, _, overlap := similarityAtOffset(fp1, fp2, k)
		if overlap == 0 {
			continue
		}
		if sim > bestSim {
			bestSim = sim
			bestK = k
		}
	}
	return bestK
}

// findBestAlignment combines the histogram and correlation estimators,
// keeps whichever scores higher, and fine-tunes the result.
func findBestAlignment(fp1, fp2 []uint32, cfg Config) int {
	histK, histOK := histogramEstimate(fp1, fp2, cfg.MaxAlignmentOffset)
	corrK := correlationEstimate(fp1, fp2, cfg.MaxAlignmentOffset, cfg.AlignmentStep)

	candidate := corrK
	if histOK {
		histSim, _, histOverlap := similarityAtOffset(fp1, fp2, histK)
		corrSim, _, corrOverlap := similarityAtOffset(fp1, fp2, corrK)
		if histOverlap > 0 && (corrOverlap == 0 || histSim > corrSim) {
			candidate = histK
		}
	}

	return fineTune(fp1, fp2, candidate, cfg.MaxAlignmentOffset)
}
