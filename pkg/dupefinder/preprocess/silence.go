package preprocess

import "math"

const silenceEps = 1e-12

// trimSilence removes leading and trailing silence, keeping
// preservePaddingMs of silence on each side of the non-silent region. If the
// whole input is silent, the output is preservePaddingMs worth of zeros.
func trimSilence(samples []float64, rate int, thresholdDB float64, preservePaddingMs int) []float64 {
	chunkSize := rate / 100
	if chunkSize < 1 {
		chunkSize = 1
	}

	numChunks := (len(samples) + chunkSize - 1) / chunkSize
	firstNonSilent := -1
	lastNonSilent := -1

	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		if !isSilentChunk(samples[start:end], thresholdDB) {
			if firstNonSilent == -1 {
				firstNonSilent = c
			}
			lastNonSilent = c
		}
	}

	padSamples := preservePaddingMs * rate / 1000

	if firstNonSilent == -1 {
		return make([]float64, padSamples)
	}

	startSample := firstNonSilent*chunkSize - padSamples
	if startSample < 0 {
		startSample = 0
	}
	endSample := (lastNonSilent+1)*chunkSize - 1 + padSamples
	if endSample > len(samples)-1 {
		endSample = len(samples) - 1
	}

	out := make([]float64, endSample-startSample+1)
	copy(out, samples[startSample:endSample+1])
	return out
}

func isSilentChunk(chunk []float64, thresholdDB float64) bool {
	if len(chunk) == 0 {
		return true
	}
	var sumSquares float64
	for _, s := range chunk {
		sumSquares += s * s
	}
	meanSquare := sumSquares / float64(len(chunk))
	db := 20 * math.Log10(meanSquare+silenceEps)
	return db < thresholdDB
}
