package preprocess

// ResampleLinear linearly resamples samples from inRate to outRate. This is
// the same formula used by streaming ingest's per-chunk resample step:
// out[i] = in[floor(i/r)]*(1-f) + in[floor(i/r)+1]*f, tail uses the last
// input sample.
func ResampleLinear(samples []float64, inRate, outRate int) []float64 {
	if inRate == outRate || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(outRate) / float64(inRate)
	outLen := int(float64(len(samples)) * ratio)
	out := make([]float64, outLen)

	for i := 0; i < outLen; i++ {
		srcPos := float64(i) / ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)

		if idx+1 < len(samples) {
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		} else {
			out[i] = samples[len(samples)-1]
		}
	}
	return out
}
