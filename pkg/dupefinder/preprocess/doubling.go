package preprocess

// MinFingerprintDuration is the empirical minimum effective duration, in
// seconds, the fingerprinter needs to produce a stable fingerprint.
const MinFingerprintDuration = 3.0

// ShouldDouble decides whether processedDuration seconds of audio should be
// concatenated with itself before fingerprinting. Doubling is conditionally
// skipped when preprocessing aggressively trimmed silence:
// a short, heavily-trimmed track only doubles if the untrimmed original was
// itself long enough to be worth it.
func ShouldDouble(originalDuration, processedDuration float64, cfg Config) bool {
	if processedDuration >= MinFingerprintDuration {
		return false
	}
	if !cfg.DisableDoublingAfterTrim {
		return true
	}
	if originalDuration <= 0 {
		return true
	}
	ratio := processedDuration / originalDuration
	if ratio < cfg.DoublingThresholdRatio {
		return originalDuration >= cfg.MinDurationForDoubling
	}
	return true
}

// Double concatenates samples with itself once.
func Double(samples []float64) []float64 {
	out := make([]float64, len(samples)*2)
	copy(out, samples)
	copy(out[len(samples):], samples)
	return out
}
