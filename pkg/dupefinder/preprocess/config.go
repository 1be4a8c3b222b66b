// Package preprocess implements the mono-mix, resample, silence-trim and
// volume-normalization pipeline every non-streaming ingest runs before
// fingerprinting, plus the short-audio doubling policy that interacts with
// trimming.
package preprocess

// Config mirrors every option the preprocessor recognizes.
type Config struct {
	TrimSilence bool
	// SilenceThresholdDB is the energy level, in dB, below which a 10ms
	// chunk is considered silent.
	SilenceThresholdDB float64
	// PreservePaddingMs is the silence retained on each side of the
	// non-silent region once trimmed.
	PreservePaddingMs int

	NormalizeSampleRate bool
	TargetSampleRate    int

	NormalizeVolume     bool
	UseRMSNormalization bool
	TargetPeakDB        float64
	TargetRMSDB         float64
	NoiseFloorDB        float64

	DisableDoublingAfterTrim bool
	DoublingThresholdRatio   float64
	MinDurationForDoubling   float64
}

// DefaultConfig returns the preprocessor's standard tunables.
func DefaultConfig() Config {
	return Config{
		TrimSilence:         true,
		SilenceThresholdDB:  -55,
		PreservePaddingMs:   100,
		NormalizeSampleRate: true,
		TargetSampleRate:    44100,
		NormalizeVolume:     true,
		UseRMSNormalization: true,
		TargetPeakDB:        -3,
		TargetRMSDB:         -20,
		NoiseFloorDB:        -50,

		DisableDoublingAfterTrim: true,
		DoublingThresholdRatio:   0.5,
		MinDurationForDoubling:   1.5,
	}
}
