package preprocess

import "fmt"

// Logger is the minimal logging surface the pipeline needs. It matches
// dupefinder.Logger structurally so any implementation of that interface
// satisfies this one too.
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// Result is the outcome of running Process: the processed samples, the
// sample rate they end up at, and the duration before any doubling is
// applied.
type Result struct {
	Samples    []float64
	SampleRate int
	Duration   float64
}

// Process runs the fixed-order preprocessing pipeline (trim silence,
// normalize sample rate, normalize volume) over samples at the given
// sampleRate. Each stage's failure is logged and swallowed; the stage's
// input is carried forward unchanged, so the whole pipeline never returns an
// error to its caller. originalDuration is the duration before any
// preprocessing at all; Process does not use it (the doubling policy
// consults it separately via ShouldDouble).
func Process(samples []float64, sampleRate int, originalDuration float64, cfg Config, log Logger) Result {
	if log == nil {
		log = noopLogger{}
	}

	working := samples
	rate := sampleRate

	if cfg.TrimSilence {
		trimmed, err := runStage(func() ([]float64, error) {
			return trimSilence(working, rate, cfg.SilenceThresholdDB, cfg.PreservePaddingMs), nil
		})
		if err != nil {
			log.Warnf("preprocess: trim silence stage failed, keeping prior output: %v", err)
		} else {
			working = trimmed
		}
	}

	if cfg.NormalizeSampleRate && cfg.TargetSampleRate > 0 {
		resampled, err := runStage(func() ([]float64, error) {
			if rate <= 0 {
				return nil, fmt.Errorf("invalid sample rate %d", rate)
			}
			return ResampleLinear(working, rate, cfg.TargetSampleRate), nil
		})
		if err != nil {
			log.Warnf("preprocess: sample rate normalization stage failed, keeping prior output: %v", err)
		} else {
			working = resampled
			rate = cfg.TargetSampleRate
		}
	}

	if cfg.NormalizeVolume {
		normalized, err := runStage(func() ([]float64, error) {
			return normalizeVolume(working, cfg), nil
		})
		if err != nil {
			log.Warnf("preprocess: volume normalization stage failed, keeping prior output: %v", err)
		} else {
			working = normalized
		}
	}

	duration := 0.0
	if rate > 0 {
		duration = float64(len(working)) / float64(rate)
	}

	return Result{Samples: working, SampleRate: rate, Duration: duration}
}

// runStage recovers a panicking stage into an error so a single bad stage
// can never crash the pipeline.
func runStage(fn func() ([]float64, error)) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
