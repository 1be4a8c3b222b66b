package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
)

// BulkOptions configures one call to Bulk.
type BulkOptions struct {
	Decoder            Decoder
	Fingerprinter      Fingerprinter
	MaxDurationSeconds float64 // 0 disables the cap
	Preprocess         preprocess.Config
	Logger             Logger
}

// Bulk is the non-streaming ingest path: the decoder returns
// the full PCM in one shot, the full preprocessing pipeline runs over the
// whole buffer, doubling is applied if the result is too short, and the
// fingerprinter is fed once.
func Bulk(ctx context.Context, path string, opts BulkOptions) (*model.Fingerprint, Stats, error) {
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}

	start := time.Now()
	var stats Stats

	sampleRate, channels, totalFrames, err := opts.Decoder.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("ingest: open %q: %w: %v", path, ErrDecoderFailure, err)
	}
	defer opts.Decoder.Close()

	if channels < 1 {
		channels = 1
	}

	frames := totalFrames
	if opts.MaxDurationSeconds > 0 {
		durationCap := int64(opts.MaxDurationSeconds * float64(sampleRate))
		if frames <= 0 || durationCap < frames {
			frames = durationCap
		}
	}
	if frames <= 0 {
		return nil, stats, fmt.Errorf("ingest: %q: %w", path, ErrEmptyAudio)
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	buf := make([]float32, frames*int64(channels))
	n, err := opts.Decoder.Read(buf)
	if err != nil && n == 0 {
		return nil, stats, fmt.Errorf("ingest: read %q: %w: %v", path, ErrDecoderFailure, err)
	}
	stats.BytesProcessed = int64(n*channels) * 4
	if n == 0 {
		return nil, stats, fmt.Errorf("ingest: %q: %w", path, ErrEmptyAudio)
	}

	interleaved := float32ToFloat64(buf[:n*channels])
	mono := preprocess.Downmix(interleaved, channels)
	originalDuration := float64(n) / float64(sampleRate)

	result := preprocess.Process(mono, sampleRate, originalDuration, opts.Preprocess, log)
	samples := result.Samples
	processedRate := result.SampleRate
	processedDuration := result.Duration

	if preprocess.ShouldDouble(originalDuration, processedDuration, opts.Preprocess) {
		samples = preprocess.Double(samples)
		log.Debugf("ingest: %q doubled (%.2fs -> %.2fs processed, %.2fs original)", path, processedDuration, processedDuration*2, originalDuration)
	}

	if processedRate != model.FingerprintSampleRate {
		samples = preprocess.ResampleLinear(samples, processedRate, model.FingerprintSampleRate)
	}

	if err := opts.Fingerprinter.Start(model.FingerprintSampleRate, 1); err != nil {
		return nil, stats, fmt.Errorf("ingest: start fingerprinter: %w: %v", ErrFingerprinterFailure, err)
	}
	defer opts.Fingerprinter.Close()

	if err := opts.Fingerprinter.Feed(preprocess.ToInt16(samples)); err != nil {
		return nil, stats, fmt.Errorf("ingest: feed fingerprinter: %w: %v", ErrFingerprinterFailure, err)
	}
	if err := opts.Fingerprinter.Finish(); err != nil {
		return nil, stats, fmt.Errorf("ingest: finish fingerprinter: %w: %v", ErrFingerprinterFailure, err)
	}
	raw, err := opts.Fingerprinter.GetRaw()
	if err != nil {
		return nil, stats, fmt.Errorf("ingest: get raw fingerprint: %w: %v", ErrFingerprinterFailure, err)
	}

	fp := &model.Fingerprint{
		SubFingerprints: raw,
		SampleRate:      model.FingerprintSampleRate,
		Duration:        processedDuration,
		Path:            path,
	}
	if err := fp.Validate(); err != nil {
		return nil, stats, err
	}

	stats.FramesProcessed = int64(n)
	stats.ProcessingTime = time.Since(start)
	return fp, stats, nil
}
