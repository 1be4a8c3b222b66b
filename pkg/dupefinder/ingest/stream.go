// Package ingest implements bounded-memory streaming ingest and its
// non-streaming (bulk) counterpart: decode, preprocess in chunks or in one
// shot, feed the fingerprinter, and read out the resulting fingerprint.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/bufferpool"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
)

const (
	minChunkBytes   = 4 << 10
	maxChunkBytes   = 16 << 20
	chunkRoundBytes = 4 << 10
)

// clampChunkBytes enforces chunk sizing rule: clamp to
// [4KiB, 16MiB], round up to a 4KiB multiple. A non-positive input falls
// back to the 1MiB default before clamping.
func clampChunkBytes(n int) int {
	if n <= 0 {
		n = 1 << 20
	}
	if n < minChunkBytes {
		n = minChunkBytes
	}
	if n > maxChunkBytes {
		n = maxChunkBytes
	}
	if rem := n % chunkRoundBytes; rem != 0 {
		n += chunkRoundBytes - rem
	}
	return n
}

// StreamOptions configures one call to Stream.
type StreamOptions struct {
	Decoder            Decoder
	Fingerprinter      Fingerprinter
	Pool               *bufferpool.Pool
	ChunkBytes         int
	MaxDurationSeconds float64 // 0 disables the cap
	Logger             Logger
}

// Stream runs the bounded-memory ingest algorithm: open the
// file through the decoder, repeatedly read one chunk's worth of frames,
// downmix, resample to model.FingerprintSampleRate, convert to int16, and
// feed the fingerprinter, never holding more than one chunk's worth of PCM
// plus the transient resample buffer.
func Stream(ctx context.Context, path string, opts StreamOptions) (*model.Fingerprint, Stats, error) {
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	pool := opts.Pool
	if pool == nil {
		pool = bufferpool.Default()
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

	maxFrames := totalFrames
	if opts.MaxDurationSeconds > 0 {
		durationCap := int64(opts.MaxDurationSeconds * float64(sampleRate))
		if maxFrames <= 0 || durationCap < maxFrames {
			maxFrames = durationCap
		}
	}

	if err := opts.Fingerprinter.Start(model.FingerprintSampleRate, 1); err != nil {
		return nil, stats, fmt.Errorf("ingest: start fingerprinter: %w: %v", ErrFingerprinterFailure, err)
	}
	defer opts.Fingerprinter.Close()

	chunkBytes := clampChunkBytes(opts.ChunkBytes)
	chunkFloats := chunkBytes / 4

	buf := pool.Get()
	defer pool.Put(buf)
	if len(buf) < channels {
		return nil, stats, fmt.Errorf("ingest: buffer pool capacity %d smaller than channel count %d", len(buf), channels)
	}
	if chunkFloats > len(buf) {
		chunkFloats = len(buf)
	}
	framesPerRead := chunkFloats / channels
	if framesPerRead < 1 {
		framesPerRead = 1
	}

	var framesProcessed int64
	remaining := maxFrames
	capped := opts.MaxDurationSeconds > 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		readFrames := framesPerRead
		if capped && int64(readFrames) > remaining {
			readFrames = int(remaining)
		}
		if readFrames <= 0 {
			break
		}

		n, readErr := opts.Decoder.Read(buf[:readFrames*channels])
		stats.BytesProcessed += int64(n*channels) * 4

		if n > 0 {
			interleaved := float32ToFloat64(buf[:n*channels])
			mono := preprocess.Downmix(interleaved, channels)
			resampled := preprocess.ResampleLinear(mono, sampleRate, model.FingerprintSampleRate)
			samples := preprocess.ToInt16(resampled)
			if feedErr := opts.Fingerprinter.Feed(samples); feedErr != nil {
				return nil, stats, fmt.Errorf("ingest: feed fingerprinter: %w: %v", ErrFingerprinterFailure, feedErr)
			}
			framesProcessed += int64(n)
			if capped {
				remaining -= int64(n)
			}
		}

		if readErr == io.EOF || n == 0 {
			break
		}
		if readErr != nil {
			log.Warnf("ingest: read error on %q, stopping stream: %v", path, readErr)
			break
		}
	}

	if framesProcessed == 0 {
		return nil, stats, fmt.Errorf("ingest: %q: %w", path, ErrEmptyAudio)
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
		Duration:        float64(framesProcessed) / float64(sampleRate),
		Path:            path,
	}
	if err := fp.Validate(); err != nil {
		return nil, stats, err
	}

	stats.FramesProcessed = framesProcessed
	stats.PeakPoolBytes = pool.PeakBytes()
	stats.ProcessingTime = time.Since(start)
	return fp, stats, nil
}

func float32ToFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
