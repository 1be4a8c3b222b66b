package dupefinder

import (
	"github.com/nearcopy/dupefinder/pkg/dupefinder/bufferpool"
	"github.com/nearcopy/dupefinder/pkg/logger"
)

// DecoderFactory builds a fresh Decoder for a single file. Ingest opens and
// closes one per call; factories let a caller share configuration (e.g. a
// codec allowlist) without sharing decoder state across files.
type DecoderFactory func() Decoder

// FingerprinterFactory builds a fresh Fingerprinter for a single file, for
// the same reason.
type FingerprinterFactory func() Fingerprinter

// Config holds a Generator's dependencies and tunables. Build one with
// NewGenerator and a list of Options; there is no package-level default
// Decoder or Fingerprinter, in keeping with this package's rule that no
// core operation requires global state to be correct.
type Config struct {
	DecoderFactory       DecoderFactory
	FingerprinterFactory FingerprinterFactory
	Logger               Logger
	Pool                 *bufferpool.Pool
	ChunkBytes           int
	Streaming            bool
}

// Option configures a Config produced by NewGenerator.
type Option func(*Config)

// WithDecoderFactory supplies the Decoder implementation used for every
// file the Generator processes.
func WithDecoderFactory(f DecoderFactory) Option {
	return func(c *Config) { c.DecoderFactory = f }
}

// WithFingerprinterFactory supplies the Fingerprinter implementation used
// for every file the Generator processes.
func WithFingerprinterFactory(f FingerprinterFactory) Option {
	return func(c *Config) { c.FingerprinterFactory = f }
}

// WithLogger overrides the default logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithBufferPool overrides the pool streaming ingest borrows its reusable
// PCM chunk from.
func WithBufferPool(p *bufferpool.Pool) Option {
	return func(c *Config) { c.Pool = p }
}

// WithChunkBytes sets the streaming-ingest chunk size before it is clamped
// to [4KiB, 16MiB] and rounded up to a 4KiB multiple.
func WithChunkBytes(n int) Option {
	return func(c *Config) { c.ChunkBytes = n }
}

// WithStreaming selects the bounded-memory streaming ingest path (default)
// versus the simpler, full-buffer non-streaming path used by
// GenerateFingerprintWithPreprocessing.
func WithStreaming(streaming bool) Option {
	return func(c *Config) { c.Streaming = streaming }
}

func defaultConfig() *Config {
	return &Config{
		Logger:     logger.GetLogger(),
		Pool:       bufferpool.Default(),
		ChunkBytes: 1 << 20, // 1 MiB
		Streaming:  true,
	}
}
