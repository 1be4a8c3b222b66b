package dupefinder

import (
	"context"
	"errors"
	"fmt"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/ingest"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
)

// Generator produces Fingerprints from files via the configured Decoder and
// Fingerprinter factories. There is no zero-value Generator; construct one
// with NewGenerator.
type Generator struct {
	cfg *Config
}

// NewGenerator builds a Generator from opts. Both a DecoderFactory and a
// FingerprinterFactory must be supplied; there is no default for either.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.DecoderFactory == nil {
		return nil, fmt.Errorf("dupefinder: new generator: %w: no decoder factory configured", ErrInvalidInput)
	}
	if cfg.FingerprinterFactory == nil {
		return nil, fmt.Errorf("dupefinder: new generator: %w: no fingerprinter factory configured", ErrInvalidInput)
	}
	return &Generator{cfg: cfg}, nil
}

// GenerateFingerprint fingerprints the whole file, using the streaming
// ingest path by default (Config.Streaming) or the full-buffer path when
// disabled.
func (g *Generator) GenerateFingerprint(path string) (*model.Fingerprint, error) {
	return g.generate(path, 0, nil)
}

// GenerateFingerprintLimited fingerprints at most maxDurationSeconds of
// audio from the start of the file.
func (g *Generator) GenerateFingerprintLimited(path string, maxDurationSeconds float64) (*model.Fingerprint, error) {
	return g.generate(path, maxDurationSeconds, nil)
}

// GenerateFingerprintWithPreprocessing always runs the full-buffer
// preprocessing pipeline (trim silence, resample, normalize volume, then
// doubling if needed) before fingerprinting, since those stages need whole-
// file context that the bounded-memory streaming path cannot provide.
func (g *Generator) GenerateFingerprintWithPreprocessing(path string, cfg preprocess.Config) (*model.Fingerprint, error) {
	return g.generate(path, 0, &cfg)
}

func (g *Generator) generate(path string, maxDurationSeconds float64, preprocessCfg *preprocess.Config) (*model.Fingerprint, error) {
	decoder := g.cfg.DecoderFactory()
	fingerprinter := g.cfg.FingerprinterFactory()
	ctx := context.Background()

	if preprocessCfg == nil && g.cfg.Streaming {
		fp, _, err := ingest.Stream(ctx, path, ingest.StreamOptions{
			Decoder:            decoder,
			Fingerprinter:      fingerprinter,
			Pool:               g.cfg.Pool,
			ChunkBytes:         g.cfg.ChunkBytes,
			MaxDurationSeconds: maxDurationSeconds,
			Logger:             g.cfg.Logger,
		})
		if err != nil {
			return nil, translateIngestError(path, err)
		}
		return fp, nil
	}

	cfg := preprocess.DefaultConfig()
	if preprocessCfg != nil {
		cfg = *preprocessCfg
	}
	fp, _, err := ingest.Bulk(ctx, path, ingest.BulkOptions{
		Decoder:            decoder,
		Fingerprinter:      fingerprinter,
		MaxDurationSeconds: maxDurationSeconds,
		Preprocess:         cfg,
		Logger:             g.cfg.Logger,
	})
	if err != nil {
		return nil, translateIngestError(path, err)
	}
	return fp, nil
}

// translateIngestError maps ingest's package-local sentinels onto this
// package's public error taxonomy while preserving the original
// error in the chain.
func translateIngestError(path string, err error) error {
	switch {
	case errors.Is(err, ingest.ErrDecoderFailure):
		return fmt.Errorf("dupefinder: %q: %w: %v", path, ErrDecoderFailure, err)
	case errors.Is(err, ingest.ErrEmptyAudio):
		return fmt.Errorf("dupefinder: %q: %w: %v", path, ErrEmptyAudio, err)
	case errors.Is(err, ingest.ErrFingerprinterFailure):
		return fmt.Errorf("dupefinder: %q: %w: %v", path, ErrFingerprinterFailure, err)
	default:
		return err
	}
}
