package dupefinder

// Decoder is the audio-decoding collaborator consumed by ingest. An
// implementation owns whatever resources it needs to produce interleaved
// float32 PCM frames at its native sample rate; Close is always callable,
// including after a failed Open.
type Decoder interface {
	// Open prepares the decoder to read path and reports its native sample
	// rate, channel count and total frame count.
	Open(path string) (sampleRate, channels int, totalFrames int64, err error)

	// Read fills buf (interleaved, channels samples per frame) with up to
	// len(buf)/channels frames and returns how many frames it actually
	// filled. A short read followed by io.EOF is expected at end of stream.
	Read(buf []float32) (framesRead int, err error)

	// Close releases decoder resources. Safe to call multiple times.
	Close() error
}

// Fingerprinter is the acoustic-fingerprinting collaborator consumed by
// ingest. It consumes mono int16 PCM at a fixed rate and emits a sequence of
// 32-bit sub-fingerprints once finished.
type Fingerprinter interface {
	// Start begins a new fingerprinting session at the given rate and
	// channel count (always 11025 Hz, mono, per this package's contract).
	Start(sampleRate, channels int) error

	// Feed submits another chunk of mono int16 samples.
	Feed(samples []int16) error

	// Finish signals that no more samples will be fed.
	Finish() error

	// GetRaw returns the raw 32-bit sub-fingerprint sequence computed from
	// everything fed since Start.
	GetRaw() ([]uint32, error)

	// Close releases fingerprinter resources. Safe to call multiple times.
	Close() error
}

// Logger is the minimal structured-logging surface every dupefinder
// component accepts. pkg/logger provides a default implementation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// noopLogger discards everything. Nothing in this package uses it: the
// default Config logs through pkg/logger, and a nil Logger makes ingest fall
// back to its own no-op logger.
type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
func (noopLogger) Debugf(string, ...any) {}
