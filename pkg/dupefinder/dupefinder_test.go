package dupefinder

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
)

type fakeDecoder struct {
	samples    []float32
	sampleRate int
	channels   int
	pos        int
}

func (d *fakeDecoder) Open(string) (int, int, int64, error) {
	return d.sampleRate, d.channels, int64(len(d.samples) / d.channels), nil
}

func (d *fakeDecoder) Read(buf []float32) (int, error) {
	remaining := len(d.samples) - d.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := len(buf)
	if n > remaining {
		n = remaining
	}
	copy(buf[:n], d.samples[d.pos:d.pos+n])
	d.pos += n
	frames := n / d.channels
	if d.pos >= len(d.samples) {
		return frames, io.EOF
	}
	return frames, nil
}

func (d *fakeDecoder) Close() error { return nil }

type fakeFingerprinter struct {
	fed int
}

func (f *fakeFingerprinter) Start(int, int) error { return nil }
func (f *fakeFingerprinter) Feed(s []int16) error {
	f.fed += len(s)
	return nil
}
func (f *fakeFingerprinter) Finish() error { return nil }
func (f *fakeFingerprinter) GetRaw() ([]uint32, error) {
	n := f.fed / 100
	if n == 0 {
		n = 1
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out, nil
}
func (f *fakeFingerprinter) Close() error { return nil }

func sineFloat32(n, channels, sampleRate int) []float32 {
	out := make([]float32, n*channels)
	for i := 0; i < n; i++ {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

func newTestGenerator(t *testing.T, samples []float32, sampleRate, channels int) *Generator {
	t.Helper()
	g, err := NewGenerator(
		WithDecoderFactory(func() Decoder {
			return &fakeDecoder{samples: samples, sampleRate: sampleRate, channels: channels}
		}),
		WithFingerprinterFactory(func() Fingerprinter {
			return &fakeFingerprinter{}
		}),
	)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func TestNewGeneratorRequiresFactories(t *testing.T) {
	if _, err := NewGenerator(); err == nil {
		t.Error("expected error with no factories configured")
	}
	if _, err := NewGenerator(WithDecoderFactory(func() Decoder { return &fakeDecoder{} })); err == nil {
		t.Error("expected error with no fingerprinter factory configured")
	}
}

func TestGenerateFingerprintStreaming(t *testing.T) {
	g := newTestGenerator(t, sineFloat32(50000, 1, 11025), 11025, 1)
	fp, err := g.GenerateFingerprint("test.wav")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(fp.SubFingerprints) == 0 {
		t.Error("expected a non-empty fingerprint")
	}
}

func TestGenerateFingerprintLimited(t *testing.T) {
	g := newTestGenerator(t, sineFloat32(50000, 1, 11025), 11025, 1)
	fp, err := g.GenerateFingerprintLimited("test.wav", 1.0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if fp.Duration > 1.01 {
		t.Errorf("duration = %v, want <= ~1.0s", fp.Duration)
	}
}

func TestGenerateFingerprintWithPreprocessingUsesBulkPath(t *testing.T) {
	g := newTestGenerator(t, sineFloat32(11025*4, 1, 11025), 11025, 1)
	fp, err := g.GenerateFingerprintWithPreprocessing("test.wav", preprocess.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(fp.SubFingerprints) == 0 {
		t.Error("expected a non-empty fingerprint")
	}
}

func TestGenerateFingerprintEmptyAudio(t *testing.T) {
	g := newTestGenerator(t, nil, 11025, 1)
	_, err := g.GenerateFingerprint("empty.wav")
	if !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestRootCompareIdentity(t *testing.T) {
	values := make([]uint32, 20)
	for i := range values {
		values[i] = uint32(i*7 + 1)
	}
	fp := &model.Fingerprint{SubFingerprints: values, SampleRate: model.FingerprintSampleRate, Duration: 2.4, Path: "a"}

	res, err := Compare(fp, fp)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !res.IsDuplicate || res.Similarity < 0.999 {
		t.Errorf("expected identity match, got %+v", res)
	}
}

func TestRootCompareSlidingWindowIdentity(t *testing.T) {
	values := make([]uint32, 200)
	for i := range values {
		values[i] = uint32(i*13 + 5)
	}
	fp := &model.Fingerprint{SubFingerprints: values, SampleRate: model.FingerprintSampleRate, Duration: 24, Path: "a"}

	res, err := CompareSlidingWindow(fp, fp)
	if err != nil {
		t.Fatalf("compare sliding window: %v", err)
	}
	// All windows match at relative offset 0, so overlap suppression leaves
	// one segment, which is below the 3-match duplicate bar.
	if res.Similarity < 0.999 || res.BestOffset != 0 || res.MatchedSegments != 1 {
		t.Errorf("expected one perfect segment at offset 0, got %+v", res)
	}
	if res.IsDuplicate {
		t.Errorf("expected a single surviving segment not to be a duplicate, got %+v", res)
	}
}

func TestRootIndexRoundTrip(t *testing.T) {
	idx := NewIndex()
	a := &model.Fingerprint{SubFingerprints: []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, SampleRate: model.FingerprintSampleRate, Duration: 1.2, Path: "a"}
	id, err := idx.AddFile("a.wav", a)
	if err != nil {
		t.Fatalf("add file: %v", err)
	}
	if id != 0 {
		t.Errorf("first file_id = %d, want 0", id)
	}
	if idx.FileCount() != 1 {
		t.Errorf("file count = %d, want 1", idx.FileCount())
	}
}
