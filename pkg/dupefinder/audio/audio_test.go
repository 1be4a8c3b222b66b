package audio

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, sampleRate, channels int, seconds float64) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	n := int(seconds * float64(sampleRate))
	data := make([]int, n*channels)
	for i := 0; i < n; i++ {
		v := int(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

func TestWAVDecoderOpenAndRead(t *testing.T) {
	path := writeTestWAV(t, 11025, 1, 1.0)

	d := NewWAVDecoder()
	sampleRate, channels, totalFrames, err := d.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if sampleRate != 11025 {
		t.Errorf("sample rate = %d, want 11025", sampleRate)
	}
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	if totalFrames < 11000 || totalFrames > 11100 {
		t.Errorf("total frames = %d, want ~11025", totalFrames)
	}

	var framesRead int64
	buf := make([]float32, 2048)
	for {
		n, err := d.Read(buf)
		framesRead += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if n == 0 {
			break
		}
	}
	if framesRead < 11000 || framesRead > 11100 {
		t.Errorf("frames read = %d, want ~11025", framesRead)
	}
}

func TestWAVDecoderRejectsNonWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-wav.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	d := NewWAVDecoder()
	if _, _, _, err := d.Open(path); err == nil {
		t.Error("expected error opening a non-WAV file")
	}
}

func TestToyFingerprinterProducesStableOutput(t *testing.T) {
	sampleRate := 11025
	n := sampleRate * 3
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}

	run := func() []uint32 {
		f := NewToyFingerprinter()
		if err := f.Start(sampleRate, 1); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := f.Feed(samples); err != nil {
			t.Fatalf("feed: %v", err)
		}
		if err := f.Finish(); err != nil {
			t.Fatalf("finish: %v", err)
		}
		raw, err := f.GetRaw()
		if err != nil {
			t.Fatalf("get raw: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		return raw
	}

	a := run()
	b := run()

	if len(a) == 0 {
		t.Fatal("expected a non-empty fingerprint from 3s of audio")
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at %d: %#x vs %#x", i, a[i], b[i])
		}
	}
}

func TestToyFingerprinterFeedInChunksMatchesSingleFeed(t *testing.T) {
	sampleRate := 11025
	n := sampleRate * 2
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate)))
	}

	whole := NewToyFingerprinter()
	whole.Start(sampleRate, 1)
	whole.Feed(samples)
	whole.Finish()
	wholeRaw, _ := whole.GetRaw()

	chunked := NewToyFingerprinter()
	chunked.Start(sampleRate, 1)
	chunkSize := 4000
	for i := 0; i < len(samples); i += chunkSize {
		end := i + chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		chunked.Feed(samples[i:end])
	}
	chunked.Finish()
	chunkedRaw, _ := chunked.GetRaw()

	if len(wholeRaw) != len(chunkedRaw) {
		t.Fatalf("length mismatch: whole=%d chunked=%d", len(wholeRaw), len(chunkedRaw))
	}
	for i := range wholeRaw {
		if wholeRaw[i] != chunkedRaw[i] {
			t.Errorf("sub-fingerprint %d differs between feed styles: %#x vs %#x", i, wholeRaw[i], chunkedRaw[i])
		}
	}
}

func TestToyFingerprinterRejectsStereo(t *testing.T) {
	f := NewToyFingerprinter()
	if err := f.Start(11025, 2); err == nil {
		t.Error("expected error for non-mono input")
	}
}
