// Package audio ships concrete, swappable Decoder and Fingerprinter
// implementations so this module is runnable end to end without a
// third-party fingerprinting library on the classpath. Application code may
// supply its own instead; nothing in pkg/dupefinder depends on this package.
package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements dupefinder.Decoder over github.com/go-audio/wav,
// the trio of go-audio packages this module's teacher already carries and
// exercises in its own spectrogram tooling.
type WAVDecoder struct {
	file       *os.File
	dec        *wav.Decoder
	channels   int
	sampleRate int
	bitDepth   int
}

// NewWAVDecoder returns a WAVDecoder ready for Open.
func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{}
}

// Open validates the RIFF/WAVE header, reads the format chunk, and reports
// the file's native sample rate, channel count, and total frame count.
func (d *WAVDecoder) Open(path string) (int, int, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("audio: open %q: %w", path, err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return 0, 0, 0, fmt.Errorf("audio: %q is not a valid WAV file", path)
	}

	duration, err := dec.Duration()
	if err != nil {
		f.Close()
		return 0, 0, 0, fmt.Errorf("audio: reading duration of %q: %w", path, err)
	}

	d.file = f
	d.dec = dec
	d.channels = int(dec.NumChans)
	d.sampleRate = int(dec.SampleRate)
	d.bitDepth = int(dec.BitDepth)
	if d.channels < 1 {
		d.channels = 1
	}
	if d.bitDepth < 1 {
		d.bitDepth = 16
	}

	totalFrames := int64(duration.Seconds() * float64(d.sampleRate))
	return d.sampleRate, d.channels, totalFrames, nil
}

// Read fills buf with up to len(buf)/channels frames of interleaved,
// [-1,1]-normalized PCM decoded from the underlying bit depth.
func (d *WAVDecoder) Read(buf []float32) (int, error) {
	if d.dec == nil {
		return 0, fmt.Errorf("audio: read called before Open")
	}
	if len(buf) == 0 {
		return 0, nil
	}

	intBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: d.channels, SampleRate: d.sampleRate},
		Data:           make([]int, len(buf)),
		SourceBitDepth: d.bitDepth,
	}

	n, err := d.dec.PCMBuffer(intBuf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	maxVal := float32(int(1) << uint(d.bitDepth-1))
	for i := 0; i < n; i++ {
		buf[i] = float32(intBuf.Data[i]) / maxVal
	}

	frames := n / d.channels
	if n < len(buf) && err == nil {
		err = io.EOF
	}
	return frames, err
}

// Close releases the underlying file. Safe to call multiple times.
func (d *WAVDecoder) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.dec = nil
	return err
}
