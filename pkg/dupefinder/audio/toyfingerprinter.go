package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	toyFrameSize = 4096
	toyHopSize   = 1323 // ~0.12s at 11025Hz, the fingerprinter's fixed rate
	toyBandCount = 33
)

// ToyFingerprinter implements dupefinder.Fingerprinter with an STFT +
// 33-band differential encoder in the spirit of Chromaprint's classifier and
// this module's teacher's own fingerprint.STFT (github.com/mjibson/go-dsp/fft
// for the transform). It emits one rolling 32-bit sub-fingerprint per frame:
// bit m is set when band m's energy rose relative to band m+1 more than it
// did in the previous frame.
type ToyFingerprinter struct {
	started         bool
	sampleRate      int
	channels        int
	buffer          []float64
	bandEdges       []int
	prevLog         [toyBandCount]float64
	havePrev        bool
	window          []float64
	subFingerprints []uint32
}

// NewToyFingerprinter returns a ToyFingerprinter ready for Start.
func NewToyFingerprinter() *ToyFingerprinter {
	return &ToyFingerprinter{}
}

// Start begins a new fingerprinting session. Per this module's contract the
// fingerprinter always runs at 11025Hz mono.
func (t *ToyFingerprinter) Start(sampleRate, channels int) error {
	if sampleRate <= 0 || channels != 1 {
		return fmt.Errorf("audio: toy fingerprinter requires mono input at a positive sample rate, got %dHz/%dch", sampleRate, channels)
	}
	t.started = true
	t.sampleRate = sampleRate
	t.channels = channels
	t.buffer = t.buffer[:0]
	t.havePrev = false
	t.subFingerprints = nil
	t.window = hammingWindow(toyFrameSize)
	t.bandEdges = logBandEdges(toyBandCount, 1, toyFrameSize/2-1)
	return nil
}

// Feed appends samples to the internal buffer and processes every complete,
// hop-spaced frame it can extract.
func (t *ToyFingerprinter) Feed(samples []int16) error {
	if !t.started {
		return fmt.Errorf("audio: feed called before Start")
	}
	for _, s := range samples {
		t.buffer = append(t.buffer, float64(s)/32768.0)
	}
	for len(t.buffer) >= toyFrameSize {
		frame := t.buffer[:toyFrameSize]
		t.subFingerprints = append(t.subFingerprints, t.processFrame(frame))
		t.buffer = t.buffer[toyHopSize:]
	}
	return nil
}

// Finish signals end of input. Any samples too short to form a final frame
// are dropped, matching this encoder's fixed-window contract.
func (t *ToyFingerprinter) Finish() error {
	if !t.started {
		return fmt.Errorf("audio: finish called before Start")
	}
	return nil
}

// GetRaw returns everything fed since Start.
func (t *ToyFingerprinter) GetRaw() ([]uint32, error) {
	if !t.started {
		return nil, fmt.Errorf("audio: get raw called before Start")
	}
	out := make([]uint32, len(t.subFingerprints))
	copy(out, t.subFingerprints)
	return out, nil
}

// Close resets the fingerprinter's state. Safe to call multiple times.
func (t *ToyFingerprinter) Close() error {
	t.started = false
	t.buffer = nil
	t.subFingerprints = nil
	t.havePrev = false
	return nil
}

func (t *ToyFingerprinter) processFrame(frame []float64) uint32 {
	windowed := make([]float64, toyFrameSize)
	for i, s := range frame {
		windowed[i] = s * t.window[i]
	}

	spectrum := fft.FFTReal(windowed)
	half := toyFrameSize / 2
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}

	var logEnergy [toyBandCount]float64
	for b := 0; b < toyBandCount; b++ {
		lo, hi := t.bandEdges[b], t.bandEdges[b+1]
		if hi > len(mag) {
			hi = len(mag)
		}
		var sum float64
		for i := lo; i < hi; i++ {
			sum += mag[i] * mag[i]
		}
		logEnergy[b] = math.Log(sum + 1e-6)
	}

	var sub uint32
	if t.havePrev {
		for m := 0; m < toyBandCount-1; m++ {
			curr := logEnergy[m] - logEnergy[m+1]
			prev := t.prevLog[m] - t.prevLog[m+1]
			if curr-prev > 0 {
				sub |= 1 << uint(m)
			}
		}
	}
	t.prevLog = logEnergy
	t.havePrev = true
	return sub
}

// hammingWindow returns the n-point Hamming window (teacher's fingerprint
// package uses the same coefficients).
func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// logBandEdges returns nBands+1 strictly increasing bin indices,
// log-spaced between minBin and maxBin, delimiting nBands frequency bands.
func logBandEdges(nBands, minBin, maxBin int) []int {
	edges := make([]int, nBands+1)
	logMin := math.Log(float64(minBin))
	logMax := math.Log(float64(maxBin))
	for i := 0; i <= nBands; i++ {
		frac := float64(i) / float64(nBands)
		v := int(math.Round(math.Exp(logMin + frac*(logMax-logMin))))
		if v < minBin {
			v = minBin
		}
		if v > maxBin {
			v = maxBin
		}
		edges[i] = v
	}
	for i := 1; i <= nBands; i++ {
		if edges[i] <= edges[i-1] {
			edges[i] = edges[i-1] + 1
		}
	}
	return edges
}
