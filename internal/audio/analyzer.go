// Package audio turns microphone input into per-band magnitudes.
package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// NumBands is the number of magnitudes produced per frame.
	NumBands = 16

	MinFreq = 60.0
	MaxFreq = 16000.0
)

// Analyzer windows a block of samples, runs an FFT and reduces the spectrum
// to NumBands log-spaced bands scaled to 0..255.
type Analyzer struct {
	sampleRate float64
	size       int
	window     []float64
	block      []float64
	// lo[b]..hi[b] is the bin range of band b.
	lo, hi [NumBands]int
}

// NewAnalyzer prepares an analyzer for blocks of size samples, rounded up to
// a power of two.
func NewAnalyzer(sampleRate float64, size int) *Analyzer {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	size = nextPow2(max(size, 256))

	a := &Analyzer{
		sampleRate: sampleRate,
		size:       size,
		window:     make([]float64, size),
		block:      make([]float64, size),
	}
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}

	res := sampleRate / float64(size)
	nyquist := size/2 - 1
	for b := 0; b < NumBands; b++ {
		lo := int(math.Round(edge(b) / res))
		hi := int(math.Round(edge(b+1) / res))
		lo = min(max(lo, 1), nyquist)
		a.lo[b] = lo
		a.hi[b] = min(max(hi, lo+1), nyquist+1)
	}
	return a
}

// edge is the lower frequency of band b.
func edge(b int) float64 {
	return MinFreq * math.Pow(MaxFreq/MinFreq, float64(b)/NumBands)
}

// Size is the FFT block length.
func (a *Analyzer) Size() int { return a.size }

// Levels computes band magnitudes of the newest Size samples into dst. Gain
// 0..30 amplifies by (gain+1)/4; levels under squelch*8 read as zero.
func (a *Analyzer) Levels(samples []float32, dst []uint8, gain, squelch int) {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	for i := range a.block {
		v := 0.0
		if i < len(samples) {
			v = float64(samples[i])
		}
		a.block[i] = v * a.window[i]
	}

	spec := fft.FFTReal(a.block)

	// a full-scale sine through a Hann window peaks at size/4
	norm := 255 / (float64(a.size) / 4)
	amp := float64(gain+1) / 4
	floor := float64(squelch * 8)

	for b := 0; b < NumBands && b < len(dst); b++ {
		peak := 0.0
		for k := a.lo[b]; k < a.hi[b]; k++ {
			peak = math.Max(peak, cmplx.Abs(spec[k]))
		}
		v := peak * norm * amp
		if v < floor {
			v = 0
		}
		dst[b] = uint8(math.Min(v, 255))
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
