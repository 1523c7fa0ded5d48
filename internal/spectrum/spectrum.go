// Package spectrum turns raw per-band FFT magnitudes into smoothed bar heights
// and held peaks, frame over frame.
package spectrum

import "fmt"

// NumRawBands is the number of magnitudes delivered per frame.
const NumRawBands = 16

// Smoother holds the per-band history. Peaks rise with the bars in Update and
// fall only through DecayPeaks, which the caller drives on its own cadence.
type Smoother struct {
	bands   int
	height  int
	divisor int

	raw      []int
	smoothed []int
	bars     []int
	peaks    []int
}

// New creates a smoother for bands logical bands (16, or 8 to average raw
// bands pairwise) scaled to height pixels.
func New(bands, height int) *Smoother {
	if bands != NumRawBands && bands != NumRawBands/2 {
		panic(fmt.Sprintf("spectrum: unsupported band count %d", bands))
	}
	if height <= 0 {
		panic(fmt.Sprintf("spectrum: invalid height %d", height))
	}

	// Heights above 255 would make the divisor zero.
	divisor := 255 / height
	if divisor < 1 {
		divisor = 1
	}

	return &Smoother{
		bands:    bands,
		height:   height,
		divisor:  divisor,
		raw:      make([]int, bands),
		smoothed: make([]int, bands),
		bars:     make([]int, bands),
		peaks:    make([]int, bands),
	}
}

// Update folds one frame of raw magnitudes into the history. len(raw) must be
// NumRawBands.
func (s *Smoother) Update(raw []uint8) {
	if len(raw) != NumRawBands {
		panic(fmt.Sprintf("spectrum: got %d bands, want %d", len(raw), NumRawBands))
	}

	for i := 0; i < s.bands; i++ {
		var v int
		if s.bands == NumRawBands {
			v = int(raw[i])
		} else {
			v = (int(raw[2*i]) + int(raw[2*i+1])) / 2
		}
		s.raw[i] = v

		s.smoothed[i] = (3*s.smoothed[i] + v) / 4

		bar := s.smoothed[i] / s.divisor
		if bar > s.height {
			bar = s.height
		}
		s.bars[i] = bar

		if bar > s.peaks[i] {
			s.peaks[i] = min(s.height, bar)
		}
	}
}

// DecayPeaks lowers every non-zero peak by one.
func (s *Smoother) DecayPeaks() {
	for i, p := range s.peaks {
		if p > 0 {
			s.peaks[i] = p - 1
		}
	}
}

// Bands returns the number of logical bands.
func (s *Smoother) Bands() int { return s.bands }

// Height returns the vertical scale bars are measured in.
func (s *Smoother) Height() int { return s.height }

// The accessors below return the live slices; callers must not modify them.

// Raw returns the last input after pairwise averaging.
func (s *Smoother) Raw() []int { return s.raw }

// Smoothed returns the filtered magnitudes in [0,255].
func (s *Smoother) Smoothed() []int { return s.smoothed }

// Bars returns the bar heights in [0,Height].
func (s *Smoother) Bars() []int { return s.bars }

// Peaks returns the held peaks in [0,Height].
func (s *Smoother) Peaks() []int { return s.peaks }

// Sum returns the total of all bar heights.
func (s *Smoother) Sum() int {
	var sum int
	for _, b := range s.bars {
		sum += b
	}
	return sum
}
