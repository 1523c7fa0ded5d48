package audio

import "github.com/pkg/errors"

// Sampler provides the latest block of mono samples.
type Sampler interface {
	Samples(dst []float32) []float32
	SampleRate() float64
}

// Source feeds a Sampler through an Analyzer, one call per frame.
type Source struct {
	sampler  Sampler
	analyzer *Analyzer
	samples  []float32
}

// NewSource analyses blocks of size samples from s.
func NewSource(s Sampler, size int) *Source {
	return &Source{
		sampler:  s,
		analyzer: NewAnalyzer(s.SampleRate(), size),
	}
}

// Bands writes NumBands magnitudes into dst.
func (s *Source) Bands(dst []uint8, gain, squelch int) error {
	if len(dst) != NumBands {
		return errors.Errorf("audio: %d band slots, want %d", len(dst), NumBands)
	}
	s.samples = s.sampler.Samples(s.samples)
	s.analyzer.Levels(s.samples, dst, gain, squelch)
	return nil
}
