package audio

import (
	"math"
	"math/rand"
	"sync"
)

// Tone is one voice of a Synth. A non-zero Swell modulates the amplitude at
// that rate in Hz, giving bars that rise and fall.
type Tone struct {
	Freq  float64
	Amp   float64
	Swell float64
}

// DefaultTones is a bass, mid and treble voice with staggered swells.
var DefaultTones = []Tone{
	{Freq: 80, Amp: 0.5, Swell: 0.7},
	{Freq: 440, Amp: 0.3, Swell: 1.2},
	{Freq: 3500, Amp: 0.2, Swell: 2.1},
}

// Synth is a Sampler that generates a mix of tones plus a little noise, for
// running without a microphone. Each Samples call advances the clock by Hop
// samples.
type Synth struct {
	Hop int

	mu    sync.Mutex
	rate  float64
	size  int
	tones []Tone
	noise float64
	rng   *rand.Rand
	clock int
}

// NewSynth creates a synth at sampleRate producing blocks of size samples.
// With no tones it plays DefaultTones.
func NewSynth(sampleRate float64, size int, seed int64, tones ...Tone) *Synth {
	if len(tones) == 0 {
		tones = DefaultTones
	}
	return &Synth{
		Hop:   int(sampleRate / 100),
		rate:  sampleRate,
		size:  size,
		tones: tones,
		noise: 0.02,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// SetNoise sets the amplitude of the white noise floor.
func (s *Synth) SetNoise(a float64) {
	s.mu.Lock()
	s.noise = a
	s.mu.Unlock()
}

func (s *Synth) SampleRate() float64 { return s.rate }

func (s *Synth) Samples(dst []float32) []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cap(dst) < s.size {
		dst = make([]float32, s.size)
	}
	dst = dst[:s.size]
	for i := range dst {
		t := float64(s.clock+i) / s.rate
		v := 0.0
		for _, tone := range s.tones {
			a := tone.Amp
			if tone.Swell > 0 {
				a *= 0.5 + 0.5*math.Sin(2*math.Pi*tone.Swell*t)
			}
			v += a * math.Sin(2*math.Pi*tone.Freq*t)
		}
		if s.noise > 0 {
			v += s.noise * (2*s.rng.Float64() - 1)
		}
		dst[i] = float32(math.Max(-1, math.Min(1, v)))
	}
	s.clock += s.Hop
	return dst
}
