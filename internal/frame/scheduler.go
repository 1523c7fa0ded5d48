// Package frame runs the per-frame pipeline: read bands, smooth, blend the
// palette, render the selected pattern and push the buffer to the sink.
package frame

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
	"github.com/coreman2200/soundbars/internal/pattern"
	"github.com/coreman2200/soundbars/internal/settings"
	"github.com/coreman2200/soundbars/internal/spectrum"
	"github.com/coreman2200/soundbars/internal/timer"
)

const (
	DefaultFrameDelay = 10 * time.Millisecond
	PeakDecayInterval = 60 * time.Millisecond
	PersistInterval   = 30 * time.Second

	eventQueue = 16
)

// Source delivers one frame of spectrum.NumRawBands magnitudes into dst.
type Source interface {
	Bands(dst []uint8, gain, squelch int) error
}

// Calibration draws a diagnostic sequence one step per frame. Step returns
// false once the sequence has finished.
type Calibration interface {
	Step(l layout.Layout, buf led.Buffer) bool
}

// Options configures a Scheduler. Layout, Source and Sink are required.
type Options struct {
	Layout   layout.Layout
	Patterns []pattern.Pattern
	Source   Source
	Sink     led.Driver
	Store    settings.Store
	Settings settings.Settings
	Blender  *palette.Blender
	Limiter  *led.Limiter
	Solid    led.Color
	// MaxBrightness caps the brightness setting at output; 0 means no cap.
	MaxBrightness uint8
	// FrameDelay is the pause after each frame's output.
	FrameDelay time.Duration
	Logger     *zerolog.Logger
}

// Status is a snapshot of the scheduler for observers on other goroutines.
type Status struct {
	Frames      uint64            `json:"frames"`
	Pattern     string            `json:"pattern"`
	Settings    settings.Settings `json:"settings"`
	Calibrating bool              `json:"calibrating"`
	Milliamps   float64           `json:"milliamps"`
}

// Scheduler owns all per-frame state. Frame must only be called from one
// goroutine; everything else goes through Send.
type Scheduler struct {
	layout   layout.Layout
	smoother *spectrum.Smoother
	blender  *palette.Blender
	renderer *pattern.Renderer
	source   Source
	sink     led.Driver
	store    settings.Store
	limiter  *led.Limiter
	maxLevel uint8
	delay    time.Duration
	logger   zerolog.Logger

	settings settings.Settings
	calib    Calibration
	events   chan Event

	raw  []uint8
	buf  led.Buffer
	out  led.Buffer
	wire []byte

	decay   timer.Every
	persist timer.Every
	advance timer.Every

	mu     sync.Mutex
	status Status
}

// New validates opts and builds a scheduler.
func New(opts Options) (*Scheduler, error) {
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if opts.Source == nil || opts.Sink == nil {
		return nil, errors.New("frame: source and sink are required")
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = pattern.Default(opts.Layout)
	}
	r, err := pattern.New(opts.Layout, patterns, opts.Solid)
	if err != nil {
		return nil, err
	}
	blender := opts.Blender
	if blender == nil {
		blender = palette.NewBlenderFromGradients(palette.Fire)
	}
	delay := opts.FrameDelay
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	maxLevel := opts.MaxBrightness
	if maxLevel == 0 {
		maxLevel = 255
	}

	n := opts.Layout.Count()
	s := &Scheduler{
		layout:   opts.Layout,
		smoother: spectrum.New(opts.Layout.Bands, opts.Layout.Height()),
		blender:  blender,
		renderer: r,
		source:   opts.Source,
		sink:     opts.Sink,
		store:    opts.Store,
		limiter:  opts.Limiter,
		maxLevel: maxLevel,
		delay:    delay,
		logger:   logger.With().Str("component", "frame").Logger(),
		settings: opts.Settings.Normalize(len(patterns)),
		events:   make(chan Event, eventQueue),
		raw:      make([]uint8, spectrum.NumRawBands),
		buf:      led.NewBuffer(n),
		out:      led.NewBuffer(n),
		wire:     make([]byte, 0, 3*n),
		decay:    timer.NewEvery(PeakDecayInterval),
		persist:  timer.NewEvery(PersistInterval),
	}
	s.updateStatus()
	return s, nil
}

// Send queues ev for the next frame, blocking while the queue is full.
func (s *Scheduler) Send(ctx context.Context, ev Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frame renders and outputs one frame at monotonic time now.
func (s *Scheduler) Frame(now time.Duration) error {
	s.drain()

	s.advance.Interval = time.Duration(s.settings.DisplayTime) * time.Second
	if s.advance.Ready(now) {
		s.nextPattern()
	}
	if s.persist.Ready(now) {
		s.save()
	}

	if err := s.source.Bands(s.raw, int(s.settings.Gain), int(s.settings.Squelch)); err != nil {
		s.logger.Debug().Err(err).Msg("read bands")
		clear(s.raw)
	}

	if s.decay.Ready(now) {
		s.smoother.DecayPeaks()
	}
	s.smoother.Update(s.raw)
	s.blender.Tick(now)

	p := s.renderer.Pattern(int(s.settings.Pattern))
	s.renderer.Tick(now, p)

	if s.calib != nil {
		if !s.calib.Step(s.layout, s.buf) {
			s.calib = nil
			s.buf.Clear()
			s.logger.Info().Msg("calibration complete")
		}
	} else {
		s.renderer.Prepare(s.buf, p)
		s.renderer.Render(s.buf, p, pattern.Input{
			Now:     now,
			Raw:     s.smoother.Raw(),
			Bars:    s.smoother.Bars(),
			Peaks:   s.smoother.Peaks(),
			Palette: s.blender.Current(),
		})
	}

	copy(s.out, s.buf)
	var ma float64
	if s.limiter != nil {
		s.limiter.Apply(s.out)
		ma = s.limiter.Milliamps(s.out)
	}
	s.out.Scale(min(s.settings.Brightness, s.maxLevel))
	s.wire = s.out.Bytes(s.wire)

	s.mu.Lock()
	s.status.Frames++
	s.status.Milliamps = ma
	s.mu.Unlock()
	s.updateStatus()

	return errors.Wrap(s.sink.Write(s.wire), "write frame")
}

// Run calls Frame until ctx is done, pausing FrameDelay after each output.
// Settings are saved on the way out.
func (s *Scheduler) Run(ctx context.Context) error {
	errs := s.logger.Sample(&zerolog.BurstSampler{Burst: 1, Period: time.Second})
	start := time.Now()
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.drain()
			s.save()
			return nil
		case <-t.C:
		}

		if err := s.Frame(time.Since(start)); err != nil {
			errs.Warn().Err(err).Msg("frame")
		}
		t.Reset(s.delay)
	}
}

// Status returns a copy of the latest snapshot.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Layout returns the layout being rendered.
func (s *Scheduler) Layout() layout.Layout { return s.layout }

// Patterns returns the rotation.
func (s *Scheduler) Patterns() []pattern.Pattern { return s.renderer.Patterns() }

// Smoother exposes the band history for inspection.
func (s *Scheduler) Smoother() *spectrum.Smoother { return s.smoother }

func (s *Scheduler) drain() {
	for {
		select {
		case ev := <-s.events:
			ev(s)
		default:
			return
		}
	}
}

func (s *Scheduler) nextPattern() {
	n := len(s.renderer.Patterns())
	s.settings.Pattern = uint8((int(s.settings.Pattern) + 1) % n)
	s.logger.Debug().Str("pattern", s.renderer.Pattern(int(s.settings.Pattern)).Name).Msg("next pattern")
}

func (s *Scheduler) save() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.settings); err != nil {
		s.logger.Warn().Err(err).Msg("save settings")
	}
}

func (s *Scheduler) updateStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Pattern = s.renderer.Pattern(int(s.settings.Pattern)).Name
	s.status.Settings = s.settings
	s.status.Calibrating = s.calib != nil
}
