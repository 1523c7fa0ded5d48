package frame

import (
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/settings"
)

// Event is a control change applied by the frame loop between frames. Events
// are the only way other goroutines touch scheduler state.
type Event func(*Scheduler)

// NextPattern advances the rotation by one.
func NextPattern() Event {
	return func(s *Scheduler) { s.nextPattern() }
}

// SetPattern selects rotation entry i, wrapping out-of-range values.
func SetPattern(i int) Event {
	return func(s *Scheduler) {
		n := len(s.renderer.Patterns())
		s.settings.Pattern = uint8(((i % n) + n) % n)
	}
}

func SetBrightness(v uint8) Event {
	return func(s *Scheduler) { s.settings.Brightness = v }
}

func SetGain(v uint8) Event {
	return func(s *Scheduler) { s.settings.Gain = min(v, settings.MaxGain) }
}

func SetSquelch(v uint8) Event {
	return func(s *Scheduler) { s.settings.Squelch = min(v, settings.MaxSquelch) }
}

// SetDisplayTime sets the auto-advance interval in seconds. Zero disables it.
func SetDisplayTime(seconds uint8) Event {
	return func(s *Scheduler) { s.settings.DisplayTime = seconds }
}

// AdjustBrightness nudges brightness by delta, saturating at 0 and 255.
func AdjustBrightness(delta int) Event {
	return func(s *Scheduler) {
		s.settings.Brightness = uint8(clamp(int(s.settings.Brightness)+delta, 0, 255))
	}
}

func AdjustGain(delta int) Event {
	return func(s *Scheduler) {
		s.settings.Gain = uint8(clamp(int(s.settings.Gain)+delta, 0, settings.MaxGain))
	}
}

func AdjustSquelch(delta int) Event {
	return func(s *Scheduler) {
		s.settings.Squelch = uint8(clamp(int(s.settings.Squelch)+delta, 0, settings.MaxSquelch))
	}
}

// SetSolid changes the colour of the solid and heartbeat patterns.
func SetSolid(c led.Color) Event {
	return func(s *Scheduler) { s.renderer.SetSolid(c) }
}

// RunCalibration replaces pattern output with c until it reports done.
func RunCalibration(c Calibration) Event {
	return func(s *Scheduler) { s.calib = c }
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
