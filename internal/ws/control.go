package ws

import (
	"context"

	"github.com/coreman2200/soundbars/internal/calib"
	"github.com/coreman2200/soundbars/internal/frame"
	"github.com/coreman2200/soundbars/internal/led"
)

// Control is a message on the /control socket. Absent fields are left alone.
type Control struct {
	Next        bool   `json:"next,omitempty"`
	Brightness  *uint8 `json:"brightness,omitempty"`
	Gain        *uint8 `json:"gain,omitempty"`
	Squelch     *uint8 `json:"squelch,omitempty"`
	Pattern     *int   `json:"pattern,omitempty"`
	DisplayTime *uint8 `json:"displayTime,omitempty"`
	Solid       string `json:"solid,omitempty"`
	RunTest     string `json:"runTest,omitempty"`
}

// events converts msg into frame events. Problems with individual fields
// are reported as diagnostics and the rest of the message still applies.
func (s *State) events(msg Control) ([]frame.Event, []Diagnostic) {
	var (
		evs   []frame.Event
		diags []Diagnostic
	)
	if msg.Pattern != nil {
		evs = append(evs, frame.SetPattern(*msg.Pattern))
	}
	if msg.Next {
		evs = append(evs, frame.NextPattern())
	}
	if msg.Brightness != nil {
		evs = append(evs, frame.SetBrightness(*msg.Brightness))
	}
	if msg.Gain != nil {
		evs = append(evs, frame.SetGain(*msg.Gain))
	}
	if msg.Squelch != nil {
		evs = append(evs, frame.SetSquelch(*msg.Squelch))
	}
	if msg.DisplayTime != nil {
		evs = append(evs, frame.SetDisplayTime(*msg.DisplayTime))
	}
	if msg.Solid != "" {
		c, err := led.ParseHex(msg.Solid)
		if err != nil {
			diags = append(diags, Diagnostic{Severity: Warn, Code: "CONTROL.COLOR", Summary: "Invalid solid colour", Detail: err.Error()})
		} else {
			evs = append(evs, frame.SetSolid(c))
		}
	}
	if msg.RunTest != "" {
		r, err := calib.NewRunner(calib.Kind(msg.RunTest), s.CalibrationHold)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
				Evidence: map[string]any{"name": msg.RunTest, "known": calib.Kinds()},
			})
		} else {
			diags = append(diags, Diagnostic{Severity: Info, Code: "TEST.RUNNING", Summary: "Running test", Detail: msg.RunTest})
			evs = append(evs, frame.RunCalibration(r))
		}
	}
	return evs, diags
}

func (s *State) apply(ctx context.Context, msg Control) error {
	s.mu.RLock()
	ctrl := s.ctrl
	s.mu.RUnlock()

	evs, diags := s.events(msg)
	for _, d := range diags {
		s.pushDiag(d)
	}
	if ctrl == nil {
		return nil
	}
	for _, ev := range evs {
		if err := ctrl.Send(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
