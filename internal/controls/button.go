package controls

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/coreman2200/soundbars/internal/frame"
)

const PollInterval = 100 * time.Millisecond

// Button advances the pattern when a pull-up button is pressed. It is polled,
// so a press is seen at most once per PollInterval, which also debounces it.
type Button struct {
	pin     gpio.PinIn
	send    Sender
	pressed bool
	presses int
}

// OpenButton looks up a GPIO by name, for example "GPIO17".
func OpenButton(name string, s Sender) (*Button, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("no gpio named %q", name)
	}
	return NewButton(p, s)
}

// NewButton configures pin as a pulled-up input.
func NewButton(pin gpio.PinIn, s Sender) (*Button, error) {
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "configure %s", pin)
	}
	return &Button{pin: pin, send: s}, nil
}

// Poll samples the pin once and sends NextPattern on a new press.
func (b *Button) Poll(ctx context.Context) error {
	down := b.pin.Read() == gpio.Low
	if down && !b.pressed {
		b.presses++
		if err := b.send.Send(ctx, frame.NextPattern()); err != nil {
			return err
		}
	}
	b.pressed = down
	return nil
}

// Presses counts the presses seen so far.
func (b *Button) Presses() int { return b.presses }

// Run polls until ctx is done.
func (b *Button) Run(ctx context.Context) error {
	t := time.NewTicker(PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := b.Poll(ctx); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}
