package controls

import (
	"context"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"

	"github.com/coreman2200/soundbars/internal/frame"
)

// ErrQuit is returned by Keyboard.Run when the user asks to exit.
var ErrQuit = errors.New("quit requested")

const brightnessStep = 16

// Keyboard stands in for the button and knobs when running on a desktop.
type Keyboard struct {
	send Sender
}

func NewKeyboard(s Sender) *Keyboard { return &Keyboard{send: s} }

// KeyEvent maps a key press to an event. quit is set for q, Esc and Ctrl-C.
func KeyEvent(char rune, key keyboard.Key) (ev frame.Event, quit bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q' || char == 'Q':
		return nil, true
	case key == keyboard.KeySpace || char == ' ' || char == 'n':
		return frame.NextPattern(), false
	case char == '+' || char == '=':
		return frame.AdjustBrightness(brightnessStep), false
	case char == '-':
		return frame.AdjustBrightness(-brightnessStep), false
	case char == 'G':
		return frame.AdjustGain(1), false
	case char == 'g':
		return frame.AdjustGain(-1), false
	case char == 'S':
		return frame.AdjustSquelch(1), false
	case char == 's':
		return frame.AdjustSquelch(-1), false
	}
	return nil, false
}

// Run reads keys until ctx is done or a quit key is pressed.
func (k *Keyboard) Run(ctx context.Context) error {
	keys, err := keyboard.GetKeys(8)
	if err != nil {
		return errors.Wrap(err, "open keyboard")
	}
	defer func() { _ = keyboard.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-keys:
			if !ok {
				return nil
			}
			if e.Err != nil {
				return errors.Wrap(e.Err, "read key")
			}
			ev, quit := KeyEvent(e.Rune, e.Key)
			if quit {
				return ErrQuit
			}
			if ev == nil {
				continue
			}
			if err := k.send.Send(ctx, ev); err != nil {
				return nil
			}
		}
	}
}
