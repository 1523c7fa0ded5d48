package controls

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"

	"github.com/coreman2200/soundbars/internal/frame"
	"github.com/coreman2200/soundbars/internal/settings"
)

const (
	// KnobSteps is the resolution knob positions are quantised to.
	KnobSteps = 1024
	// Hysteresis is how many steps a knob must move before it is reported.
	Hysteresis = 6

	FullScale = 3300 * physic.MilliVolt
)

type sampler interface {
	Read() (analog.Sample, error)
}

type knob struct {
	name  string
	in    sampler
	event func(pos int) frame.Event
	last  int
}

// Knobs reads brightness, gain and squelch potentiometers.
type Knobs struct {
	knobs []*knob
	send  Sender
	halt  func() error
}

// OpenKnobs reads channels 0, 1 and 2 of an ADS1115 on bus as brightness,
// gain and squelch.
func OpenKnobs(bus i2c.Bus, s Sender) (*Knobs, error) {
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, errors.Wrap(err, "ads1115")
	}
	var pins [3]sampler
	for i, ch := range []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2} {
		p, err := dev.PinForChannel(ch, FullScale, 128*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			_ = dev.Halt()
			return nil, errors.Wrapf(err, "ads1115 channel %d", i)
		}
		pins[i] = p
	}
	k := NewKnobs(pins[0], pins[1], pins[2], s)
	k.halt = dev.Halt
	return k, nil
}

// NewKnobs builds knobs over three samplers.
func NewKnobs(brightness, gain, squelch sampler, s Sender) *Knobs {
	return &Knobs{
		send: s,
		knobs: []*knob{
			{name: "brightness", in: brightness, last: -1, event: func(pos int) frame.Event {
				return frame.SetBrightness(uint8(scale(pos, 255)))
			}},
			{name: "gain", in: gain, last: -1, event: func(pos int) frame.Event {
				return frame.SetGain(uint8(scale(pos, settings.MaxGain)))
			}},
			{name: "squelch", in: squelch, last: -1, event: func(pos int) frame.Event {
				return frame.SetSquelch(uint8(scale(pos, settings.MaxSquelch)))
			}},
		},
	}
}

// Poll reads every knob once and sends events for those that moved.
func (k *Knobs) Poll(ctx context.Context) error {
	for _, kn := range k.knobs {
		s, err := kn.in.Read()
		if err != nil {
			log.Debug().Err(err).Str("knob", kn.name).Msg("read knob")
			continue
		}
		pos := position(s.V)
		if kn.last >= 0 && abs(pos-kn.last) < Hysteresis {
			continue
		}
		kn.last = pos
		if err := k.send.Send(ctx, kn.event(pos)); err != nil {
			return err
		}
	}
	return nil
}

// Run polls until ctx is done.
func (k *Knobs) Run(ctx context.Context) error {
	t := time.NewTicker(PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := k.Poll(ctx); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}

func (k *Knobs) Close() error {
	if k.halt == nil {
		return nil
	}
	return k.halt()
}

// position quantises a voltage to 0..KnobSteps-1.
func position(v physic.ElectricPotential) int {
	p := int(int64(v) * (KnobSteps - 1) / int64(FullScale))
	return min(max(p, 0), KnobSteps-1)
}

func scale(pos, top int) int {
	return pos * top / (KnobSteps - 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
