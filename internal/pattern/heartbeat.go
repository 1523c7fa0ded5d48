package pattern

import (
	"time"

	"github.com/coreman2200/soundbars/internal/timer"
)

const (
	LongBeat  = 700 * time.Millisecond
	ShortBeat = 350 * time.Millisecond
)

// beat alternates a long and a short period, reporting each completion.
type beat struct {
	t     timer.Every
	short bool
}

func newBeat() beat {
	return beat{t: timer.NewEvery(LongBeat)}
}

func (b *beat) update(now time.Duration) bool {
	if !b.t.Ready(now) {
		return false
	}
	b.short = !b.short
	if b.short {
		b.t.Interval = ShortBeat
	} else {
		b.t.Interval = LongBeat
	}
	return true
}

// period is the length of the phase in progress.
func (b *beat) period() time.Duration { return b.t.Interval }
