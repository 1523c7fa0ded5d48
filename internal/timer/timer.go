// Package timer provides polled soft timers. Each timer remembers when it last
// fired and is checked once per frame against a monotonic clock reading, so
// several timers may fire in the same frame without interacting.
package timer

import "time"

// Every fires at most once per Interval.
type Every struct {
	Interval time.Duration
	last     time.Duration
}

// NewEvery returns a timer whose first period starts at zero.
func NewEvery(interval time.Duration) Every {
	return Every{Interval: interval}
}

// Ready reports whether Interval has elapsed since the timer last fired, and
// if so restarts the period at now. A non-positive Interval never fires.
func (e *Every) Ready(now time.Duration) bool {
	if e.Interval <= 0 {
		return false
	}
	if now-e.last < e.Interval {
		return false
	}
	e.last = now
	return true
}

// Reset restarts the current period at now.
func (e *Every) Reset(now time.Duration) {
	e.last = now
}
