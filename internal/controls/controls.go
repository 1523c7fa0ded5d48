// Package controls turns physical inputs (a push button, three potentiometers
// on an ADC, or a keyboard standing in for both) into frame events.
package controls

import (
	"context"

	"github.com/coreman2200/soundbars/internal/frame"
)

// Sender queues events for the frame loop. *frame.Scheduler implements it.
type Sender interface {
	Send(ctx context.Context, ev frame.Event) error
}
