package led

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/coreman2200/soundbars/internal/ledserial"
)

// ReadTimeout bounds each read of controller packets.
const ReadTimeout = 100 * time.Millisecond

// Serial streams frames to a microcontroller speaking the ledserial protocol.
type Serial struct {
	mu   sync.Mutex
	port io.ReadWriteCloser
	n    int
}

// OpenSerial opens the serial device and initializes a strip of n LEDs.
func OpenSerial(device string, baud, n int) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}
	// Listen relies on reads returning so it can notice cancellation.
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to set read timeout")
	}
	s, err := NewSerial(port, n)
	if err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// NewSerial wraps an open port and sends the initialize packet.
func NewSerial(port io.ReadWriteCloser, n int) (*Serial, error) {
	s := &Serial{port: port, n: n}
	if err := ledserial.WriteIncomingPacket(port, ledserial.InitializePacket{NumLEDs: uint16(n)}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize LEDs")
	}
	return s, nil
}

func (s *Serial) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledserial.WriteIncomingPacket(s.port, ledserial.SetPacket{Pix: rgb})
}

func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ledserial.WriteIncomingPacket(s.port, ledserial.ClearPacket{}); err != nil {
		s.port.Close()
		return errors.Wrap(err, "failed to clear LEDs")
	}
	return s.port.Close()
}

// Listen logs packets sent back by the controller until ctx is done or the
// controller panics. Cancellation is a clean stop and returns nil.
func (s *Serial) Listen(ctx context.Context, logger zerolog.Logger) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(s.port)
		if err != nil {
			// A short read indicates a timeout. This is expected.
			if errors.Is(err, io.EOF) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to read packet")
		}

		switch p := p.(type) {
		case ledserial.AckPacket:
			logger.Trace().Stringer("acked_for", p.IncomingPacketType).Msg("controller ack")
		case ledserial.ErrorPacket:
			logger.Warn().Str("message", p.Message).Msg("controller reported error")
		case ledserial.PanicPacket:
			logger.Error().Msg("controller unrecoverably panicked")
			return errors.New("controller panicked")
		case ledserial.LogPacket:
			logger.Info().Str("message", p.Message).Msg("controller log")
		}
	}
	return nil
}
