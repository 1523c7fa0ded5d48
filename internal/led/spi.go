package led

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// RefreshRate is the NRZ bit rate of WS2812-class strips.
const RefreshRate physic.Frequency = 800

// SPIFreq is the SPI clock used to emulate the NRZ waveform.
var SPIFreq = ((RefreshRate * 3) + 100) * physic.KiloHertz

// SPI drives a WS2812 strip through an SPI port.
type SPI struct {
	dev  *nrzled.Dev
	port spi.PortCloser
}

// OpenSPI initializes the host and opens the named SPI port. An empty name
// selects the first port available.
func OpenSPI(name string, numPixels int) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize host")
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}
	s, err := NewSPI(p, numPixels)
	if err != nil {
		p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

// NewSPI wraps an already opened port.
func NewSPI(p spi.Port, numPixels int) (*SPI, error) {
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: numPixels,
		Channels:  3,
		Freq:      SPIFreq,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create nrzled device")
	}
	return &SPI{dev: d}, nil
}

func (s *SPI) String() string { return s.dev.String() }

func (s *SPI) Write(rgb []byte) error {
	_, err := s.dev.Write(rgb)
	return err
}

func (s *SPI) Close() error {
	if err := s.dev.Halt(); err != nil {
		return errors.Wrap(err, "failed to halt strip")
	}
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}
