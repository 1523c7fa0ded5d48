package audio

import (
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

const DefaultBufferSize = 2048

// CaptureConfig selects the input device. An empty DeviceName picks the
// system default input.
type CaptureConfig struct {
	DeviceName string
	BufferSize int
	Channels   int
}

// Capture records from a PortAudio input stream into a ring buffer, mixing
// multi-channel input down to mono.
type Capture struct {
	stream     *portaudio.Stream
	device     *portaudio.DeviceInfo
	sampleRate float64
	channels   int

	ring *ring
	mono []float32
}

// NewCapture opens and starts the input stream. Initialize must have been
// called.
func NewCapture(cfg CaptureConfig) (*Capture, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	dev, err := inputDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	c := &Capture{
		device:     dev,
		sampleRate: dev.DefaultSampleRate,
		channels:   cfg.Channels,
		ring:       newRing(cfg.BufferSize),
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = cfg.Channels
	params.FramesPerBuffer = portaudio.FramesPerBufferUnspecified

	stream, err := portaudio.OpenStream(params, c.process)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dev.Name)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, errors.Wrapf(err, "start %s", dev.Name)
	}
	c.stream = stream
	return c, nil
}

// Samples returns the latest buffer of samples, oldest first.
func (c *Capture) Samples(dst []float32) []float32 { return c.ring.snapshot(dst) }

func (c *Capture) SampleRate() float64 { return c.sampleRate }

// DeviceName is the name of the device being recorded.
func (c *Capture) DeviceName() string { return c.device.Name }

func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil {
		_ = c.stream.Close()
		return errors.Wrap(err, "stop stream")
	}
	return errors.Wrap(c.stream.Close(), "close stream")
}

// process runs on the PortAudio callback thread.
func (c *Capture) process(in []float32) {
	if c.channels == 1 {
		c.ring.write(in)
		return
	}
	frames := len(in) / c.channels
	if cap(c.mono) < frames {
		c.mono = make([]float32, frames)
	}
	mono := c.mono[:frames]
	for i := range mono {
		var sum float32
		for ch := 0; ch < c.channels; ch++ {
			sum += in[i*c.channels+ch]
		}
		mono[i] = sum / float32(c.channels)
	}
	c.ring.write(mono)
}

func inputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, errors.Wrap(err, "default input device")
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "list audio devices")
	}
	want := strings.ToLower(name)
	for _, d := range devices {
		if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), want) {
			return d, nil
		}
	}
	return nil, errors.Errorf("audio device %q not found", name)
}

// InputDevices lists the names of devices that can record.
func InputDevices() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "list audio devices")
	}
	var names []string
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}
