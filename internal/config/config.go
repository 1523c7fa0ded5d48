// Package config loads the deployment description from YAML.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
	"github.com/coreman2200/soundbars/internal/pattern"
)

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps"`
	WhiteCap  float64 `yaml:"white_cap"`
	Knee      float64 `yaml:"knee"`
	// ChannelMilliamps is the draw of one channel at full scale.
	ChannelMilliamps float64 `yaml:"channel_ma"`
}

type SPI struct {
	Dev string `yaml:"dev"` // e.g. /dev/spidev0.0 or SPI0.0
}

type Serial struct {
	Dev  string `yaml:"dev"` // e.g. /dev/ttyACM0
	Baud int    `yaml:"baud"`
}

type Audio struct {
	Device     string `yaml:"device"`
	BufferSize int    `yaml:"buffer_size"`
	Channels   int    `yaml:"channels"`
}

type Controls struct {
	Button string `yaml:"button"` // GPIO name, empty to disable
	I2C    string `yaml:"i2c"`    // bus carrying the ADS1115, empty to disable
	// Keyboard maps keys to the button and knobs.
	Keyboard bool `yaml:"keyboard"`
}

type Config struct {
	Driver       string   `yaml:"driver"` // spi | serial | console | none
	Layout       string   `yaml:"layout"`
	Patterns     []string `yaml:"patterns,omitempty"`
	Palettes     []string `yaml:"palettes"`
	SolidColor   string   `yaml:"solid_color"`
	FrameDelayMs int      `yaml:"frame_delay_ms"`
	SettingsPath string   `yaml:"settings_path"`
	Preview      string   `yaml:"preview"` // listen address, empty to disable

	// MaxBrightness caps the knob; 0 leaves it uncapped.
	MaxBrightness uint8 `yaml:"max_brightness"`

	Power    PowerCfg `yaml:"power"`
	SPI      SPI      `yaml:"spi,omitempty"`
	Serial   Serial   `yaml:"serial,omitempty"`
	Audio    Audio    `yaml:"audio"`
	Controls Controls `yaml:"controls"`
}

// Default describes a 16x16 panel on SPI with the stock rotation.
func Default() *Config {
	return &Config{
		Driver:        "spi",
		Layout:        "matrix16",
		Palettes:      []string{"fire"},
		SolidColor:    "#ff4000",
		FrameDelayMs:  10,
		MaxBrightness: 255,
		SettingsPath:  "soundbars.settings",
		Preview:       ":8080",
		Power:         PowerCfg{LimitAmps: 4, WhiteCap: 0.85, Knee: 0.9, ChannelMilliamps: 20},
		SPI:           SPI{Dev: "/dev/spidev0.0"},
		Serial:        Serial{Dev: "/dev/ttyACM0", Baud: 115200},
		Audio:         Audio{BufferSize: 2048, Channels: 1},
		Controls:      Controls{Button: "GPIO17", I2C: "1"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, b, 0o644), "write config")
}

// Validate checks that every name in the file resolves.
func (c *Config) Validate() error {
	switch c.Driver {
	case "spi", "serial", "console", "none":
	default:
		return errors.Errorf("unknown driver %q", c.Driver)
	}
	l, err := c.BuildLayout()
	if err != nil {
		return err
	}
	if _, err := c.BuildPatterns(l); err != nil {
		return err
	}
	if _, err := c.BuildPalettes(); err != nil {
		return err
	}
	if _, err := c.Solid(); err != nil {
		return err
	}
	if c.FrameDelayMs < 0 {
		return errors.Errorf("negative frame_delay_ms %d", c.FrameDelayMs)
	}
	return nil
}

// BuildLayout resolves the layout preset.
func (c *Config) BuildLayout() (layout.Layout, error) {
	l, err := layout.Preset(c.Layout)
	if err != nil {
		return l, err
	}
	return l, l.Validate()
}

// BuildPatterns resolves the rotation, falling back to the layout's default.
func (c *Config) BuildPatterns(l layout.Layout) ([]pattern.Pattern, error) {
	if len(c.Patterns) == 0 {
		return pattern.Default(l), nil
	}
	ps, err := pattern.Named(c.Patterns...)
	if err != nil {
		return nil, err
	}
	if !l.IsMatrix() {
		for _, p := range ps {
			if p.Mode == pattern.Bars {
				return nil, errors.Errorf("pattern %s needs a matrix layout", p.Name)
			}
		}
	}
	return ps, nil
}

// BuildPalettes resolves the palette rotation.
func (c *Config) BuildPalettes() ([]palette.Gradient, error) {
	if len(c.Palettes) == 0 {
		return []palette.Gradient{palette.Fire}, nil
	}
	gs := make([]palette.Gradient, 0, len(c.Palettes))
	for _, n := range c.Palettes {
		g, ok := palette.Lookup(n)
		if !ok {
			return nil, errors.Errorf("unknown palette %q", n)
		}
		gs = append(gs, g)
	}
	return gs, nil
}

func (c *Config) Solid() (led.Color, error) { return led.ParseHex(c.SolidColor) }

func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMs) * time.Millisecond
}

// Limiter builds the power limiter, or nil when no limit is configured.
func (c *Config) Limiter() *led.Limiter {
	if c.Power.LimitAmps <= 0 && (c.Power.WhiteCap <= 0 || c.Power.WhiteCap >= 1) {
		return nil
	}
	return &led.Limiter{
		WhiteCap:         c.Power.WhiteCap,
		ChannelMilliamps: c.Power.ChannelMilliamps,
		BudgetMilliamps:  c.Power.LimitAmps * 1000,
		Knee:             c.Power.Knee,
	}
}
