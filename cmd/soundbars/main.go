package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/soundbars/internal/audio"
	"github.com/coreman2200/soundbars/internal/config"
	"github.com/coreman2200/soundbars/internal/controls"
	"github.com/coreman2200/soundbars/internal/frame"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/palette"
	"github.com/coreman2200/soundbars/internal/settings"
	"github.com/coreman2200/soundbars/internal/ws"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "soundbars.yaml", "path to the YAML config")
		sim        = pflag.Bool("sim", false, "synthesize audio and use the keyboard instead of hardware controls")
		verbose    = pflag.BoolP("verbose", "v", false, "debug logging")
		addr       = pflag.String("addr", "", "preview listen address (overrides config)")
		driver     = pflag.String("driver", "", "output: spi | serial | console | none (overrides config)")
		layoutName = pflag.String("layout", "", "layout preset (overrides config)")
		devices    = pflag.Bool("list-devices", false, "list audio inputs and exit")
	)
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *devices {
		listDevices()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *layoutName != "" {
		cfg.Layout = *layoutName
	}
	if *addr != "" {
		cfg.Preview = *addr
	}
	if *sim {
		cfg.Controls = config.Controls{Keyboard: true}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *sim); err != nil && !errors.Is(err, controls.ErrQuit) {
		log.Fatal().Err(err).Msg("exited")
	}
	log.Info().Msg("shut down")
}

func run(ctx context.Context, cfg *config.Config, sim bool) error {
	l, _ := cfg.BuildLayout()
	patterns, _ := cfg.BuildPatterns(l)
	gradients, _ := cfg.BuildPalettes()
	solid, _ := cfg.Solid()

	store := settings.NewFileStore(cfg.SettingsPath)
	st, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.SettingsPath).Msg("settings unreadable; using defaults")
	}

	source, closeSource := openSource(cfg, sim)
	defer closeSource()

	hw, selected := openSink(cfg, l.Count())
	preview := ws.NewState(l, nil)
	sink := led.Tee{hw, preview}
	defer sink.Close()

	sched, err := frame.New(frame.Options{
		Layout:        l,
		Patterns:      patterns,
		Source:        source,
		Sink:          sink,
		Store:         store,
		Settings:      st,
		Blender:       palette.NewBlenderFromGradients(gradients...),
		Limiter:       cfg.Limiter(),
		Solid:         solid,
		MaxBrightness: cfg.MaxBrightness,
		FrameDelay:    cfg.FrameDelay(),
	})
	if err != nil {
		return err
	}
	preview.SetController(sched)

	log.Info().
		Str("layout", l.Name).
		Int("leds", l.Count()).
		Str("driver", selected).
		Str("pattern", sched.Status().Pattern).
		Msg("starting")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(ctx) })

	if s, ok := hw.(*led.Serial); ok {
		logger := log.With().Str("component", "serial").Logger()
		g.Go(func() error { return s.Listen(ctx, logger) })
	}

	startControls(ctx, g, cfg, sched)

	if cfg.Preview != "" {
		srv := &http.Server{
			Addr:         cfg.Preview,
			Handler:      preview.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.Preview).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "preview server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = preview.Close()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// openSource prefers the microphone and falls back to the synthesizer.
func openSource(cfg *config.Config, sim bool) (frame.Source, func()) {
	size := cfg.Audio.BufferSize
	if !sim {
		if err := audio.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable; synthesizing")
		} else {
			c, err := audio.NewCapture(audio.CaptureConfig{
				DeviceName: cfg.Audio.Device,
				BufferSize: size,
				Channels:   cfg.Audio.Channels,
			})
			if err == nil {
				log.Info().Str("device", c.DeviceName()).Float64("rate", c.SampleRate()).Msg("capturing audio")
				return audio.NewSource(c, size), func() {
					_ = c.Close()
					audio.Terminate()
				}
			}
			log.Warn().Err(err).Msg("audio capture failed; synthesizing")
			audio.Terminate()
		}
	}
	syn := audio.NewSynth(44100, max(size, 256), time.Now().UnixNano())
	return audio.NewSource(syn, size), func() {}
}

// openSink opens the configured output, falling back to the console when the
// hardware cannot be opened.
func openSink(cfg *config.Config, n int) (led.Driver, string) {
	switch cfg.Driver {
	case "spi":
		d, err := led.OpenSPI(cfg.SPI.Dev, n)
		if err == nil {
			return d, "spi"
		}
		log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("SPI init failed; falling back to console")
	case "serial":
		d, err := led.OpenSerial(cfg.Serial.Dev, cfg.Serial.Baud, n)
		if err == nil {
			return d, "serial"
		}
		log.Warn().Err(err).Str("dev", cfg.Serial.Dev).Msg("serial init failed; falling back to console")
	case "none":
		return &led.Fake{}, "none"
	}
	return led.NewConsole(n), "console"
}

func startControls(ctx context.Context, g *errgroup.Group, cfg *config.Config, s *frame.Scheduler) {
	if cfg.Controls.Keyboard {
		kb := controls.NewKeyboard(s)
		g.Go(func() error { return kb.Run(ctx) })
	}
	if cfg.Controls.Button == "" && cfg.Controls.I2C == "" {
		return
	}
	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("host init failed; hardware controls disabled")
		return
	}

	if cfg.Controls.Button != "" {
		b, err := controls.OpenButton(cfg.Controls.Button, s)
		if err != nil {
			log.Warn().Err(err).Msg("button disabled")
		} else {
			g.Go(func() error { return b.Run(ctx) })
		}
	}

	if cfg.Controls.I2C != "" {
		bus, err := i2creg.Open(cfg.Controls.I2C)
		if err != nil {
			log.Warn().Err(err).Str("bus", cfg.Controls.I2C).Msg("knobs disabled")
			return
		}
		k, err := controls.OpenKnobs(bus, s)
		if err != nil {
			bus.Close()
			log.Warn().Err(err).Msg("knobs disabled")
			return
		}
		g.Go(func() error {
			defer bus.Close()
			defer k.Close()
			return k.Run(ctx)
		})
	}
}

func listDevices() {
	if err := audio.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("audio unavailable")
	}
	defer audio.Terminate()
	names, err := audio.InputDevices()
	if err != nil {
		log.Fatal().Err(err).Msg("list devices")
	}
	for _, n := range names {
		log.Info().Str("device", n).Msg("input")
	}
}
