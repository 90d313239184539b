// mcumon connects to a Mackie-compatible control surface and logs every
// decoded event: buttons, faders, V-Pot rings, meters, scribble strips, and
// the time display.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/surfacekit/mcu/internal/config"
	"github.com/surfacekit/mcu/internal/logger"
	"github.com/surfacekit/mcu/sdk/contracts"
	"github.com/surfacekit/mcu/sdk/mackie"
	"github.com/surfacekit/mcu/sdk/midi"
)

func main() {
	cfgPath := pflag.String("config", "mcumon.yaml", "path to the yaml configuration file")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	log := logger.NewZapLogger()
	level := logLevel(cfg.Monitor.LogLevel)
	log.SetLevel(level)

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithClientConfig(contracts.ClientConfig{ClientName: "mcumon"}),
	)
	if err != nil {
		log.Fatal("MIDI client setup failed", log.Field().Error("error", err))
	}
	defer client.Stop()

	deviceID, err := findDevice(client, cfg.Monitor.Device)
	if err != nil {
		log.Fatal("device selection failed", log.Field().Error("error", err))
	}
	if err := client.SelectDevice(deviceID); err != nil {
		log.Fatal("device selection failed", log.Field().Error("error", err))
	}

	surface := mackie.NewSurface(mackie.WithSurfaceLogger(log))
	surface.SetHandlers(loggingHandlers(log, surface))

	events := make(chan contracts.Packet, 256)
	sysEx := make(chan []byte, 16)
	client.StartCapture(events)
	client.StartSysExCapture(sysEx)

	ticker := time.NewTicker(time.Duration(cfg.Monitor.TickIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log.Info("monitoring control surface",
		log.Field().Int("deviceID", deviceID),
		log.Field().Int("tickIntervalMs", cfg.Monitor.TickIntervalMs))

	for {
		select {
		case packet := <-events:
			surface.Dispatch(&packet)
		case block := <-sysEx:
			surface.DispatchSystemExclusive(block)
		case <-ticker.C:
			surface.Tick()
		case <-stop:
			log.Info("shutting down")
			return
		}
	}
}

// findDevice resolves the configured name substring to a device index. An
// empty substring selects the first device.
func findDevice(client contracts.ClientMIDI, substring string) (int, error) {
	devices, err := client.ListDevices()
	if err != nil {
		return 0, err
	}
	if substring == "" {
		return 0, nil
	}

	want := strings.ToLower(substring)
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), want) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no MIDI device matches %q", substring)
}

func logLevel(name string) contracts.LogLevel {
	switch name {
	case "debug":
		return contracts.DebugLevel
	case "warn":
		return contracts.WarnLevel
	case "error":
		return contracts.ErrorLevel
	default:
		return contracts.InfoLevel
	}
}

// loggingHandlers reports every decoded surface event through the logger.
func loggingHandlers(log contracts.Logger, surface *mackie.Surface) mackie.Handlers {
	return mackie.Handlers{
		StripVPot: func(strip uint8, mode mackie.VPotMode, center bool, fraction float32) {
			log.Info("vpot",
				log.Field().Uint8("strip", strip),
				log.Field().Int("mode", int(mode)),
				log.Field().Bool("center", center),
				log.Field().Float64("value", float64(fraction)))
		},
		StripButton: func(strip uint8, button mackie.StripButton, on bool) {
			log.Info("strip button",
				log.Field().Uint8("strip", strip),
				log.Field().Int("button", int(button)),
				log.Field().Bool("on", on))
		},
		StripFader: func(strip uint8, fraction float32) {
			log.Info("fader",
				log.Field().Uint8("strip", strip),
				log.Field().Float64("position", float64(fraction)))
		},
		StripMeter: func(strip uint8, fraction float32, overload bool) {
			log.Info("meter",
				log.Field().Uint8("strip", strip),
				log.Field().Float64("level", float64(fraction)),
				log.Field().Bool("overload", overload))
		},
		StripMeterOverload: func(strip uint8, overload bool) {
			log.Info("meter overload",
				log.Field().Uint8("strip", strip),
				log.Field().Bool("overload", overload))
		},
		StripDisplay: func(global bool, strip, row uint8) {
			log.Info("display",
				log.Field().Bool("global", global),
				log.Field().Uint8("strip", strip),
				log.Field().Uint8("row", row),
				log.Field().String("text", surface.StripDisplay(strip, row)))
		},
		Fader: func(fraction float32) {
			log.Info("main fader", log.Field().Float64("position", float64(fraction)))
		},
		TransportButton: func(button mackie.TransportButton, on bool) {
			log.Info("transport",
				log.Field().Int("button", int(button)),
				log.Field().Bool("on", on))
		},
		BankButton: func(button mackie.BankButton, on bool) {
			log.Info("bank",
				log.Field().Int("button", int(button)),
				log.Field().Bool("on", on))
		},
		ModifierButton: func(button mackie.ModifierButton, on bool) {
			log.Info("modifier",
				log.Field().Int("button", int(button)),
				log.Field().Bool("on", on))
		},
		NavigationButton: func(button mackie.NavigationButton, on bool) {
			log.Info("navigation",
				log.Field().Int("button", int(button)),
				log.Field().Bool("on", on))
		},
		Jog: func(clockwise bool) {
			log.Info("jog", log.Field().Bool("clockwise", clockwise))
		},
		UserSwitch: func(sw mackie.UserSwitch, on bool) {
			log.Info("user switch",
				log.Field().Int("switch", int(sw)),
				log.Field().Bool("on", on))
		},
		Time: func(timeType mackie.TimeType) {
			t := surface.Time()
			if t.Type == mackie.TimeBeats {
				log.Info("time",
					log.Field().Int("bars", int(t.Beats.Bars)),
					log.Field().Int("beats", int(t.Beats.Beats)),
					log.Field().Int("subdivision", int(t.Beats.Subdivision)),
					log.Field().Int("ticks", int(t.Beats.Ticks)))
				return
			}
			log.Info("time",
				log.Field().Int("hours", int(t.SMPTE.Hours)),
				log.Field().Int("minutes", int(t.SMPTE.Minutes)),
				log.Field().Int("seconds", int(t.SMPTE.Seconds)),
				log.Field().Int("frames", int(t.SMPTE.Frames)))
		},
		Timeout: func() {
			log.Warn("surface went silent; no ping for five seconds")
		},
	}
}
