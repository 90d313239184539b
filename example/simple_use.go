package main

import (
	"fmt"
	"time"

	"github.com/surfacekit/mcu/internal/logger"
	"github.com/surfacekit/mcu/sdk/contracts"
	"github.com/surfacekit/mcu/sdk/mackie"
	"github.com/surfacekit/mcu/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = client.SelectDevice(0); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}
	defer client.Stop()

	// Greet the surface: a scribble-strip label and a half-open fader.
	text := make([]byte, 0, 16)
	if block := mackie.SetStripText(text, 0, 0, "Hello"); block != nil {
		if err := client.SendSystemExclusive(block); err != nil {
			log.Warn("SysEx send failed", log.Field().Error("error", err))
		}
	}
	var packet contracts.Packet
	if mackie.SetStripFader(&packet, 0, 0.5) != nil {
		if err := client.Send(&packet); err != nil {
			log.Warn("Send failed", log.Field().Error("error", err))
		}
	}

	surface := mackie.NewSurface(mackie.WithHandlers(mackie.Handlers{
		StripButton: func(strip uint8, button mackie.StripButton, on bool) {
			fmt.Printf("strip %d button %d on=%v\n", strip, button, on)
		},
		StripFader: func(strip uint8, fraction float32) {
			fmt.Printf("strip %d fader %.3f\n", strip, fraction)
		},
	}))

	eventChannel := make(chan contracts.Packet, 100)
	sysExChannel := make(chan []byte, 16)
	client.StartCapture(eventChannel)
	client.StartSysExCapture(sysExChannel)

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case event := <-eventChannel:
				surface.Dispatch(&event)
			case block := <-sysExChannel:
				surface.DispatchSystemExclusive(block)
			case <-ticker.C:
				surface.Tick()
			}
		}
	}()

	fmt.Println("Capturing control surface events... Press Ctrl+C to exit.")
	select {} // Run indefinitely
}
