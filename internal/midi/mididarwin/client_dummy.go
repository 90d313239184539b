//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/surfacekit/mcu/sdk/contracts"
)

var errUnavailable = errors.New("CoreMIDI is not available on this platform")

type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-macOS system")
	return &DummyMIDIClient{
		logger: options.Logger,
	}, nil
}

func (m *DummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, errUnavailable
}

func (m *DummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client")
	return errUnavailable
}

func (m *DummyMIDIClient) StartCapture(eventChannel chan contracts.Packet) {
	m.logger.Warn("StartCapture called on dummy MIDI client")
}

func (m *DummyMIDIClient) StartSysExCapture(sysExChannel chan []byte) {
	m.logger.Warn("StartSysExCapture called on dummy MIDI client")
}

func (m *DummyMIDIClient) Send(packet *contracts.Packet) error {
	return errUnavailable
}

func (m *DummyMIDIClient) SendSystemExclusive(buffer []byte) error {
	return errUnavailable
}

func (m *DummyMIDIClient) Stop() error {
	return nil
}
