//go:build linux && cgo
// +build linux,cgo

package midilinux

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNoOutput          = errors.New("no MIDI output connected")
)

// ClientMid manages MIDI on Linux through the rtmidi driver.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.Packet
	sysExChannel atomic.Value // chan []byte
	drv          *rtmididrv.Driver
	inPort       drivers.In
	stopFn       func()
	send         func(midi.Message) error
	outPort      drivers.Out
	filter       *contracts.MIDIEventFilter
	mu           sync.Mutex
	capturing    bool
	stopOnce     sync.Once
}

// NewMIDIClient initializes a new ClientMid backed by rtmidi.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger: options.Logger,
		drv:    drv,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices retrieves and returns available MIDI input ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// SelectDevice opens the selected input port and pairs it with the output
// port of the same index, so a control surface is reachable in both
// directions through one selection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins, err := m.drv.Ins()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI inputs: %w", err)
	}
	if deviceID < 0 || deviceID >= len(ins) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	m.closeConn()

	in := ins[deviceID]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open input %q: %w", in.String(), err)
	}

	stop, err := midi.ListenTo(in, m.handleMessage, midi.UseSysEx())
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("listen %q: %w", in.String(), err)
	}
	m.inPort = in
	m.stopFn = stop

	m.send = nil
	m.outPort = nil
	outs, err := m.drv.Outs()
	if err == nil && deviceID < len(outs) {
		out := outs[deviceID]
		if err := out.Open(); err == nil {
			if send, err := midi.SendTo(out); err == nil {
				m.outPort = out
				m.send = send
			}
		}
	}
	if m.send == nil {
		m.logger.Warn("No matching MIDI output; sending is disabled",
			m.logger.Field().Int("deviceID", deviceID))
	}

	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", in.String()))
	return nil
}

// handleMessage converts gomidi messages into contracts.Packet events and
// System Exclusive blocks.
func (m *ClientMid) handleMessage(msg midi.Message, _ int32) {
	raw := msg.Bytes()
	if len(raw) > 0 && raw[0] == contracts.SysExStart {
		block := make([]byte, len(raw))
		copy(block, raw)

		if ch, ok := m.sysExChannel.Load().(chan []byte); ok && ch != nil {
			select {
			case ch <- block:
			default:
				m.logger.Warn("SysEx buffer full; dropping block")
			}
		}
		return
	}

	if len(raw) < 2 {
		return
	}

	event := contracts.Packet{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
	}
	copy(event.Raw[:], raw)

	if m.filter != nil && !isStatusAllowed(event.Type(), m.filter.Statuses) {
		return
	}

	if ch, ok := m.eventChannel.Load().(chan contracts.Packet); ok && ch != nil {
		select {
		case ch <- event:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event")
		}
	}
}

// isStatusAllowed verifies if a message status passes the event filter.
func isStatusAllowed(status contracts.Status, allowed []contracts.Status) bool {
	for _, s := range allowed {
		if status == s {
			return true
		}
	}
	return false
}

// StartCapture begins delivering channel voice messages to the channel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}

	m.logger.Info("Starting MIDI event capture")
	m.eventChannel.Store(eventChannel)
	m.capturing = true
}

// StartSysExCapture begins delivering complete System Exclusive blocks to the
// channel.
func (m *ClientMid) StartSysExCapture(sysExChannel chan []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sysExChannel == nil {
		m.logger.Error("StartSysExCapture called with nil channel")
		return
	}
	m.sysExChannel.Store(sysExChannel)
}

// Send delivers one channel voice message to the selected output port.
func (m *ClientMid) Send(packet *contracts.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.send == nil {
		return ErrNoOutput
	}
	return m.send(midi.Message(packet.Raw[:]))
}

// SendSystemExclusive delivers a complete, framed System Exclusive block.
func (m *ClientMid) SendSystemExclusive(buffer []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.send == nil {
		return ErrNoOutput
	}
	return m.send(midi.Message(buffer))
}

// Stop halts capturing and shuts down the driver. Safe to call more than
// once.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		defer m.mu.Unlock()

		m.closeConn()
		m.drv.Close()
		m.capturing = false
	})
	return nil
}

func (m *ClientMid) closeConn() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.inPort != nil {
		_ = m.inPort.Close()
		m.inPort = nil
	}
	if m.outPort != nil {
		_ = m.outPort.Close()
		m.outPort = nil
		m.send = nil
	}
}
