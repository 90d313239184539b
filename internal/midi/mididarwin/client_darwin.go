//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/youpy/go-coremidi"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
	ErrNoDestination       = errors.New("no MIDI destination selected")
)

// System Exclusive blocks larger than this are dropped mid-reassembly.
const maxSysExLen = 1024

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid manages MIDI operations on Darwin (macOS) systems: capture of
// channel voice and System Exclusive traffic, and sending in both forms.
type ClientMid struct {
	logger        contracts.Logger
	eventChannel  atomic.Value // chan contracts.Packet
	sysExChannel  atomic.Value // chan []byte
	client        coremidi.Client
	inputPort     coremidi.InputPort
	outputPort    coremidi.OutputPort
	portConn      internalPortConnection
	destination   *coremidi.Destination
	filter        *contracts.MIDIEventFilter
	mu            sync.Mutex
	capturing     bool
	sysExAssembly []byte // partial System Exclusive block across packets
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewMIDIClient initializes a new ClientMid for MIDI traffic on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.ClientConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger: options.Logger,
		client: client,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices retrieves and returns available MIDI source ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects the input port to the selected source and pairs it
// with the destination of the same index, so a control surface is reachable
// in both directions through one selection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handleMIDIMessage)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.outputPort, err = coremidi.NewOutputPort(m.client, "Output Port")
	if err != nil {
		m.logger.Error(ErrCreateOutputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}

	m.destination = nil
	destinations, err := coremidi.AllDestinations()
	if err == nil && deviceID < len(destinations) {
		m.destination = &destinations[deviceID]
	} else {
		m.logger.Warn("No matching MIDI destination; sending is disabled",
			m.logger.Field().Int("deviceID", deviceID))
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// handleMIDIMessage converts CoreMIDI packets into contracts.Packet events
// and reassembled System Exclusive blocks.
func (m *ClientMid) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	data := packet.Data
	if len(data) == 0 {
		return
	}

	if len(m.sysExAssembly) > 0 || data[0] == contracts.SysExStart {
		m.assembleSysEx(data)
		return
	}

	if len(data) < 2 {
		return
	}

	event := contracts.Packet{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
	}
	event.Raw[0] = data[0]
	event.Raw[1] = data[1]
	if len(data) > 2 {
		event.Raw[2] = data[2]
	}

	if m.filter != nil && !isStatusAllowed(event.Type(), m.filter.Statuses) {
		return
	}

	eventChannel, _ := m.eventChannel.Load().(chan contracts.Packet)
	if eventChannel == nil {
		return
	}
	select {
	case eventChannel <- event:
	default:
		m.logger.Warn("Event buffer full; dropping MIDI event")
	}
}

// assembleSysEx collects System Exclusive bytes until the end marker and
// delivers the complete block.
func (m *ClientMid) assembleSysEx(data []byte) {
	m.sysExAssembly = append(m.sysExAssembly, data...)
	if len(m.sysExAssembly) > maxSysExLen {
		m.logger.Warn("System Exclusive block too large; dropping")
		m.sysExAssembly = nil
		return
	}
	if m.sysExAssembly[len(m.sysExAssembly)-1] != contracts.SysExEnd {
		return
	}

	block := m.sysExAssembly
	m.sysExAssembly = nil

	sysExChannel, _ := m.sysExChannel.Load().(chan []byte)
	if sysExChannel == nil {
		return
	}
	select {
	case sysExChannel <- block:
	default:
		m.logger.Warn("SysEx buffer full; dropping block")
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

// Send delivers one channel voice message to the selected destination.
func (m *ClientMid) Send(packet *contracts.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination == nil {
		return ErrNoDestination
	}

	out := coremidi.NewPacket(packet.Raw[:], 0)
	return out.Send(&m.outputPort, m.destination)
}

// SendSystemExclusive delivers a complete, framed System Exclusive block.
func (m *ClientMid) SendSystemExclusive(buffer []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination == nil {
		return ErrNoDestination
	}

	out := coremidi.NewPacket(buffer, 0)
	return out.Send(&m.outputPort, m.destination)
}

// Stop halts capturing, disconnects from the device, and waits for ongoing
// processing to complete. Safe to call more than once.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.capturing {
			m.capturing = false

			if m.portConn != nil {
				m.portConn.Disconnect()
				m.portConn = nil
			}

			// Store closed-off dummy channels to prevent further writes.
			m.eventChannel.Store(make(chan contracts.Packet))
			m.sysExChannel.Store(make(chan []byte))

			m.logger.Info("MIDI capture stopped")
			m.wg.Wait()
		}
	})
	return nil
}
