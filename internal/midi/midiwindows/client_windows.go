//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// Type definitions for MIDI handles.
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags.
const (
	CALLBACK_FUNCTION = 0x00030000 // The callback parameter is a function.
	MIDI_IO_STATUS    = 0x00000020
)

// Constants for MIDI input callback messages.
const (
	MIM_OPEN      = 0x3C1
	MIM_CLOSE     = 0x3C2
	MIM_DATA      = 0x3C3
	MIM_LONGDATA  = 0x3C4
	MIM_ERROR     = 0x3C5
	MIM_LONGERROR = 0x3C6
	MIM_MOREDATA  = 0x3CC
)

// Struct representing MIDI input device capabilities.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// midiHdr is the winmm MIDIHDR structure used for long (System Exclusive)
// messages.
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// ClientMid manages MIDI on Windows through winmm.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.Packet
	sysExChannel atomic.Value // chan []byte
	handle       HMIDIIN
	outHandle    HMIDIOUT
	portConn     bool
	outConn      bool
	mu           sync.Mutex
	callback     uintptr
	filter       *contracts.MIDIEventFilter
}

// Load the winmm.dll library and required functions.
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")

	procMidiOutOpen            = winmm.NewProc("midiOutOpen")
	procMidiOutClose           = winmm.NewProc("midiOutClose")
	procMidiOutShortMsg        = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg         = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader   = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepareHeader = winmm.NewProc("midiOutUnprepareHeader")
)

// NewMIDIClient creates a MIDI client for Windows.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Windows")

	return &ClientMid{
		logger: options.Logger,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the available MIDI input devices.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn("No MIDI devices found")
		return nil, errors.New("no MIDI devices found")
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn(fmt.Sprintf("Failed to get information for MIDI device %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// SelectDevice opens the MIDI input and the output of the same index, so a
// control surface is reachable in both directions through one selection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.portConn {
		if err := m.stopCapture(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	m.callback = windows.NewCallback(midiInCallback)
	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		m.callback,
		uintptr(unsafe.Pointer(m)),
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to open MIDI device %d: %v", deviceID, err))
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	r1, _, err = procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&m.outHandle)),
		uintptr(deviceID),
		0,
		0,
		0,
	)
	if r1 != 0 {
		m.logger.Warn(fmt.Sprintf("No MIDI output %d; sending is disabled: %v", deviceID, err))
		m.outConn = false
	} else {
		m.outConn = true
	}

	m.portConn = true
	m.logger.Info(fmt.Sprintf("MIDI device %d connected", deviceID))
	return nil
}

// StartCapture initializes MIDI event capture.
func (m *ClientMid) StartCapture(eventChannel chan contracts.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Error("Cannot start capture: No MIDI device selected")
		return
	}

	if _, ok := m.eventChannel.Load().(chan contracts.Packet); ok {
		m.logger.Warn("Capture already started")
		return
	}

	m.eventChannel.Store(eventChannel)

	if m.handle == 0 {
		m.logger.Error("Invalid MIDI device handle")
		return
	}

	r1, _, err := procMidiInStart.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to start MIDI capture: %v", err))
		return
	}

	m.logger.Info("MIDI capture started")
}

// StartSysExCapture registers the System Exclusive channel. Inbound long
// messages require prepared input buffers which this client does not manage;
// blocks are only delivered when the driver hands them over as short chunks.
func (m *ClientMid) StartSysExCapture(sysExChannel chan []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sysExChannel.Store(sysExChannel)
}

// midiInCallback processes incoming MIDI messages.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	m := (*ClientMid)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case MIM_OPEN:
		m.logger.Info("MIDI device opened")
	case MIM_CLOSE:
		m.logger.Info("MIDI device closed")
	case MIM_DATA:
		event := contracts.Packet{
			Timestamp: uint64(time.Now().UTC().UnixNano()),
		}
		event.Raw[0] = byte(dwParam1 & 0xFF)
		event.Raw[1] = byte((dwParam1 >> 8) & 0xFF)
		event.Raw[2] = byte((dwParam1 >> 16) & 0xFF)

		if m.filter != nil && !isStatusAllowed(event.Type(), m.filter.Statuses) {
			return 0
		}

		if ch, ok := m.eventChannel.Load().(chan contracts.Packet); ok && ch != nil {
			select {
			case ch <- event:
			default:
				m.logger.Warn("MIDI event channel is full; event discarded")
			}
		}
	case MIM_LONGDATA:
		m.logger.Debug("Received MIM_LONGDATA without a prepared buffer; ignored")
	case MIM_ERROR, MIM_LONGERROR:
		m.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	case MIM_MOREDATA:
		m.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		m.logger.Warn(fmt.Sprintf("Unknown MIDI message: 0x%X", wMsg))
	}

	return 0
}

// Send delivers one channel voice message through midiOutShortMsg.
func (m *ClientMid) Send(packet *contracts.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.outConn {
		return errors.New("no MIDI output device connected")
	}

	msg := uint32(packet.Raw[0]) | uint32(packet.Raw[1])<<8 | uint32(packet.Raw[2])<<16
	r1, _, err := procMidiOutShortMsg.Call(uintptr(m.outHandle), uintptr(msg))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed: %v", err)
	}
	return nil
}

// SendSystemExclusive delivers a complete, framed System Exclusive block
// through a prepared long-message header.
func (m *ClientMid) SendSystemExclusive(buffer []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.outConn {
		return errors.New("no MIDI output device connected")
	}
	if len(buffer) == 0 {
		return errors.New("empty SysEx buffer")
	}

	hdr := midiHdr{
		lpData:         uintptr(unsafe.Pointer(&buffer[0])),
		dwBufferLength: uint32(len(buffer)),
	}

	r1, _, err := procMidiOutPrepareHeader.Call(
		uintptr(m.outHandle),
		uintptr(unsafe.Pointer(&hdr)),
		unsafe.Sizeof(hdr),
	)
	if r1 != 0 {
		return fmt.Errorf("midiOutPrepareHeader failed: %v", err)
	}
	defer procMidiOutUnprepareHeader.Call(
		uintptr(m.outHandle),
		uintptr(unsafe.Pointer(&hdr)),
		unsafe.Sizeof(hdr),
	)

	r1, _, err = procMidiOutLongMsg.Call(
		uintptr(m.outHandle),
		uintptr(unsafe.Pointer(&hdr)),
		unsafe.Sizeof(hdr),
	)
	if r1 != 0 {
		return fmt.Errorf("midiOutLongMsg failed: %v", err)
	}
	return nil
}

// Stop terminates MIDI event capture and disconnects the device.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Warn("No MIDI device is connected")
		return nil
	}

	if err := m.stopCapture(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	m.logger.Info("MIDI capture stopped and device closed")
	return nil
}

// stopCapture stops the capture and releases resources.
func (m *ClientMid) stopCapture() error {
	if m.handle == 0 {
		return errors.New("invalid MIDI device handle")
	}

	r1, _, err := procMidiInStop.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to stop MIDI capture: %v", err))
		return err
	}

	r1, _, err = procMidiInClose.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to close MIDI device: %v", err))
		return err
	}

	if m.outConn {
		procMidiOutClose.Call(uintptr(m.outHandle))
		m.outConn = false
		m.outHandle = 0
	}

	m.portConn = false
	m.handle = 0
	m.eventChannel.Store(make(chan contracts.Packet))
	return nil
}

// isStatusAllowed checks if the message status passes the event filter.
func isStatusAllowed(status contracts.Status, allowed []contracts.Status) bool {
	for _, s := range allowed {
		if status == s {
			return true
		}
	}
	return false
}
