package mackie

import (
	"bytes"
	"testing"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// sysExDisplay frames a display fragment the way a DAW would send it.
func sysExDisplay(offset uint8, text string) []byte {
	block := []byte{contracts.SysExStart}
	block = append(block, sysExVendor[:]...)
	block = append(block, deviceControl, sysExTypeDisplay, offset)
	block = append(block, text...)
	return append(block, contracts.SysExEnd)
}

type displayCall struct {
	global bool
	strip  uint8
	row    uint8
}

func recordDisplay(calls *[]displayCall) Handlers {
	return Handlers{
		StripDisplay: func(global bool, strip, row uint8) {
			*calls = append(*calls, displayCall{global, strip, row})
		},
	}
}

func TestDisplay_SingleCell(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	s.DispatchSystemExclusive(sysExDisplay(0, "AN 1/2 "))

	if got := s.StripDisplay(0, 0); got != "AN 1/2" {
		t.Fatalf("expected trimmed text %q, got %q", "AN 1/2", got)
	}
	if len(calls) != 1 || calls[0] != (displayCall{false, 0, 0}) {
		t.Fatalf("unexpected events: %v", calls)
	}

	// Identical content fires nothing.
	calls = nil
	s.DispatchSystemExclusive(sysExDisplay(0, "AN 1/2 "))
	if len(calls) != 0 {
		t.Fatalf("expected no events for unchanged content, got %v", calls)
	}
}

func TestDisplay_SecondRowAddressing(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	// Strip 1, row 1; mirrors the TotalMix level readout.
	s.DispatchSystemExclusive(sysExDisplay(0x3f, "-10.0  "))

	if got := s.StripDisplay(1, 1); got != "-10.0" {
		t.Fatalf("expected %q on strip 1 row 1, got %q", "-10.0", got)
	}
	if got := s.StripDisplay(0, 1); got != "" {
		t.Fatalf("expected strip 0 row 1 untouched, got %q", got)
	}
	if len(calls) != 1 || calls[0] != (displayCall{false, 1, 1}) {
		t.Fatalf("unexpected events: %v", calls)
	}
}

func TestDisplay_FullRowChunked(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	row := "1-MIDI 2-MIDI 3-Audo 4-Audo " + "                            "
	s.DispatchSystemExclusive(sysExDisplay(0, row))

	if got := s.StripDisplay(1, 0); got != "2-MIDI" {
		t.Fatalf("expected %q, got %q", "2-MIDI", got)
	}
	if got := s.StripDisplay(4, 0); got != "" {
		t.Fatalf("expected empty cell, got %q", got)
	}

	// Only the four cells with actual text differ from the space-filled
	// initial state; rows stay per-channel.
	if len(calls) != 4 {
		t.Fatalf("expected 4 events, got %v", calls)
	}
	for _, c := range calls {
		if c.global {
			t.Fatalf("expected per-channel update, got global: %v", calls)
		}
		if c.row != 0 {
			t.Fatalf("expected row 0 only, got %v", calls)
		}
	}
}

func TestDisplay_GlobalDetection(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	// A banner overwrites the separator column of strip 3 (image index 27);
	// the whole write is flagged global, including cells whose own separator
	// is blank.
	s.DispatchSystemExclusive(sysExDisplay(14, "Mixer OnlineXY"))

	if len(calls) != 2 {
		t.Fatalf("expected events for the two changed cells, got %v", calls)
	}
	for _, c := range calls {
		if !c.global {
			t.Fatalf("expected all row-0 events global, got %v", calls)
		}
	}

	// Row 1 stays per-channel.
	calls = nil
	s.DispatchSystemExclusive(sysExDisplay(56, "Vocals "))
	if len(calls) != 1 || calls[0].global {
		t.Fatalf("expected one per-channel row-1 event, got %v", calls)
	}
}

func TestDisplay_RejectsOverrun(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	// 14 bytes at offset 105 would run past the 112-byte image.
	s.DispatchSystemExclusive(sysExDisplay(105, "AAAAAAABBBBBBB"))

	if len(calls) != 0 {
		t.Fatalf("expected the fragment to be dropped, got %v", calls)
	}
	if got := s.StripDisplay(7, 1); got != "" {
		t.Fatalf("expected no partial write, got %q", got)
	}
}

func TestDisplay_IgnoresForeignSysEx(t *testing.T) {
	var calls []displayCall
	s := NewSurface(WithHandlers(recordDisplay(&calls)))

	// Wrong vendor.
	s.DispatchSystemExclusive([]byte{0xf0, 0x00, 0x20, 0x32, 20, 18, 0, 'X', 0xf7})
	// Wrong device type.
	s.DispatchSystemExclusive([]byte{0xf0, 0x00, 0x00, 0x66, 99, 18, 0, 'X', 0xf7})
	// Unknown message type.
	s.DispatchSystemExclusive([]byte{0xf0, 0x00, 0x00, 0x66, 20, 19, 0, 'X', 0xf7})
	// Too short to carry a header.
	s.DispatchSystemExclusive([]byte{0xf0, 0x00, 0x00, 0x66, 0xf7})

	if len(calls) != 0 {
		t.Fatalf("expected foreign blocks to be ignored, got %v", calls)
	}
	if got := s.StripDisplay(0, 0); got != "" {
		t.Fatalf("expected untouched display, got %q", got)
	}
}

func TestDisplay_ExtenderDeviceAccepted(t *testing.T) {
	s := NewSurface()

	block := []byte{contracts.SysExStart}
	block = append(block, sysExVendor[:]...)
	block = append(block, deviceControlXT, sysExTypeDisplay, 7)
	block = append(block, "Bass   "...)
	block = append(block, contracts.SysExEnd)

	s.DispatchSystemExclusive(block)
	if got := s.StripDisplay(1, 0); got != "Bass" {
		t.Fatalf("expected extender updates to apply, got %q", got)
	}
}

func TestDisplay_ReadOutBounds(t *testing.T) {
	s := NewSurface()
	if got := s.StripDisplay(8, 0); got != "" {
		t.Fatalf("expected empty string for strip out of range, got %q", got)
	}
	if got := s.StripDisplay(0, 2); got != "" {
		t.Fatalf("expected empty string for row out of range, got %q", got)
	}
}

func TestSetStripText_RoundTripThroughDisplay(t *testing.T) {
	s := NewSurface()
	buffer := make([]byte, 16)

	for strip := uint8(0); strip < 8; strip++ {
		block := SetStripText(buffer, strip, 1, "Trk")
		if block == nil {
			t.Fatalf("strip %d: expected a block", strip)
		}
		s.DispatchSystemExclusive(block)
		if got := s.StripDisplay(strip, 1); got != "Trk" {
			t.Fatalf("strip %d: expected %q, got %q", strip, "Trk", got)
		}
	}
}

func TestDisplay_FullImageWrite(t *testing.T) {
	s := NewSurface()

	// Logic writes the entire display in a single block.
	image := bytes.Repeat([]byte(" "), displaySize)
	copy(image[0:], "ttt")
	copy(image[105:], "Master")

	s.DispatchSystemExclusive(sysExDisplay(0, string(image)))

	if got := s.StripDisplay(0, 0); got != "ttt" {
		t.Fatalf("expected %q, got %q", "ttt", got)
	}
	if got := s.StripDisplay(7, 1); got != "Master" {
		t.Fatalf("expected %q, got %q", "Master", got)
	}
}
