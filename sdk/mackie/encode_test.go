package mackie

import (
	"bytes"
	"math"
	"testing"

	"github.com/surfacekit/mcu/sdk/contracts"
)

func TestSetStripFader_RoundTrip(t *testing.T) {
	for strip := uint8(0); strip < 8; strip++ {
		for _, fraction := range []float32{0, 0.25, 0.5, 0.62, 0.99, 1} {
			var got float32 = -1
			s := NewSurface(WithHandlers(Handlers{
				StripFader: func(_ uint8, f float32) { got = f },
			}))

			p := SetStripFader(&contracts.Packet{}, strip, fraction)
			if p == nil {
				t.Fatalf("strip %d fraction %v: expected a packet", strip, fraction)
			}
			if p.Channel() != strip {
				t.Fatalf("strip %d: expected pitch bend channel %d, got %d", strip, strip, p.Channel())
			}

			s.Dispatch(p)
			if math.Abs(float64(got-fraction)) > 1.0/16368 {
				t.Fatalf("strip %d: sent %v, decoded %v", strip, fraction, got)
			}
			if pos := s.Strip(strip).Fader.Position; pos != got {
				t.Fatalf("strip %d: state %v does not match notification %v", strip, pos, got)
			}
		}
	}
}

func TestSetFader_MainChannel(t *testing.T) {
	var got float32 = -1
	s := NewSurface(WithHandlers(Handlers{
		Fader: func(f float32) { got = f },
	}))

	p := SetFader(&contracts.Packet{}, 1)
	if p.Channel() != 8 {
		t.Fatalf("expected main fader channel 8, got %d", p.Channel())
	}
	if p.PitchBend() != 8176 {
		t.Fatalf("expected full-scale value 8176, got %d", p.PitchBend())
	}

	s.Dispatch(p)
	if got != 1 {
		t.Fatalf("expected fraction 1, got %v", got)
	}
	if s.MainFader() != 1 {
		t.Fatalf("expected main fader state 1, got %v", s.MainFader())
	}
}

func TestSetStripButton_Notes(t *testing.T) {
	cases := []struct {
		button StripButton
		note   uint8
	}{
		{StripButtonArm, 0},
		{StripButtonSolo, 8},
		{StripButtonMute, 16},
		{StripButtonSelect, 24},
		{StripButtonVPot, 32},
		{StripButtonTouch, 104},
	}

	for _, c := range cases {
		p := SetStripButton(&contracts.Packet{}, 3, c.button, true)
		if p == nil {
			t.Fatalf("button %d: expected a packet", c.button)
		}
		if p.Note() != c.note+3 {
			t.Fatalf("button %d: expected note %d, got %d", c.button, c.note+3, p.Note())
		}
		if p.NoteVelocity() != 127 {
			t.Fatalf("button %d: expected velocity 127, got %d", c.button, p.NoteVelocity())
		}

		p = SetStripButton(&contracts.Packet{}, 3, c.button, false)
		if p.NoteVelocity() != 0 {
			t.Fatalf("button %d: expected velocity 0, got %d", c.button, p.NoteVelocity())
		}
	}

	if p := SetStripButton(&contracts.Packet{}, 0, StripButton(99), true); p != nil {
		t.Fatalf("expected nil for unknown button, got %v", p)
	}
}

func TestSetFunctionButton_Range(t *testing.T) {
	p := SetFunctionButton(&contracts.Packet{}, 15, true)
	if p == nil || p.Note() != 69 {
		t.Fatalf("expected F16 on note 69, got %v", p)
	}
	if p := SetFunctionButton(&contracts.Packet{}, 16, true); p != nil {
		t.Fatalf("expected nil for function key out of range")
	}
}

func TestSetStripMeter_Packing(t *testing.T) {
	p := SetStripMeter(&contracts.Packet{}, 3, 1)
	if p.AftertouchChannel() != 3<<4|12 {
		t.Fatalf("expected packed value 0x3c, got %#x", p.AftertouchChannel())
	}

	p = SetStripMeterOverload(&contracts.Packet{}, 3, true)
	if p.AftertouchChannel() != 3<<4|14 {
		t.Fatalf("expected packed value 0x3e, got %#x", p.AftertouchChannel())
	}

	p = SetStripMeterOverload(&contracts.Packet{}, 3, false)
	if p.AftertouchChannel() != 3<<4|15 {
		t.Fatalf("expected packed value 0x3f, got %#x", p.AftertouchChannel())
	}
}

func TestSetStripText_Block(t *testing.T) {
	buffer := make([]byte, 16)

	block := SetStripText(buffer, 0, 0, "AN 1/2")
	want := []byte{0xf0, 0x00, 0x00, 0x66, 20, 18, 0, 'A', 'N', ' ', '1', '/', '2', ' ', 0xf7}
	if !bytes.Equal(block, want) {
		t.Fatalf("unexpected block:\n got %#v\nwant %#v", block, want)
	}

	// Offset addresses row 1, strip 3; overlong text is truncated.
	block = SetStripText(buffer, 3, 1, "0123456789")
	if block[6] != 56+21 {
		t.Fatalf("expected offset 77, got %d", block[6])
	}
	if !bytes.Equal(block[7:14], []byte("0123456")) {
		t.Fatalf("expected truncated text, got %q", block[7:14])
	}

	if block := SetStripText(make([]byte, 4), 0, 0, "x"); block != nil {
		t.Fatalf("expected nil for undersized buffer")
	}
}

func TestSetStripIndex_RoundTrip(t *testing.T) {
	prototypes := []*contracts.Packet{
		SetStripButton(&contracts.Packet{}, 2, StripButtonVPot, true),
		SetStripButton(&contracts.Packet{}, 2, StripButtonSolo, false),
		(&contracts.Packet{}).SetNoteOff(0, noteMute+2),
		SetStripVPotDisplay(&contracts.Packet{}, 2, 0x46),
		SetStripMeter(&contracts.Packet{}, 2, 0.5),
		SetStripFader(&contracts.Packet{}, 2, 0.73),
	}

	for i, proto := range prototypes {
		original := proto.Raw

		if p := SetStripIndex(proto, 5); p == nil {
			t.Fatalf("case %d: rewrite to strip 5 failed", i)
		}
		if p := SetStripIndex(proto, 2); p == nil {
			t.Fatalf("case %d: rewrite back to strip 2 failed", i)
		}

		if proto.Raw != original {
			t.Fatalf("case %d: round trip changed the message: %#v != %#v", i, proto.Raw, original)
		}
	}
}

func TestSetStripIndex_RejectsUnknown(t *testing.T) {
	// A transport button is not a per-strip message.
	p := SetTransportButton(&contracts.Packet{}, TransportPlay, true)
	if got := SetStripIndex(p, 3); got != nil {
		t.Fatalf("expected nil for non-strip note, got %v", got)
	}

	// Per-strip notes are only valid on channel 0.
	p = (&contracts.Packet{}).SetNote(1, noteArm+1, 127)
	if got := SetStripIndex(p, 3); got != nil {
		t.Fatalf("expected nil for wrong channel, got %v", got)
	}

	// Main fader pitch bend is not a strip fader.
	p = SetFader(&contracts.Packet{}, 0.5)
	if got := SetStripIndex(p, 3); got != nil {
		t.Fatalf("expected nil for main fader, got %v", got)
	}

	// Meter messages addressing a strip nibble above 7 are invalid.
	p = (&contracts.Packet{}).SetAftertouchChannel(0, 9<<4|3)
	if got := SetStripIndex(p, 3); got != nil {
		t.Fatalf("expected nil for out-of-range meter strip, got %v", got)
	}

	if got := SetStripIndex(SetStripMeter(&contracts.Packet{}, 1, 0.5), 8); got != nil {
		t.Fatalf("expected nil for target strip out of range, got %v", got)
	}
}
