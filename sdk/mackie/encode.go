package mackie

import (
	"math"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// The encoders below shape a caller-supplied prototype packet into the
// requested protocol message and return it. They return nil for semantic
// parameters the protocol cannot express; the packet is left untouched in
// that case.

// faderValue maps a fraction 0..1 onto the pitch bend range -8192..8176.
func faderValue(fraction float32) int16 {
	return int16(math.Round(float64(fraction)*(8176+8192))) - 8192
}

// SetStripFader shapes the packet into a strip fader move. The fader position
// is carried as pitch bend on the strip's channel.
func SetStripFader(packet *contracts.Packet, strip uint8, fraction float32) *contracts.Packet {
	return packet.SetPitchBend(strip, faderValue(fraction))
}

// SetFader shapes the packet into a main fader move.
func SetFader(packet *contracts.Packet, fraction float32) *contracts.Packet {
	return packet.SetPitchBend(mainFaderChannel, faderValue(fraction))
}

// SetTouch shapes the packet into a main fader touch event.
func SetTouch(packet *contracts.Packet, on bool) *contracts.Packet {
	return packet.SetNote(0, noteMainTouch, onVelocity(on))
}

// SetStripVPotDisplay shapes the packet into a raw LED ring update; value is
// the packed 7-bit ring code, passed through verbatim.
func SetStripVPotDisplay(packet *contracts.Packet, strip uint8, value uint8) *contracts.Packet {
	return packet.SetControlChange(0, ccVPotLED+strip, value)
}

// SetStripMeter shapes the packet into a meter update; the fraction 0..1 is
// quantized to the 13 LED levels and packed with the strip index.
func SetStripMeter(packet *contracts.Packet, strip uint8, fraction float32) *contracts.Packet {
	value := uint8(fraction * 12)
	return packet.SetAftertouchChannel(0, strip<<4|value)
}

// SetStripMeterOverload shapes the packet into an overload set/clear message.
// Overload state is independent of the meter level; setting or clearing it
// does not touch the current level.
func SetStripMeterOverload(packet *contracts.Packet, strip uint8, overload bool) *contracts.Packet {
	value := uint8(15)
	if overload {
		value = 14
	}
	return packet.SetAftertouchChannel(0, strip<<4|value)
}

// SetStripButton shapes the packet into a per-strip button event.
func SetStripButton(packet *contracts.Packet, strip uint8, button StripButton, on bool) *contracts.Packet {
	var base uint8
	switch button {
	case StripButtonVPot:
		base = noteVPotPush
	case StripButtonArm:
		base = noteArm
	case StripButtonMute:
		base = noteMute
	case StripButtonSelect:
		base = noteSelect
	case StripButtonSolo:
		base = noteSolo
	case StripButtonTouch:
		base = noteFaderTouch
	default:
		return nil
	}
	return packet.SetNote(0, base+strip, onVelocity(on))
}

// SetTransportButton shapes the packet into a transport button event.
func SetTransportButton(packet *contracts.Packet, button TransportButton, on bool) *contracts.Packet {
	var note uint8
	switch button {
	case TransportRewind:
		note = noteRewind
	case TransportForward:
		note = noteForward
	case TransportStop:
		note = noteStop
	case TransportPlay:
		note = notePlay
	case TransportRecord:
		note = noteRecord
	default:
		return nil
	}
	return packet.SetNote(0, note, onVelocity(on))
}

// SetBankButton shapes the packet into a bank navigation button event.
func SetBankButton(packet *contracts.Packet, button BankButton, on bool) *contracts.Packet {
	var note uint8
	switch button {
	case BankPrevious:
		note = noteBankPrevious
	case BankNext:
		note = noteBankNext
	case BankPreviousChannel:
		note = notePreviousChannel
	case BankNextChannel:
		note = noteNextChannel
	case BankFlip:
		note = noteFlip
	case BankEdit:
		note = noteEdit
	default:
		return nil
	}
	return packet.SetNote(0, note, onVelocity(on))
}

// SetModifierButton shapes the packet into a modifier button event.
func SetModifierButton(packet *contracts.Packet, button ModifierButton, on bool) *contracts.Packet {
	var note uint8
	switch button {
	case ModifierShift:
		note = noteShift
	case ModifierOption:
		note = noteOption
	case ModifierControl:
		note = noteControl
	case ModifierAlt:
		note = noteAlt
	default:
		return nil
	}
	return packet.SetNote(0, note, onVelocity(on))
}

// SetNavigationButton shapes the packet into a navigation button event.
func SetNavigationButton(packet *contracts.Packet, button NavigationButton, on bool) *contracts.Packet {
	var note uint8
	switch button {
	case NavigationUp:
		note = noteUp
	case NavigationDown:
		note = noteDown
	case NavigationLeft:
		note = noteLeft
	case NavigationRight:
		note = noteRight
	case NavigationZoom:
		note = noteZoom
	case NavigationScrub:
		note = noteScrub
	default:
		return nil
	}
	return packet.SetNote(0, note, onVelocity(on))
}

// SetFunctionButton shapes the packet into a function key event; function is
// the zero-based key index F1..F16.
func SetFunctionButton(packet *contracts.Packet, function uint8, on bool) *contracts.Packet {
	if function >= functionKeyCount {
		return nil
	}
	return packet.SetNote(0, noteFunction+function, onVelocity(on))
}

// SetStripText builds a complete System Exclusive display update for one
// strip cell into the caller-supplied buffer and returns the framed block.
// The text is truncated to 7 characters and space-padded to exactly 7 bytes.
// Returns nil if the buffer is too small.
func SetStripText(buffer []byte, strip, row uint8, text string) []byte {
	const blockLen = 1 + len(sysExVendor) + 1 + 1 + 1 + displayCell + 1
	if cap(buffer) < blockLen {
		return nil
	}

	b := buffer[:0]
	b = append(b, contracts.SysExStart)
	b = append(b, sysExVendor[:]...)
	b = append(b, deviceControl, sysExTypeDisplay)
	b = append(b, displayColumns*row+displayCell*strip)

	if len(text) > displayCell {
		text = text[:displayCell]
	}
	b = append(b, text...)
	for i := len(text); i < displayCell; i++ {
		b = append(b, ' ')
	}

	return append(b, contracts.SysExEnd)
}

// stripNoteBase reports which per-strip note family the note belongs to.
func stripNoteBase(note uint8) (uint8, bool) {
	for _, base := range [...]uint8{noteVPotPush, noteArm, noteSolo, noteMute, noteSelect, noteFaderTouch} {
		if note >= base && note < base+8 {
			return base, true
		}
	}
	return 0, false
}

// SetStripIndex rewrites a per-strip message to target a different strip,
// preserving the payload. It recognizes the per-strip note families, the VPot
// LED controllers, the meter aftertouch encoding and the strip pitch bend
// channels; any other message yields nil.
func SetStripIndex(packet *contracts.Packet, strip uint8) *contracts.Packet {
	if strip > 7 {
		return nil
	}

	switch packet.Type() {
	case contracts.StatusNoteOn:
		if packet.Channel() != 0 {
			return nil
		}
		if base, ok := stripNoteBase(packet.Note()); ok {
			return packet.SetNote(0, base+strip, packet.NoteVelocity())
		}

	case contracts.StatusNoteOff:
		if packet.Channel() != 0 {
			return nil
		}
		if base, ok := stripNoteBase(packet.Note()); ok {
			return packet.SetNoteOff(0, base+strip)
		}

	case contracts.StatusControlChange:
		if packet.Channel() != 0 {
			return nil
		}
		if c := packet.Controller(); c >= ccVPotLED && c < ccVPotLED+8 {
			return packet.SetControlChange(0, ccVPotLED+strip, packet.ControllerValue())
		}

	case contracts.StatusAftertouchChannel:
		if packet.Channel() != 0 {
			return nil
		}
		if packet.AftertouchChannel()>>4 > 7 {
			return nil
		}
		value := packet.AftertouchChannel() & 0xf
		return packet.SetAftertouchChannel(0, strip<<4|value)

	case contracts.StatusPitchBend:
		if packet.Channel() <= 7 {
			return packet.SetPitchBend(strip, packet.PitchBend())
		}
	}

	return nil
}

func onVelocity(on bool) uint8 {
	if on {
		return 127
	}
	return 0
}
