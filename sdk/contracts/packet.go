package contracts

// Status represents the high nibble of a channel voice message status byte.
type Status byte

const (
	// StatusNoteOff is the status for a Note Off event (0x80).
	StatusNoteOff Status = 0x80
	// StatusNoteOn is the status for a Note On event (0x90).
	StatusNoteOn Status = 0x90
	// StatusAftertouch is the status for a polyphonic key pressure event (0xA0).
	StatusAftertouch Status = 0xA0
	// StatusControlChange is the status for a Control Change event (0xB0).
	StatusControlChange Status = 0xB0
	// StatusProgramChange is the status for a Program Change event (0xC0).
	StatusProgramChange Status = 0xC0
	// StatusAftertouchChannel is the status for a channel pressure event (0xD0).
	StatusAftertouchChannel Status = 0xD0
	// StatusPitchBend is the status for a Pitch Bend event (0xE0).
	StatusPitchBend Status = 0xE0
)

// SysExStart and SysExEnd frame a System Exclusive byte block.
const (
	SysExStart byte = 0xF0
	SysExEnd   byte = 0xF7
)

// Packet is a single channel voice message: one status byte and two data
// bytes, plus the capture timestamp. The zero value is an empty packet that
// can be reused as the prototype for any of the Set* builders.
type Packet struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred.
	Raw       [3]byte
}

// Type returns the status of the message with the channel bits masked off.
func (p *Packet) Type() Status {
	return Status(p.Raw[0] & 0xf0)
}

// Channel returns the 4-bit channel of the message, 0-15.
func (p *Packet) Channel() uint8 {
	return p.Raw[0] & 0x0f
}

// Note returns the note number of a Note On / Note Off message.
func (p *Packet) Note() uint8 {
	return p.Raw[1]
}

// NoteVelocity returns the velocity of a Note On message.
func (p *Packet) NoteVelocity() uint8 {
	return p.Raw[2]
}

// Controller returns the controller number of a Control Change message.
func (p *Packet) Controller() uint8 {
	return p.Raw[1]
}

// ControllerValue returns the 7-bit value of a Control Change message.
func (p *Packet) ControllerValue() uint8 {
	return p.Raw[2]
}

// AftertouchChannel returns the 7-bit value of a channel pressure message.
func (p *Packet) AftertouchChannel() uint8 {
	return p.Raw[1]
}

// PitchBend returns the signed 14-bit value of a Pitch Bend message,
// -8192..8191.
func (p *Packet) PitchBend() int16 {
	value := int16(p.Raw[1]&0x7f) | int16(p.Raw[2]&0x7f)<<7
	return value - 8192
}

// SetNote shapes the packet into a Note On message and returns it.
func (p *Packet) SetNote(channel, note, velocity uint8) *Packet {
	p.Raw[0] = byte(StatusNoteOn) | channel&0x0f
	p.Raw[1] = note & 0x7f
	p.Raw[2] = velocity & 0x7f
	return p
}

// SetNoteOff shapes the packet into a Note Off message and returns it.
func (p *Packet) SetNoteOff(channel, note uint8) *Packet {
	p.Raw[0] = byte(StatusNoteOff) | channel&0x0f
	p.Raw[1] = note & 0x7f
	p.Raw[2] = 0
	return p
}

// SetControlChange shapes the packet into a Control Change message and
// returns it.
func (p *Packet) SetControlChange(channel, controller, value uint8) *Packet {
	p.Raw[0] = byte(StatusControlChange) | channel&0x0f
	p.Raw[1] = controller & 0x7f
	p.Raw[2] = value & 0x7f
	return p
}

// SetAftertouchChannel shapes the packet into a channel pressure message and
// returns it.
func (p *Packet) SetAftertouchChannel(channel, value uint8) *Packet {
	p.Raw[0] = byte(StatusAftertouchChannel) | channel&0x0f
	p.Raw[1] = value & 0x7f
	p.Raw[2] = 0
	return p
}

// SetPitchBend shapes the packet into a Pitch Bend message carrying the
// signed 14-bit value -8192..8191 and returns it.
func (p *Packet) SetPitchBend(channel uint8, value int16) *Packet {
	unsigned := uint16(value + 8192)
	p.Raw[0] = byte(StatusPitchBend) | channel&0x0f
	p.Raw[1] = byte(unsigned & 0x7f)
	p.Raw[2] = byte(unsigned >> 7 & 0x7f)
	return p
}
