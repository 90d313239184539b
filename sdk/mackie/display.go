package mackie

import "bytes"

// displayImage is the reconstructed state of the surface's displays: the
// 2x56 character LCD, the two 7-segment assignment digits and the ten
// 7-segment time/counter digits. Digit buffers hold raw display codes; they
// are decoded on demand.
type displayImage struct {
	image      [displaySize]byte
	modeDigits [modeDigitCount]byte
	timeType   TimeType
	timeDigits [timeDigitCount]byte
}

func (d *displayImage) reset() {
	*d = displayImage{}
	for i := range d.image {
		d.image[i] = ' '
	}
}

// DispatchSystemExclusive consumes one complete, framed System Exclusive
// block. Blocks that do not carry a recognized vendor ID, device type and
// message type are silently ignored.
func (s *Surface) DispatchSystemExclusive(buffer []byte) {
	// Start byte, 5 header bytes, display offset, end byte.
	if len(buffer) < 8 {
		return
	}

	// Strip the SysEx framing.
	payload := buffer[1 : len(buffer)-1]

	if !bytes.Equal(payload[:len(sysExVendor)], sysExVendor[:]) {
		return
	}

	device := payload[sysExDeviceOffset]
	if device != deviceControl && device != deviceControlXT {
		return
	}

	switch payload[sysExTypeOffset] {
	case sysExTypeDisplay:
		s.dispatchDisplay(payload[sysExPayloadOffset:])

	default:
		s.logger.Debug("mackie: ignoring sysex message type",
			s.logger.Field().Uint8("type", payload[sysExTypeOffset]))
	}
}

// dispatchDisplay reassembles the display image from a text fragment at an
// absolute offset. Hosts send anything from a single 7-character cell
// (TotalMix) to the entire 112-character display in one block (Ableton,
// Logic); per-strip change events are generated for the touched cells only.
func (s *Surface) dispatchDisplay(payload []byte) {
	offset := int(payload[0])
	text := payload[1:]

	// Fragments that would overrun the image are dropped, not truncated.
	if offset+len(text) > displaySize {
		return
	}
	copy(s.display.image[offset:], text)

	// Guess whether a row shows a global message which is not related to the
	// channel strips; a genuine per-strip update leaves the separator column
	// of every cell blank.
	var global [displayRows]bool
	for row := 0; row < displayRows; row++ {
		for cell := row * 8; cell < (row+1)*8; cell++ {
			if s.display.image[cell*displayCell+displayCell-1] != ' ' {
				global[row] = true
				break
			}
		}
	}

	// Walk the 7-character cells touched by the fragment.
	first := offset / displayCell
	last := (offset + len(text)) / displayCell
	if last > displayRows*8-1 {
		last = displayRows*8 - 1
	}

	for cell := first; cell <= last; cell++ {
		strip := uint8(cell % 8)
		row := uint8(cell / 8)

		content := s.display.image[cell*displayCell : (cell+1)*displayCell]
		known := &s.strips[strip].display[row]
		if bytes.Equal(content, known[:]) {
			continue
		}

		copy(known[:], content)
		if s.handlers.StripDisplay != nil {
			s.handlers.StripDisplay(global[row], strip, row)
		}
	}
}

// StripDisplay returns the current text of one strip cell with trailing
// spaces trimmed, at most 7 characters. Out-of-range indices return "".
func (s *Surface) StripDisplay(strip, row uint8) string {
	if strip > 7 || row >= displayRows {
		return ""
	}

	start := displayColumns*int(row) + displayCell*int(strip)
	cell := s.display.image[start : start+displayCell]
	return string(bytes.TrimRight(cell, " "))
}

// ModeDigits returns the raw 7-segment codes of the two assignment digits,
// most significant first.
func (s *Surface) ModeDigits() [modeDigitCount]byte {
	return s.display.modeDigits
}
