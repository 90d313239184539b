package mackie

// SMPTE is a decoded hours-minutes-seconds-frames counter value.
type SMPTE struct {
	Hours   uint16
	Minutes uint8
	Seconds uint8
	Frames  uint16
}

// Beats is a decoded bars-beats-subdivision-ticks counter value.
type Beats struct {
	Bars        uint16
	Beats       uint8
	Subdivision uint8
	Ticks       uint16
}

// Time is the decoded time/counter display. Type selects which of the two
// variants carries the value; the other is left zeroed.
type Time struct {
	Type  TimeType
	SMPTE SMPTE
	Beats Beats
}

// sevenSegment maps a raw display code to its character. The display uses a
// 64-entry code table; the dot bit is masked off, and codes below 32 encode
// the upper character range at a fixed offset.
func sevenSegment(b byte) byte {
	b &= 63

	if b < 32 {
		return b + 64
	}
	return b
}

// digitsNumber assembles a number from raw digit codes, most significant
// first. Codes that do not decode to a decimal digit contribute 0.
func digitsNumber(digits []byte) uint16 {
	var number, factor uint16 = 0, 1
	for i := 0; i < len(digits); i++ {
		var digit uint16
		if c := sevenSegment(digits[len(digits)-1-i]); c >= '0' && c <= '9' {
			digit = uint16(c - '0')
		}
		number += digit * factor
		factor *= 10
	}
	return number
}

// Time decodes the current time/counter display into the active grouping.
// The digits are grouped 3-2-2-3 for both variants.
func (s *Surface) Time() Time {
	digits := s.display.timeDigits[:]

	switch s.display.timeType {
	case TimeBeats:
		return Time{
			Type: TimeBeats,
			Beats: Beats{
				Bars:        digitsNumber(digits[0:3]),
				Beats:       uint8(digitsNumber(digits[3:5])),
				Subdivision: uint8(digitsNumber(digits[5:7])),
				Ticks:       digitsNumber(digits[7:10]),
			},
		}

	default:
		return Time{
			Type: TimeSMPTE,
			SMPTE: SMPTE{
				Hours:   digitsNumber(digits[0:3]),
				Minutes: uint8(digitsNumber(digits[3:5])),
				Seconds: uint8(digitsNumber(digits[5:7])),
				Frames:  digitsNumber(digits[7:10]),
			},
		}
	}
}
