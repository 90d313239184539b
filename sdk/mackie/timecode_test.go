package mackie

import (
	"testing"

	"github.com/surfacekit/mcu/sdk/contracts"
)

// sendDigits writes raw 7-segment codes onto the time controllers; codes[0]
// is the most significant digit, carried by the highest controller.
func sendDigits(s *Surface, codes [timeDigitCount]byte) {
	for i, code := range codes {
		controller := ccTimeDigit + uint8(timeDigitCount-1-i)
		s.Dispatch((&contracts.Packet{}).SetControlChange(0, controller, code))
	}
}

func TestTime_SMPTEDecode(t *testing.T) {
	var updates []TimeType

	s := NewSurface(WithHandlers(Handlers{
		Time: func(timeType TimeType) { updates = append(updates, timeType) },
	}))

	// 012:34:56:078 in plain ASCII digit codes.
	sendDigits(s, [timeDigitCount]byte{'0', '1', '2', '3', '4', '5', '6', '0', '7', '8'})

	got := s.Time()
	if got.Type != TimeSMPTE {
		t.Fatalf("expected SMPTE, got %v", got.Type)
	}
	want := SMPTE{Hours: 12, Minutes: 34, Seconds: 56, Frames: 78}
	if got.SMPTE != want {
		t.Fatalf("expected %+v, got %+v", want, got.SMPTE)
	}

	if len(updates) != timeDigitCount {
		t.Fatalf("expected one notification per digit, got %d", len(updates))
	}
	for _, u := range updates {
		if u != TimeSMPTE {
			t.Fatalf("expected SMPTE tag on every update, got %v", updates)
		}
	}
}

func TestTime_BeatsToggle(t *testing.T) {
	s := NewSurface()

	// A press on the SMPTE/Beats note flips the grouping; the release is
	// inert.
	s.Dispatch((&contracts.Packet{}).SetNote(0, noteSMPTEBeats, 127))
	s.Dispatch((&contracts.Packet{}).SetNoteOff(0, noteSMPTEBeats))

	sendDigits(s, [timeDigitCount]byte{'0', '0', '4', '0', '2', '0', '3', '2', '4', '0'})

	got := s.Time()
	if got.Type != TimeBeats {
		t.Fatalf("expected Beats after toggle, got %v", got.Type)
	}
	want := Beats{Bars: 4, Beats: 2, Subdivision: 3, Ticks: 240}
	if got.Beats != want {
		t.Fatalf("expected %+v, got %+v", want, got.Beats)
	}

	s.Dispatch((&contracts.Packet{}).SetNote(0, noteSMPTEBeats, 127))
	if got := s.Time(); got.Type != TimeSMPTE {
		t.Fatalf("expected a second press to flip back, got %v", got.Type)
	}
}

func TestTime_SegmentCodes(t *testing.T) {
	s := NewSurface()

	// The dot bit is masked off; codes below 32 map into the letter range
	// and contribute 0, as do blanks.
	sendDigits(s, [timeDigitCount]byte{
		' ', ' ', '1' | 64, // dot-marked '1'
		1, '5', // code 1 decodes to 'A', not a digit
		' ', '7',
		' ', ' ', '9',
	})

	got := s.Time().SMPTE
	want := SMPTE{Hours: 1, Minutes: 5, Seconds: 7, Frames: 9}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTime_ModeDigits(t *testing.T) {
	s := NewSurface()

	// Reverse order: the higher controller carries the most significant
	// digit.
	s.Dispatch((&contracts.Packet{}).SetControlChange(0, ccModeDigit, 'n'))
	s.Dispatch((&contracts.Packet{}).SetControlChange(0, ccModeDigit+1, 'P'))

	if got := s.ModeDigits(); got != [modeDigitCount]byte{'P', 'n'} {
		t.Fatalf("expected mode digits Pn, got %q", got)
	}
}
