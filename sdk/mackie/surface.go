package mackie

import (
	"time"

	"github.com/surfacekit/mcu/internal/logger"
	"github.com/surfacekit/mcu/sdk/contracts"
)

const (
	// A timeout is raised after the periodic ping messages stop.
	pingTimeout = 5 * time.Second

	// Meters decay to zero after the host stops refreshing them.
	meterDecayAfter = time.Second
)

// Handlers is the set of notification callbacks a host can register with a
// Surface. Nil fields are simply not called; a host implements only the
// subset it needs.
type Handlers struct {
	// StripVPot reports the decoded LED ring state of a strip.
	StripVPot func(strip uint8, mode VPotMode, center bool, fraction float32)

	// StripVPotRaw reports the packed 7-bit ring code verbatim. It fires
	// before StripVPot for the same message.
	StripVPotRaw func(strip uint8, value uint8)

	StripButton func(strip uint8, button StripButton, on bool)
	StripFader  func(strip uint8, fraction float32)
	StripMeter  func(strip uint8, fraction float32, overload bool)

	// StripMeterOverload fires only on overload transitions.
	StripMeterOverload func(strip uint8, overload bool)

	// StripDisplay reports that the 7-character text cell of a strip row
	// changed. Display updates chunked across several strips fire once per
	// changed cell. The global flag marks rows that appear to carry a
	// banner-style message instead of per-strip labels.
	StripDisplay func(global bool, strip, row uint8)

	// Fader reports the main fader.
	Fader func(fraction float32)

	TransportButton  func(button TransportButton, on bool)
	BankButton       func(button BankButton, on bool)
	ModifierButton   func(button ModifierButton, on bool)
	NavigationButton func(button NavigationButton, on bool)
	Jog              func(clockwise bool)
	UserSwitch       func(sw UserSwitch, on bool)

	// Time reports a time/counter display update; the decoded digits are
	// available through Surface.Time.
	Time func(timeType TimeType)

	// Timeout fires once when ping messages stop arriving. It does not
	// re-fire until another ping restarts the timer.
	Timeout func()
}

// VPotState is the last decoded LED ring and push-button state of a strip.
type VPotState struct {
	Mode   VPotMode
	Center bool
	Value  float32
	Click  bool
}

// FaderState is the last known fader position and touch state of a strip.
type FaderState struct {
	Position float32
	Touch    bool
}

// ButtonState holds the latched per-strip button states.
type ButtonState struct {
	Arm    bool
	Mute   bool
	Select bool
	Solo   bool
}

// MeterState is the last known meter level of a strip. Overload is tracked
// independently of the level.
type MeterState struct {
	Fraction float32
	Overload bool
}

// StripState is a snapshot of one channel strip's mirrored state.
type StripState struct {
	VPot   VPotState
	Fader  FaderState
	Button ButtonState
	Meter  MeterState
}

// BankState holds the latched bank toggles.
type BankState struct {
	Flip bool
	Edit bool
}

// TransportState holds the latched transport toggles.
type TransportState struct {
	Rewind  bool
	Forward bool
	Stop    bool
	Play    bool
	Record  bool
}

type channelStrip struct {
	// Last known content of the two display rows, kept for change detection.
	display [displayRows][displayCell]byte

	vpot    VPotState
	fader   FaderState
	button  ButtonState
	meter   MeterState
	meterAt time.Time
}

// Surface decodes inbound protocol messages, mirrors the state of the 8-strip
// control surface, and notifies the registered handlers. A Surface is not
// safe for concurrent use; Dispatch, DispatchSystemExclusive and Tick must be
// serialized by the caller.
type Surface struct {
	handlers Handlers
	clock    func() time.Time
	logger   contracts.Logger

	// Liveness; the zero time means no ping has been seen.
	activeAt time.Time

	display displayImage
	strips  [8]channelStrip

	mainFader float32
	bank      BankState
	transport TransportState
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithHandlers registers the notification callbacks.
func WithHandlers(handlers Handlers) SurfaceOption {
	return func(s *Surface) {
		s.handlers = handlers
	}
}

// SetHandlers replaces the notification callbacks. Callbacks that need to
// read Surface state back can be installed after construction this way.
func (s *Surface) SetHandlers(handlers Handlers) {
	s.handlers = handlers
}

// WithClock replaces the monotonic clock source, mainly for tests.
func WithClock(clock func() time.Time) SurfaceOption {
	return func(s *Surface) {
		s.clock = clock
	}
}

// WithSurfaceLogger sets the logger used for dropped/ignored input.
func WithSurfaceLogger(l contracts.Logger) SurfaceOption {
	return func(s *Surface) {
		s.logger = l
	}
}

// NewSurface creates a Surface with zeroed strip state and a space-filled
// display image.
func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{
		clock:  time.Now,
		logger: logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset restores the initial state: all strip state zeroed, the display image
// space-filled, bank and transport toggles cleared, liveness cleared.
func (s *Surface) Reset() {
	s.activeAt = time.Time{}
	s.display.reset()
	s.strips = [8]channelStrip{}
	for i := range s.strips {
		for row := range s.strips[i].display {
			for col := range s.strips[i].display[row] {
				s.strips[i].display[row][col] = ' '
			}
		}
	}
	s.mainFader = 0
	s.bank = BankState{}
	s.transport = TransportState{}
}

// Tick drives the liveness timeout and the meter decay. The owner invokes it
// periodically, at 10 Hz or faster for accurate timing.
func (s *Surface) Tick() {
	now := s.clock()

	if !s.activeAt.IsZero() && now.Sub(s.activeAt) > pingTimeout {
		s.activeAt = time.Time{}
		if s.handlers.Timeout != nil {
			s.handlers.Timeout()
		}
	}

	for i := range s.strips {
		strip := &s.strips[i]
		if strip.meter.Fraction <= 0 {
			continue
		}
		if now.Sub(strip.meterAt) < meterDecayAfter {
			continue
		}

		strip.meter = MeterState{}
		strip.meterAt = time.Time{}
		if s.handlers.StripMeter != nil {
			s.handlers.StripMeter(uint8(i), 0, false)
		}
	}
}

// Dispatch consumes one inbound channel voice message, updates the mirrored
// state and fires the matching notifications. Unrecognized messages are
// silently ignored.
func (s *Surface) Dispatch(packet *contracts.Packet) {
	switch packet.Type() {
	case contracts.StatusNoteOn:
		s.dispatchNote(packet.Channel(), packet.Note(), packet.NoteVelocity())

	case contracts.StatusNoteOff:
		s.dispatchNote(packet.Channel(), packet.Note(), 0)

	case contracts.StatusControlChange:
		s.dispatchControlChange(packet.Channel(), packet.Controller(), packet.ControllerValue())

	case contracts.StatusAftertouchChannel:
		s.dispatchAftertouchChannel(packet.Channel(), packet.AftertouchChannel())

	case contracts.StatusPitchBend:
		s.dispatchPitchBend(packet.Channel(), packet.PitchBend())

	default:
		s.logger.Debug("mackie: ignoring message type",
			s.logger.Field().Uint8("status", uint8(packet.Type())))
	}
}

func (s *Surface) dispatchNote(channel, note, velocity uint8) {
	if channel == pingChannel {
		if note == pingNote {
			s.activeAt = s.clock()
		}
		return
	}

	if channel != 0 {
		return
	}

	on := velocity == 127

	switch {
	case note >= noteVPotPush && note < noteVPotPush+8:
		strip := note - noteVPotPush
		s.strips[strip].vpot.Click = on
		s.fireStripButton(strip, StripButtonVPot, on)

	case note >= noteArm && note < noteArm+8:
		strip := note - noteArm
		s.strips[strip].button.Arm = on
		s.fireStripButton(strip, StripButtonArm, on)

	case note >= noteSolo && note < noteSolo+8:
		strip := note - noteSolo
		s.strips[strip].button.Solo = on
		s.fireStripButton(strip, StripButtonSolo, on)

	case note >= noteMute && note < noteMute+8:
		strip := note - noteMute
		s.strips[strip].button.Mute = on
		s.fireStripButton(strip, StripButtonMute, on)

	case note >= noteSelect && note < noteSelect+8:
		strip := note - noteSelect
		s.strips[strip].button.Select = on
		s.fireStripButton(strip, StripButtonSelect, on)

	case note >= noteFaderTouch && note < noteFaderTouch+8:
		strip := note - noteFaderTouch
		s.strips[strip].fader.Touch = on
		s.fireStripButton(strip, StripButtonTouch, on)

	default:
		s.dispatchSingleNote(note, on)
	}
}

// dispatchSingleNote handles the fixed, non-strip notes.
func (s *Surface) dispatchSingleNote(note uint8, on bool) {
	switch note {
	case noteRewind:
		s.transport.Rewind = on
		s.fireTransportButton(TransportRewind, on)

	case noteForward:
		s.transport.Forward = on
		s.fireTransportButton(TransportForward, on)

	case noteStop:
		s.transport.Stop = on
		s.fireTransportButton(TransportStop, on)

	case notePlay:
		s.transport.Play = on
		s.fireTransportButton(TransportPlay, on)

	case noteRecord:
		s.transport.Record = on
		s.fireTransportButton(TransportRecord, on)

	case noteBankPrevious:
		s.fireBankButton(BankPrevious, on)

	case noteBankNext:
		s.fireBankButton(BankNext, on)

	case notePreviousChannel:
		s.fireBankButton(BankPreviousChannel, on)

	case noteNextChannel:
		s.fireBankButton(BankNextChannel, on)

	case noteFlip:
		s.bank.Flip = on
		s.fireBankButton(BankFlip, on)

	case noteEdit:
		s.bank.Edit = on
		s.fireBankButton(BankEdit, on)

	case noteShift:
		s.fireModifierButton(ModifierShift, on)

	case noteOption:
		s.fireModifierButton(ModifierOption, on)

	case noteControl:
		s.fireModifierButton(ModifierControl, on)

	case noteAlt:
		s.fireModifierButton(ModifierAlt, on)

	case noteUp:
		s.fireNavigationButton(NavigationUp, on)

	case noteDown:
		s.fireNavigationButton(NavigationDown, on)

	case noteLeft:
		s.fireNavigationButton(NavigationLeft, on)

	case noteRight:
		s.fireNavigationButton(NavigationRight, on)

	case noteZoom:
		s.fireNavigationButton(NavigationZoom, on)

	case noteScrub:
		s.fireNavigationButton(NavigationScrub, on)

	case noteUserSwitch1:
		if s.handlers.UserSwitch != nil {
			s.handlers.UserSwitch(UserSwitch1, on)
		}

	case noteUserSwitch2:
		if s.handlers.UserSwitch != nil {
			s.handlers.UserSwitch(UserSwitch2, on)
		}

	case noteSMPTEBeats:
		// A press toggles the counter between SMPTE and Beats grouping.
		if !on {
			return
		}
		if s.display.timeType == TimeSMPTE {
			s.display.timeType = TimeBeats
		} else {
			s.display.timeType = TimeSMPTE
		}
	}
}

func (s *Surface) dispatchControlChange(channel, controller, value uint8) {
	if channel != 0 {
		return
	}

	switch {
	case controller >= ccTimeDigit && controller < ccTimeDigit+timeDigitCount:
		// Reverse order; the highest controller carries the least
		// significant digit.
		s.display.timeDigits[ccTimeDigit+timeDigitCount-1-controller] = value
		if s.handlers.Time != nil {
			s.handlers.Time(s.display.timeType)
		}

	case controller >= ccModeDigit && controller < ccModeDigit+modeDigitCount:
		s.display.modeDigits[ccModeDigit+modeDigitCount-1-controller] = value

	case controller >= ccVPotLED && controller < ccVPotLED+8:
		s.dispatchVPotLED(controller-ccVPotLED, value)

	case controller == ccJog:
		switch value {
		case 1:
			if s.handlers.Jog != nil {
				s.handlers.Jog(true)
			}
		case 65:
			if s.handlers.Jog != nil {
				s.handlers.Jog(false)
			}
		}

	case controller == ccAllSoundOff || controller == ccAllNotesOff:
		s.Reset()
	}
}

// dispatchVPotLED decodes a packed ring code: bits 0..3 position, bits 4..5
// drawing mode, bit 6 center dot.
func (s *Surface) dispatchVPotLED(strip, value uint8) {
	center := value&0x40 != 0
	position := value & 0x0f

	if s.handlers.StripVPotRaw != nil {
		s.handlers.StripVPotRaw(strip, value)
	}

	if position == 0 {
		s.setVPot(strip, VPotOff, center, 0)
		return
	}

	switch value >> 4 & 3 {
	case vpotDrawSingle, vpotDrawBar:
		s.setVPot(strip, VPotBar, center, float32(position)/11)

	case vpotDrawBoost:
		// Pan; position 6 is the center.
		if position < 6 {
			s.setVPot(strip, VPotPan, center, float32(6-position)/-5)
		} else {
			s.setVPot(strip, VPotPan, center, float32(position-6)/5)
		}

	case vpotDrawSpread:
		s.setVPot(strip, VPotBar, center, float32(position)/6)
	}
}

func (s *Surface) setVPot(strip uint8, mode VPotMode, center bool, fraction float32) {
	vpot := &s.strips[strip].vpot
	vpot.Mode = mode
	vpot.Center = center
	vpot.Value = fraction
	if s.handlers.StripVPot != nil {
		s.handlers.StripVPot(strip, mode, center, fraction)
	}
}

func (s *Surface) dispatchAftertouchChannel(channel, pressure uint8) {
	if channel != 0 {
		return
	}

	index := pressure >> 4
	if index > 7 {
		return
	}
	strip := &s.strips[index]

	value := pressure & 0xf
	switch {
	case value <= 12:
		strip.meter.Fraction = float32(value) / 12

	case value == 13:
		// TotalMix sends value == 13. This is not the original format which
		// was driving 12 LEDs and a separate overload indicator.
		strip.meter.Fraction = 1

	case value == 14:
		// Setting/clearing 'overload' does not reset the current meter value.
		if !strip.meter.Overload && s.handlers.StripMeterOverload != nil {
			s.handlers.StripMeterOverload(index, true)
		}
		strip.meter.Overload = true

	case value == 15:
		if strip.meter.Overload && s.handlers.StripMeterOverload != nil {
			s.handlers.StripMeterOverload(index, false)
		}
		strip.meter.Overload = false
	}

	strip.meterAt = s.clock()
	if s.handlers.StripMeter != nil {
		s.handlers.StripMeter(index, strip.meter.Fraction, strip.meter.Overload)
	}
}

func (s *Surface) dispatchPitchBend(channel uint8, value int16) {
	if value > 8176 {
		value = 8176
	} else if value < -8192 {
		value = -8192
	}

	fraction := float32(int32(value)+8192) / (8176 + 8192)

	switch {
	case channel <= 7:
		s.strips[channel].fader.Position = fraction
		if s.handlers.StripFader != nil {
			s.handlers.StripFader(channel, fraction)
		}

	case channel == mainFaderChannel:
		s.mainFader = fraction
		if s.handlers.Fader != nil {
			s.handlers.Fader(fraction)
		}
	}
}

// Strip returns a snapshot of the mirrored state of one channel strip. An
// out-of-range index returns the zero snapshot.
func (s *Surface) Strip(strip uint8) StripState {
	if strip > 7 {
		return StripState{}
	}
	src := &s.strips[strip]
	return StripState{
		VPot:   src.vpot,
		Fader:  src.fader,
		Button: src.button,
		Meter:  src.meter,
	}
}

// MainFader returns the last known main fader position.
func (s *Surface) MainFader() float32 {
	return s.mainFader
}

// Bank returns the latched bank toggles.
func (s *Surface) Bank() BankState {
	return s.bank
}

// Transport returns the latched transport toggles.
func (s *Surface) Transport() TransportState {
	return s.transport
}

func (s *Surface) fireStripButton(strip uint8, button StripButton, on bool) {
	if s.handlers.StripButton != nil {
		s.handlers.StripButton(strip, button, on)
	}
}

func (s *Surface) fireTransportButton(button TransportButton, on bool) {
	if s.handlers.TransportButton != nil {
		s.handlers.TransportButton(button, on)
	}
}

func (s *Surface) fireBankButton(button BankButton, on bool) {
	if s.handlers.BankButton != nil {
		s.handlers.BankButton(button, on)
	}
}

func (s *Surface) fireModifierButton(button ModifierButton, on bool) {
	if s.handlers.ModifierButton != nil {
		s.handlers.ModifierButton(button, on)
	}
}

func (s *Surface) fireNavigationButton(button NavigationButton, on bool) {
	if s.handlers.NavigationButton != nil {
		s.handlers.NavigationButton(button, on)
	}
}
