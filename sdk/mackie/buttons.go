package mackie

// StripButton identifies one of the per-strip buttons.
type StripButton uint8

const (
	StripButtonArm StripButton = iota
	StripButtonMute
	StripButtonSelect
	StripButtonSolo
	StripButtonTouch // Touch-sensitive fader.
	StripButtonVPot  // Encoder click.
)

// TransportButton identifies one of the transport buttons.
type TransportButton uint8

const (
	TransportRewind TransportButton = iota
	TransportForward
	TransportStop
	TransportPlay
	TransportRecord
)

// BankButton identifies one of the bank-navigation buttons.
type BankButton uint8

const (
	BankPrevious BankButton = iota
	BankNext
	BankPreviousChannel
	BankNextChannel
	BankFlip
	BankEdit
)

// ModifierButton identifies one of the keyboard-style modifier buttons.
type ModifierButton uint8

const (
	ModifierShift ModifierButton = iota
	ModifierOption
	ModifierControl
	ModifierAlt
)

// NavigationButton identifies one of the cursor/navigation buttons.
type NavigationButton uint8

const (
	NavigationUp NavigationButton = iota
	NavigationDown
	NavigationLeft
	NavigationRight
	NavigationZoom
	NavigationScrub
)

// UserSwitch identifies one of the two rear-panel foot switches.
type UserSwitch uint8

const (
	UserSwitch1 UserSwitch = iota
	UserSwitch2
)

// VPotMode describes how a strip's LED ring presents its value.
type VPotMode uint8

const (
	VPotOff VPotMode = iota
	VPotPan
	VPotBar
)

// Ring-drawing modes packed into bits 4..5 of a VPot LED code.
const (
	vpotDrawSingle uint8 = iota
	vpotDrawBoost
	vpotDrawBar
	vpotDrawSpread
)

// TimeType selects how the time/counter display digits are grouped.
type TimeType uint8

const (
	// TimeSMPTE groups the digits as hours-minutes-seconds-frames.
	TimeSMPTE TimeType = iota
	// TimeBeats groups the digits as bars-beats-subdivision-ticks.
	TimeBeats
)
