package mackie

// Protocol address map. Per-strip controls occupy 8 consecutive values
// starting at their base; the wire layout is fixed by the Mackie Control
// protocol and must not be rearranged.

// System Exclusive header layout, after the start byte.
const (
	sysExVendorOffset  = 0 // 3 bytes vendor ID.
	sysExDeviceOffset  = 3
	sysExTypeOffset    = 4
	sysExPayloadOffset = 5
)

// 3 bytes MIDI vendor ID.
var sysExVendor = [3]byte{0x00, 0x00, 0x66}

// Device types carried in the System Exclusive header.
const (
	deviceControl   uint8 = 20 // Main unit.
	deviceControlXT uint8 = 21 // Extension unit.
)

// System Exclusive message types.
const (
	sysExTypeDisplay uint8 = 18 // 1 byte offset, up to 112 text bytes.
)

// The 56 character, 2 row LCD display; 8 channel strips * 7 characters == 56.
const (
	displayColumns = 56
	displayRows    = 2
	displayCell    = 7
	displaySize    = displayColumns * displayRows
)

// Per-strip controls.
const (
	// Bit 0..3: value, bit 4..5: drawing mode, bit 6: center dot.
	ccVPotLED uint8 = 48

	noteVPotPush   uint8 = 32
	noteArm        uint8 = 0
	noteSolo       uint8 = 8
	noteMute       uint8 = 16
	noteSelect     uint8 = 24
	noteFaderTouch uint8 = 104
)

// Time/counter display, 10 digits in 3-2-2-3 grouping. The controllers are
// assigned in reverse order, right to left.
const (
	ccTimeDigit    uint8 = 64
	timeDigitCount       = 10

	ccModeDigit    uint8 = 74
	modeDigitCount       = 2

	// Switches the counter between SMPTE and Beats grouping.
	noteSMPTEBeats uint8 = 53
)

// Main fader; the strip faders control pitch bend channels 0-7.
const (
	mainFaderChannel uint8 = 8
	noteMainTouch    uint8 = 112
)

// Transport.
const (
	noteRewind  uint8 = 91
	noteForward uint8 = 92
	noteStop    uint8 = 93
	notePlay    uint8 = 94
	noteRecord  uint8 = 95
)

// Bank navigation.
const (
	// Move 8/16/32 channel strips at once.
	noteBankPrevious uint8 = 46
	noteBankNext     uint8 = 47

	// Move a single channel.
	notePreviousChannel uint8 = 48
	noteNextChannel     uint8 = 49

	noteFlip uint8 = 50
	noteEdit uint8 = 51
)

// Function keys F1-F16, 16 consecutive notes.
const (
	noteFunction      uint8 = 54
	functionKeyCount        = 16
)

// Modifiers.
const (
	noteShift   uint8 = 70
	noteOption  uint8 = 71
	noteControl uint8 = 72
	noteAlt     uint8 = 73
)

// Navigation.
const (
	noteUp    uint8 = 96
	noteDown  uint8 = 97
	noteLeft  uint8 = 98
	noteRight uint8 = 99
	noteZoom  uint8 = 100
	noteScrub uint8 = 101

	// Jog wheel, value 1 == clockwise, 65 == counter clockwise.
	ccJog uint8 = 60
)

// Rear-panel user switches.
const (
	noteUserSwitch1 uint8 = 102
	noteUserSwitch2 uint8 = 103
)

// Liveness heartbeat; TotalMix sends it on channel 16 roughly every 800 ms.
const (
	pingChannel uint8 = 15
	pingNote    uint8 = 127
)

// Channel mode controllers which reset the surface.
const (
	ccAllSoundOff uint8 = 120
	ccAllNotesOff uint8 = 123
)
