package contracts

// DeviceInfo contains information about a MIDI device port.
type DeviceInfo struct {
	Name         string // Port name.
	Manufacturer string // Device manufacturer, if the platform reports one.
	EntityName   string // Name of the entity the port belongs to.
}
