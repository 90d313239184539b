package contracts

// ClientMIDI defines an interface for bidirectional MIDI client operations.
type ClientMIDI interface {
	Stop() error                                // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)         // Lists all available MIDI devices.
	SelectDevice(deviceID int) error            // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan Packet)      // Starts capturing channel voice messages and sends them to the specified channel.
	StartSysExCapture(sysExChannel chan []byte) // Starts capturing System Exclusive blocks and sends them to the specified channel.
	Send(packet *Packet) error                  // Sends a channel voice message to the selected device.
	SendSystemExclusive(buffer []byte) error    // Sends a complete, framed System Exclusive block to the selected device.
}
