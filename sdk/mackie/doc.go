// Package mackie implements the control-surface side of the Mackie Control
// Universal protocol: pure encoders that shape semantic commands into channel
// voice messages, and a stateful Surface that decodes inbound messages,
// mirrors the state of the 8-strip control surface, and notifies the host of
// changes.
//
// The package does not own a transport. Hosts feed it contracts.Packet values
// and System Exclusive blocks from whatever delivers them, and call Tick
// periodically to drive the liveness timeout and meter decay.
package mackie
