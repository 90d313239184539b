package contracts

// MIDIEventFilter allows users to specify which message types to capture.
type MIDIEventFilter struct {
	Statuses []Status // List of channel voice statuses to pass through.
}

// ClientConfig holds transport-level configuration shared by all platform
// clients.
type ClientConfig struct {
	ClientName string // Name the client registers with the MIDI subsystem.
}

// ClientOptions defines the configuration options for the MIDI client.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	MIDIEventFilter *MIDIEventFilter // Optional filter for channel voice messages to capture.
	ClientConfig    *ClientConfig    // Transport-level client configuration.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithMIDIEventFilter sets the channel voice message filter for the MIDI client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithClientConfig sets the transport-level client configuration.
func WithClientConfig(config ClientConfig) Option {
	return func(opts *ClientOptions) {
		opts.ClientConfig = &config
	}
}
