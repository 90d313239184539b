package config

import (
	"fmt"
)

var logLevels = map[string]bool{
	"":      true, // defaulted later by Normalize
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	m := cfg.Monitor

	if m.TickIntervalMs < 0 {
		return fmt.Errorf("monitor: tick_interval_ms must not be negative, got %d", m.TickIntervalMs)
	}

	// Liveness detection needs ticks at least as often as the shortest
	// timing window (meter decay is one second).
	if m.TickIntervalMs > 1000 {
		return fmt.Errorf("monitor: tick_interval_ms must not exceed 1000, got %d", m.TickIntervalMs)
	}

	if !logLevels[m.LogLevel] {
		return fmt.Errorf("monitor: unknown log_level %q", m.LogLevel)
	}

	for i := 0; i < len(m.Device); i++ {
		if m.Device[i] > 0x7F {
			return fmt.Errorf("monitor: device must contain ASCII characters only")
		}
	}

	return nil
}
