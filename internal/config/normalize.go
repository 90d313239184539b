package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Monitor.TickIntervalMs == 0 {
		cfg.Monitor.TickIntervalMs = 100
	}
	if cfg.Monitor.LogLevel == "" {
		cfg.Monitor.LogLevel = "info"
	}
}
