package config

import "testing"

func monitor(device, level string, tickMs int) *Config {
	return &Config{
		Monitor: MonitorConfig{
			Device:         device,
			TickIntervalMs: tickMs,
			LogLevel:       level,
		},
	}
}

// ---- tests ----

func TestValidate_Defaults(t *testing.T) {
	cfg := monitor("", "", 0)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	Normalize(cfg)
	if cfg.Monitor.TickIntervalMs != 100 {
		t.Fatalf("tick_interval_ms default: got %d", cfg.Monitor.TickIntervalMs)
	}
	if cfg.Monitor.LogLevel != "info" {
		t.Fatalf("log_level default: got %q", cfg.Monitor.LogLevel)
	}
}

func TestValidate_NegativeTick(t *testing.T) {
	if err := Validate(monitor("X-Touch", "info", -1)); err == nil {
		t.Fatal("expected error for negative tick_interval_ms")
	}
}

func TestValidate_TickTooLong(t *testing.T) {
	if err := Validate(monitor("X-Touch", "info", 1500)); err == nil {
		t.Fatal("expected error for tick_interval_ms over one second")
	}
}

func TestValidate_UnknownLogLevel(t *testing.T) {
	if err := Validate(monitor("X-Touch", "verbose", 100)); err == nil {
		t.Fatal("expected error for unknown log_level")
	}
}

func TestValidate_NonASCIIDevice(t *testing.T) {
	if err := Validate(monitor("Konsol\xc3\xa9", "info", 100)); err == nil {
		t.Fatal("expected error for non-ASCII device name")
	}
}

func TestValidate_WellFormed(t *testing.T) {
	if err := Validate(monitor("MCU Pro", "debug", 250)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
