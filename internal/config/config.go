package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	Device         string `yaml:"device"` // substring match against port names
	TickIntervalMs int    `yaml:"tick_interval_ms"`
	LogLevel       string `yaml:"log_level"`
}

// Load reads and parses a yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
