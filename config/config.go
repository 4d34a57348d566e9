// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the devtools
// server binary. Configuration comes from a single YAML file named
// explicitly on the command line; there are no fallbacks or automatic
// discovery, which keeps deployments deterministic and auditable.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the devtools server configuration.
type Config struct {
	// Listen is the TCP address the protocol server accepts debugger
	// connections on (e.g. "127.0.0.1:6080").
	Listen string `yaml:"listen"`

	// WebSocketListen, when set, serves the same protocol over
	// WebSocket on this HTTP address, for browser-based frontends.
	WebSocketListen string `yaml:"websocket_listen"`

	// MetricsListen, when set, exposes Prometheus metrics on this
	// HTTP address.
	MetricsListen string `yaml:"metrics_listen"`

	// Preferences is the path to the JSONC preference file served by
	// the preference actor. Optional.
	Preferences string `yaml:"preferences"`

	// LogLevel is "debug", "info", "warn", or "error". Default "info".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Listen: "127.0.0.1:6080"}
}

// SlogLevel maps the configured log level to its slog value.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
