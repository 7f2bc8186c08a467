package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the persistent aiscore configuration stored as config.toml
// in the .aiscore/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Detector DetectorConfig `toml:"detector"`
	API      APIConfig      `toml:"api"`
	Client   ClientConfig   `toml:"client"`
	History  HistoryConfig  `toml:"history"`
	Events   EventsConfig   `toml:"events"`
}

// DetectorConfig holds settings for dispatching analyses.
type DetectorConfig struct {
	// Provider is the default provider id used when none is given.
	Provider string `toml:"provider,omitempty"`

	// Timeout bounds a single provider call, e.g. "30s".
	Timeout string `toml:"timeout,omitempty"`

	// MinChars is the shortest trimmed text the CLI will submit.
	MinChars uint `toml:"min_chars,omitempty"`
}

// TimeoutDuration parses Timeout. An empty or invalid value yields zero,
// which callers treat as no timeout.
func (d DetectorConfig) TimeoutDuration() time.Duration {
	if d.Timeout == "" {
		return 0
	}
	dur, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0
	}
	return dur
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// aiscore API server. Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// HistoryConfig holds settings for the analysis history store.
type HistoryConfig struct {
	Enabled     bool   `toml:"enabled,omitempty"`
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig holds settings for publishing analysis events.
type EventsConfig struct {
	// Brokers is a comma separated list of Kafka bootstrap brokers.
	// Publishing is disabled when empty.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// BrokerList splits Brokers on commas, dropping empty entries.
func (e EventsConfig) BrokerList() []string {
	var out []string
	for b := range strings.SplitSeq(e.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"detector.provider": {
		get: func(c *Config) string { return c.Detector.Provider },
		set: func(c *Config, v string) error {
			c.Detector.Provider = strings.ToLower(strings.TrimSpace(v))
			return nil
		},
	},
	"detector.timeout": {
		get: func(c *Config) string { return c.Detector.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for detector.timeout: %w", err)
			}
			c.Detector.Timeout = v
			return nil
		},
	},
	"detector.min_chars": {
		get: func(c *Config) string {
			if c.Detector.MinChars == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Detector.MinChars), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for detector.min_chars: %w", err)
			}
			c.Detector.MinChars = uint(n)
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"history.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for history.enabled: %w", err)
			}
			c.History.Enabled = b
			return nil
		},
	},
	"history.driver": {
		get: func(c *Config) string { return c.History.Driver },
		set: func(c *Config, v string) error {
			switch v {
			case "inmemory", "sqlite", "postgres":
				c.History.Driver = v
				return nil
			default:
				return fmt.Errorf("invalid value for history.driver: %q (available: inmemory, sqlite, postgres)", v)
			}
		},
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
	"history.postgres_dsn": {
		get: func(c *Config) string { return c.History.PostgresDSN },
		set: func(c *Config, v string) error { c.History.PostgresDSN = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
