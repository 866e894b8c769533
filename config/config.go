// Package config loads SDK configuration from layered sources: built-in
// defaults, an optional YAML file and SLACK_-prefixed environment variables,
// in increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override configuration keys.
// SLACK_APP_BOTTOKEN maps to app.bottoken, SLACK_API_TIMEOUT to api.timeout.
const EnvPrefix = "SLACK_"

// DefaultFile is the YAML file Load reads when it exists.
const DefaultFile = "slack.yaml"

// Load reads configuration from defaults, DefaultFile (if present) and the
// environment, then validates the result.
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile is Load with an explicit YAML file path. A missing file is not an
// error; the defaults and environment still apply.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// LoadBytes builds a configuration from in-memory YAML layered over the
// defaults. Environment variables still take priority.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(envprovider.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.env":   EnvDevelopment,
		"app.debug": false,

		"api.baseurl":          "https://slack.com/api/",
		"api.timeout":          "30s",
		"api.maxretryattempts": 3,
		"api.disableratelimit": false,

		"socket.handshaketimeout":   "10s",
		"socket.heartbeattolerance": "35s",
		"socket.eventbuffersize":    64,
		"socket.backoff.initial":    "1s",
		"socket.backoff.max":        "5m",
		"socket.backoff.jitter":     0.25,

		"oauth.statettl": "10m",

		"scim.baseurl":  "https://api.slack.com/scim/v1/",
		"audit.baseurl": "https://api.slack.com/audit/v1/",

		"bridge.routingkeyprefix": "slack",
		"bridge.confirmtimeout":   "5s",

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// IsSet reports whether key was provided by any source.
func (c *Config) IsSet(key string) bool {
	return c.k != nil && c.k.Exists(key)
}

// GetString returns the string value of an arbitrary key, for custom
// configuration not covered by the struct.
func (c *Config) GetString(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// GetInt returns the integer value of an arbitrary key.
func (c *Config) GetInt(key string) int {
	if c.k == nil {
		return 0
	}
	return c.k.Int(key)
}

// GetBool returns the boolean value of an arbitrary key.
func (c *Config) GetBool(key string) bool {
	return c.k != nil && c.k.Bool(key)
}
