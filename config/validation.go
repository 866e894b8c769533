package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Validate checks cfg section by section and returns the first failure.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}

	if err := validateAPI(&cfg.API); err != nil {
		return fmt.Errorf("api config: %w", err)
	}

	if err := validateSocket(&cfg.Socket); err != nil {
		return fmt.Errorf("socket config: %w", err)
	}

	if err := validateOAuth(&cfg.OAuth); err != nil {
		return fmt.Errorf("oauth config: %w", err)
	}

	if err := validateBridge(&cfg.Bridge); err != nil {
		return fmt.Errorf("bridge config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateApp(cfg *AppConfig) error {
	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction}
	if !slices.Contains(validEnvs, cfg.Env) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)",
			cfg.Env, strings.Join(validEnvs, ", "))
	}

	if cfg.BotToken != "" && !strings.HasPrefix(cfg.BotToken, "xoxb-") {
		return fmt.Errorf("bot token must start with xoxb-")
	}

	if cfg.AppToken != "" && !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return fmt.Errorf("app token must start with xapp-")
	}

	return nil
}

func validateAPI(cfg *APIConfig) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if cfg.MaxRetryAttempts < 0 {
		return fmt.Errorf("max retry attempts must not be negative")
	}

	return nil
}

func validateSocket(cfg *SocketConfig) error {
	if cfg.HeartbeatTolerance <= 0 {
		return fmt.Errorf("heartbeat tolerance must be positive")
	}

	if cfg.EventBufferSize < 0 {
		return fmt.Errorf("event buffer size must not be negative")
	}

	if cfg.Backoff.Initial <= 0 || cfg.Backoff.Max < cfg.Backoff.Initial {
		return fmt.Errorf("backoff initial must be positive and max must not be below it")
	}

	if cfg.Backoff.Jitter < 0 || cfg.Backoff.Jitter > 1 {
		return fmt.Errorf("backoff jitter must be within [0, 1]")
	}

	return nil
}

func validateOAuth(cfg *OAuthConfig) error {
	// Credentials are optional; the flow is only one part of the SDK.
	// A secret without an ID (or vice versa) is always a mistake.
	if (cfg.ClientID == "") != (cfg.ClientSecret == "") {
		return fmt.Errorf("client id and client secret must be set together")
	}

	if cfg.StateTTL <= 0 {
		return fmt.Errorf("state ttl must be positive")
	}

	return nil
}

func validateBridge(cfg *BridgeConfig) error {
	if cfg.URL == "" {
		return nil
	}

	if cfg.Exchange == "" {
		return fmt.Errorf("exchange is required when a broker url is set")
	}

	if cfg.ConfirmTimeout <= 0 {
		return fmt.Errorf("confirm timeout must be positive")
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
