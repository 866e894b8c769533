package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the full SDK configuration: credentials, per-client tuning and
// logging preferences. The embedded koanf.Koanf instance allows flexible
// access to custom keys not explicitly defined in the struct.
type Config struct {
	App    AppConfig    `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	API    APIConfig    `koanf:"api" json:"api" yaml:"api" mapstructure:"api"`
	Socket SocketConfig `koanf:"socket" json:"socket" yaml:"socket" mapstructure:"socket"`
	OAuth  OAuthConfig  `koanf:"oauth" json:"oauth" yaml:"oauth" mapstructure:"oauth"`
	SCIM   SCIMConfig   `koanf:"scim" json:"scim" yaml:"scim" mapstructure:"scim"`
	Audit  AuditConfig  `koanf:"audit" json:"audit" yaml:"audit" mapstructure:"audit"`
	Bridge BridgeConfig `koanf:"bridge" json:"bridge" yaml:"bridge" mapstructure:"bridge"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for access to custom keys
	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// AppConfig holds credentials and environment settings.
type AppConfig struct {
	// BotToken is the xoxb- token used by the Web API client.
	BotToken string `koanf:"bottoken" json:"bottoken" yaml:"bottoken" mapstructure:"bottoken"`
	// AppToken is the xapp- token used for Socket Mode connections.
	AppToken string `koanf:"apptoken" json:"apptoken" yaml:"apptoken" mapstructure:"apptoken"`
	// SigningSecret verifies inbound request signatures.
	SigningSecret string `koanf:"signingsecret" json:"signingsecret" yaml:"signingsecret" mapstructure:"signingsecret"`
	Env           string `koanf:"env" json:"env" yaml:"env" mapstructure:"env"`
	Debug         bool   `koanf:"debug" json:"debug" yaml:"debug" mapstructure:"debug"`
}

// APIConfig tunes the Web API client.
type APIConfig struct {
	BaseURL          string        `koanf:"baseurl" json:"baseurl" yaml:"baseurl" mapstructure:"baseurl"`
	Timeout          time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxRetryAttempts int           `koanf:"maxretryattempts" json:"maxretryattempts" yaml:"maxretryattempts" mapstructure:"maxretryattempts"`
	// DisableRateLimit turns off the client-side per-tier limiter.
	DisableRateLimit bool `koanf:"disableratelimit" json:"disableratelimit" yaml:"disableratelimit" mapstructure:"disableratelimit"`
}

// SocketConfig tunes the Socket Mode client.
type SocketConfig struct {
	HandshakeTimeout   time.Duration `koanf:"handshaketimeout" json:"handshaketimeout" yaml:"handshaketimeout" mapstructure:"handshaketimeout"`
	HeartbeatTolerance time.Duration `koanf:"heartbeattolerance" json:"heartbeattolerance" yaml:"heartbeattolerance" mapstructure:"heartbeattolerance"`
	EventBufferSize    int           `koanf:"eventbuffersize" json:"eventbuffersize" yaml:"eventbuffersize" mapstructure:"eventbuffersize"`
	Backoff            BackoffConfig `koanf:"backoff" json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// BackoffConfig shapes the reconnect backoff ladder.
type BackoffConfig struct {
	Initial time.Duration `koanf:"initial" json:"initial" yaml:"initial" mapstructure:"initial"`
	Max     time.Duration `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
	// Jitter is the +/- fraction applied to each delay (0..1).
	Jitter float64 `koanf:"jitter" json:"jitter" yaml:"jitter" mapstructure:"jitter"`
}

// OAuthConfig holds the v2 OAuth flow settings.
type OAuthConfig struct {
	ClientID     string        `koanf:"clientid" json:"clientid" yaml:"clientid" mapstructure:"clientid"`
	ClientSecret string        `koanf:"clientsecret" json:"clientsecret" yaml:"clientsecret" mapstructure:"clientsecret"`
	RedirectURL  string        `koanf:"redirecturl" json:"redirecturl" yaml:"redirecturl" mapstructure:"redirecturl"`
	Scopes       []string      `koanf:"scopes" json:"scopes" yaml:"scopes" mapstructure:"scopes"`
	UserScopes   []string      `koanf:"userscopes" json:"userscopes" yaml:"userscopes" mapstructure:"userscopes"`
	StateTTL     time.Duration `koanf:"statettl" json:"statettl" yaml:"statettl" mapstructure:"statettl"`
}

// SCIMConfig tunes the SCIM client.
type SCIMConfig struct {
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" mapstructure:"baseurl"`
}

// AuditConfig tunes the Audit Logs client.
type AuditConfig struct {
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" mapstructure:"baseurl"`
}

// BridgeConfig holds the AMQP event bridge settings. The bridge is enabled
// only when URL is set.
type BridgeConfig struct {
	URL              string        `koanf:"url" json:"url" yaml:"url" mapstructure:"url"`
	Exchange         string        `koanf:"exchange" json:"exchange" yaml:"exchange" mapstructure:"exchange"`
	RoutingKeyPrefix string        `koanf:"routingkeyprefix" json:"routingkeyprefix" yaml:"routingkeyprefix" mapstructure:"routingkeyprefix"`
	ConfirmTimeout   time.Duration `koanf:"confirmtimeout" json:"confirmtimeout" yaml:"confirmtimeout" mapstructure:"confirmtimeout"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}
