// Credential redaction for log output. Platform tokens share well-known
// prefixes (xoxb-, xoxp-, xapp-, ...) which makes leaked values easy to
// recognize and mask even when they appear under an innocuous field name.
package logger

import "strings"

const (
	// DefaultMaskValue replaces redacted values in log output.
	DefaultMaskValue = "***"
	// visiblePrefixLen is how many characters of a masked token remain visible.
	visiblePrefixLen = 5
)

// tokenPrefixes are the credential prefixes issued by the platform:
// bot, user, app-level, workspace (token rotation), legacy and refresh tokens.
var tokenPrefixes = []string{"xoxb-", "xoxp-", "xapp-", "xoxe-", "xoxa-", "xoxr-", "xoxs-"}

// RedactorConfig defines which field names are treated as secrets.
type RedactorConfig struct {
	// SensitiveFields contains field names whose values are always masked.
	SensitiveFields []string
	// MaskValue is the replacement for masked values (default: "***").
	MaskValue string
}

// DefaultRedactorConfig returns the default set of sensitive field names.
func DefaultRedactorConfig() *RedactorConfig {
	return &RedactorConfig{
		SensitiveFields: []string{
			"token", "access_token", "refresh_token", "app_token", "bot_token",
			"signing_secret", "client_secret", "verification_token",
			"password", "secret", "authorization",
		},
		MaskValue: DefaultMaskValue,
	}
}

// TokenRedactor masks platform credentials in log fields.
type TokenRedactor struct {
	config    *RedactorConfig
	sensitive map[string]struct{}
}

// NewTokenRedactor creates a redactor with the given configuration.
// A nil configuration falls back to DefaultRedactorConfig.
func NewTokenRedactor(config *RedactorConfig) *TokenRedactor {
	if config == nil {
		config = DefaultRedactorConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	sensitive := make(map[string]struct{}, len(config.SensitiveFields))
	for _, f := range config.SensitiveFields {
		sensitive[strings.ToLower(f)] = struct{}{}
	}
	return &TokenRedactor{config: config, sensitive: sensitive}
}

// RedactString masks the value when the field name is sensitive or the
// value looks like a platform token.
func (r *TokenRedactor) RedactString(key, value string) string {
	if r.isSensitiveField(key) {
		return r.config.MaskValue
	}
	if looksLikeToken(value) {
		return maskToken(value)
	}
	return value
}

// RedactValue masks string values; non-strings pass through unchanged.
func (r *TokenRedactor) RedactValue(key string, value any) any {
	if s, ok := value.(string); ok {
		return r.RedactString(key, s)
	}
	if r.isSensitiveField(key) {
		return r.config.MaskValue
	}
	return value
}

// RedactFields returns a copy of fields with sensitive values masked.
func (r *TokenRedactor) RedactFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = r.RedactValue(k, v)
	}
	return out
}

func (r *TokenRedactor) isSensitiveField(key string) bool {
	_, ok := r.sensitive[strings.ToLower(key)]
	return ok
}

func looksLikeToken(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// maskToken keeps the token type prefix visible so operators can tell
// which credential class appeared without exposing the secret.
func maskToken(value string) string {
	if len(value) <= visiblePrefixLen {
		return DefaultMaskValue
	}
	return value[:visiblePrefixLen] + DefaultMaskValue
}
