package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
// It provides structured logging with configurable output formatting and
// automatic redaction of platform credentials.
type ZeroLogger struct {
	zlog   *zerolog.Logger
	redact *TokenRedactor
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

// New creates a new ZeroLogger instance with the specified log level and formatting options.
// If pretty is true, output will be formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithRedactor(level, pretty, NewTokenRedactor(DefaultRedactorConfig()))
}

// NewWithRedactor creates a new ZeroLogger with a custom credential redactor.
// Passing a nil redactor disables redaction entirely.
func NewWithRedactor(level string, pretty bool, redact *TokenRedactor) *ZeroLogger {
	var l zerolog.Logger

	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, redact: redact}
}

// WithContext returns a logger with context information attached.
func (l *ZeroLogger) WithContext(ctx any) Logger {
	if c, ok := ctx.(context.Context); ok {
		zl := zerolog.Ctx(c)
		if zl == nil || zl.GetLevel() == zerolog.Disabled {
			return l
		}
		return &ZeroLogger{zlog: zl, redact: l.redact}
	}
	return l
}

// WithFields returns a logger with additional fields attached to all log entries.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.redact != nil {
		fields = l.redact.RedactFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, redact: l.redact}
}

// Noop returns a logger that discards every event. It is the default for
// SDK clients constructed without an explicit logger.
func Noop() Logger {
	l := zerolog.Nop()
	return &ZeroLogger{zlog: &l}
}
