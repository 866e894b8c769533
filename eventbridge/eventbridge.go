// Package eventbridge republishes Socket Mode envelopes to an AMQP exchange
// so downstream workers can consume platform events off a broker instead of
// holding their own socket. Publishes run in confirm mode; unconfirmed
// deliveries are retried.
package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/socketmode"
)

// Internal interfaces and adapters so tests can run without a broker.
type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

type amqpChannel interface {
	Confirm(noWait bool) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	Close() error
}

type realConnection struct{ c *amqp.Connection }

func (r realConnection) Channel() (amqpChannel, error) {
	ch, err := r.c.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}
func (r realConnection) Close() error { return r.c.Close() }

// Pluggable dialer for tests.
var dialFunc = func(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return realConnection{c: conn}, nil
}

// Config holds the bridge configuration.
type Config struct {
	// URL is the broker connection string (amqp://...). Required.
	URL string
	// Exchange is the topic exchange events are published to. Required.
	Exchange string
	// RoutingKeyPrefix prefixes every routing key (default "slack").
	RoutingKeyPrefix string
	// ConfirmTimeout bounds the wait for a publish confirmation before the
	// delivery is retried (default 5s).
	ConfirmTimeout time.Duration
	// Log receives structured bridge logs (default: discard).
	Log logger.Logger
}

// Bridge forwards envelopes to the broker.
type Bridge struct {
	cfg Config
	log logger.Logger
}

// New validates cfg and creates a bridge.
func New(cfg Config) (*Bridge, error) {
	if cfg.URL == "" {
		return nil, errors.New("eventbridge: broker url is required")
	}
	if cfg.Exchange == "" {
		return nil, errors.New("eventbridge: exchange is required")
	}
	if cfg.RoutingKeyPrefix == "" {
		cfg.RoutingKeyPrefix = "slack"
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 5 * time.Second
	}
	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}
	return &Bridge{cfg: cfg, log: log}, nil
}

// message is the published body: the envelope's payload wrapped with enough
// routing metadata to process it without the socket context.
type message struct {
	Type         string          `json:"type"`
	EnvelopeID   string          `json:"envelope_id,omitempty"`
	RetryAttempt int             `json:"retry_attempt,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// Run consumes envelopes from events and publishes them until ctx is
// cancelled or events closes. Each delivery waits for broker confirmation.
func (b *Bridge) Run(ctx context.Context, events <-chan socketmode.Envelope) error {
	conn, err := dialFunc(b.cfg.URL)
	if err != nil {
		return fmt.Errorf("eventbridge: dialing broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("eventbridge: opening channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("eventbridge: enabling confirm mode: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	if err := ch.ExchangeDeclare(b.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("eventbridge: declaring exchange %q: %w", b.cfg.Exchange, err)
	}

	b.log.Info().Str("exchange", b.cfg.Exchange).Msg("event bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.publish(ctx, ch, confirms, env); err != nil {
				return err
			}
		}
	}
}

func (b *Bridge) publish(ctx context.Context, ch amqpChannel, confirms <-chan amqp.Confirmation, env socketmode.Envelope) error {
	body, err := json.Marshal(message{
		Type:         string(env.Type),
		EnvelopeID:   env.EnvelopeID,
		RetryAttempt: env.RetryAttempt,
		Payload:      env.Payload,
	})
	if err != nil {
		return fmt.Errorf("eventbridge: encoding envelope: %w", err)
	}

	key := b.cfg.RoutingKeyPrefix + "." + string(env.Type)

	for {
		err := ch.PublishWithContext(ctx, b.cfg.Exchange, key, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EnvelopeID,
			Timestamp:    time.Now(),
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("eventbridge: publishing to %q: %w", key, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case confirm := <-confirms:
			if confirm.Ack {
				b.log.Debug().
					Str("routing_key", key).
					Str("envelope_id", env.EnvelopeID).
					Msg("envelope published")
				return nil
			}
			b.log.Warn().
				Str("routing_key", key).
				Str("envelope_id", env.EnvelopeID).
				Msg("publish not acknowledged, retrying")
		case <-time.After(b.cfg.ConfirmTimeout):
			b.log.Warn().
				Str("routing_key", key).
				Msg("publish confirmation timeout, retrying")
		}
	}
}
