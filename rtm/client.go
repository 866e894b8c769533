// Package rtm implements a client for the legacy Real Time Messaging API.
// It connects through rtm.connect, decodes the event stream and lets the
// caller send messages over the socket. New applications should prefer
// Socket Mode; this client exists for workspaces still on RTM.
package rtm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/webapi"
)

// Event is one message from the RTM stream. Raw holds the full frame for
// handlers that need fields beyond the type.
type Event struct {
	Type string
	Raw  json.RawMessage
}

// Handler consumes one event. Handlers run on the read goroutine.
type Handler func(ctx context.Context, ev Event)

// Identity describes the authenticated session as reported by rtm.connect.
type Identity struct {
	UserID     string
	UserName   string
	TeamID     string
	TeamName   string
	TeamDomain string
}

// Config holds the RTM client configuration.
type Config struct {
	// API is the Web API client used to call rtm.connect. Required.
	API *webapi.Client
	// HandshakeTimeout bounds the WebSocket dial (default 10s).
	HandshakeTimeout time.Duration
	// Backoff computes re-dial delays (default 1s doubling to 5m, 25% jitter).
	Backoff retry.IntervalCalculator
	// Log receives structured client logs (default: discard).
	Log logger.Logger
}

// Client is an RTM client. It is safe for concurrent use once Run started.
type Client struct {
	api     *webapi.Client
	log     logger.Logger
	dialer  *websocket.Dialer
	backoff retry.IntervalCalculator

	nextID    atomic.Int64
	connected atomic.Bool

	mu       sync.RWMutex
	conn     *websocket.Conn
	identity Identity
	handlers map[string][]Handler

	writeMu sync.Mutex
}

// New creates an RTM client.
func New(cfg Config) (*Client, error) {
	if cfg.API == nil {
		return nil, errors.New("rtm: webapi client is required")
	}

	handshake := cfg.HandshakeTimeout
	if handshake <= 0 {
		handshake = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = retry.NewBackoffWithJitter(time.Second, 5*time.Minute, 0.25)
	}
	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		api:      cfg.API,
		log:      log,
		dialer:   &websocket.Dialer{HandshakeTimeout: handshake},
		backoff:  backoff,
		handlers: make(map[string][]Handler),
	}, nil
}

// OnEvent registers fn for events of the given type. Registration survives
// reconnects.
func (c *Client) OnEvent(eventType string, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = append(c.handlers[eventType], fn)
}

// Identity returns the session identity from the most recent rtm.connect.
func (c *Client) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Connected reports whether the socket is currently established.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// outgoingMessage is the wire shape for client-sent messages. IDs increase
// monotonically within a session so reply_to frames can be correlated.
type outgoingMessage struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text,omitempty"`
}

// SendMessage posts a plain text message to a channel over the socket and
// returns the assigned outgoing id.
func (c *Client) SendMessage(channel, text string) (int64, error) {
	return c.send(outgoingMessage{Type: "message", Channel: channel, Text: text})
}

// SendTyping sends a typing indicator for a channel.
func (c *Client) SendTyping(channel string) error {
	_, err := c.send(outgoingMessage{Type: "typing", Channel: channel})
	return err
}

func (c *Client) send(msg outgoingMessage) (int64, error) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return 0, errors.New("rtm: not connected")
	}

	msg.ID = c.nextID.Add(1)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		return 0, fmt.Errorf("rtm: writing message: %w", err)
	}
	return msg.ID, nil
}

// Run connects and serves events until ctx is cancelled, re-dialing with
// backoff after failures.
func (c *Client) Run(ctx context.Context) error {
	defer c.connected.Store(false)

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.connectAndServe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			// Server said goodbye; reconnect on a fresh backoff ladder.
			attempt = 0
		} else {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("rtm connection failed")
		}

		delay := c.backoff.NextDelay(attempt)
		attempt++

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) connectAndServe(ctx context.Context) error {
	res, err := c.api.RTMConnect(ctx)
	if err != nil {
		return fmt.Errorf("rtm: connect: %w", err)
	}

	conn, _, err := c.dialer.DialContext(ctx, res.URL, nil)
	if err != nil {
		return fmt.Errorf("rtm: dialing %s: %w", res.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.identity = Identity{
		UserID:     res.Self.ID,
		UserName:   res.Self.Name,
		TeamID:     res.Team.ID,
		TeamName:   res.Team.Name,
		TeamDomain: res.Team.Domain,
	}
	c.mu.Unlock()
	c.connected.Store(true)
	c.log.Info().Str("user_id", res.Self.ID).Str("team_id", res.Team.ID).Msg("rtm connected")

	closeOnce := sync.OnceFunc(func() {
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		conn.Close()
	})
	stop := context.AfterFunc(ctx, closeOnce)

	err = c.readLoop(ctx, conn)

	stop()
	closeOnce()
	c.connected.Store(false)
	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	return err
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("rtm: connection lost: %w", err)
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			c.log.Error().Err(err).Bytes("frame", raw).Msg("unparseable frame")
			continue
		}
		if head.Type == "" {
			// Frames without a type are acks for outgoing messages.
			continue
		}
		if head.Type == "goodbye" {
			c.log.Info().Msg("server sent goodbye")
			return nil
		}

		c.dispatch(ctx, Event{Type: head.Type, Raw: raw})
	}
}

func (c *Client) dispatch(ctx context.Context, ev Event) {
	c.mu.RLock()
	handlers := c.handlers[ev.Type]
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, ev)
	}
}
