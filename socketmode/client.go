// Package socketmode maintains a Socket Mode connection: it opens a WebSocket
// link through apps.connections.open, dispatches incoming envelopes to
// registered handlers and keeps the link alive across server-initiated
// disconnects and network failures.
package socketmode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/webapi"
)

// State is the connection lifecycle state.
type State int32

const (
	// Disconnected means no connection exists and none is being attempted.
	Disconnected State = iota
	// Connecting means a dial or hello handshake is in progress.
	Connecting
	// Connected means the link is established and envelopes flow.
	Connected
	// Reconnecting means the previous link dropped and a re-dial is pending.
	Reconnecting
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Handler consumes one envelope. Handlers run on the read goroutine, so a
// slow handler delays subsequent envelopes; hand off to a worker if needed.
type Handler func(ctx context.Context, env Envelope)

// ErrServerDisconnect is the read-loop result when the server sent a
// disconnect envelope. The run loop treats it as a clean re-dial request.
var ErrServerDisconnect = errors.New("socketmode: server requested disconnect")

// Config holds the Socket Mode client configuration.
type Config struct {
	// API is the Web API client used to open connections. Its configuration
	// must include an app-level token. Required.
	API *webapi.Client
	// HandshakeTimeout bounds the WebSocket dial (default 10s).
	HandshakeTimeout time.Duration
	// HelloTimeout bounds the wait for the hello frame (default 5s).
	HelloTimeout time.Duration
	// HeartbeatTolerance closes the link when no server contact happened for
	// this long (default 35s; the server pings roughly every 10s).
	HeartbeatTolerance time.Duration
	// Backoff computes re-dial delays (default 1s doubling to 5m, 25% jitter).
	Backoff retry.IntervalCalculator
	// EventBufferSize sizes the Events channel (default 64). Envelopes are
	// dropped with a warning when the buffer is full.
	EventBufferSize int
	// Log receives structured client logs (default: discard).
	Log logger.Logger
}

// Client is a Socket Mode client. Register handlers before calling Run;
// registration is also safe while running and survives reconnects.
type Client struct {
	api                *webapi.Client
	log                logger.Logger
	dialer             *websocket.Dialer
	backoff            retry.IntervalCalculator
	helloTimeout       time.Duration
	heartbeatTolerance time.Duration

	state       atomic.Int32
	lastContact atomic.Int64

	mu       sync.RWMutex
	conn     *websocket.Conn
	handlers map[EnvelopeType][]Handler

	writeMu sync.Mutex

	events chan Envelope
}

// New creates a Socket Mode client.
func New(cfg Config) (*Client, error) {
	if cfg.API == nil {
		return nil, errors.New("socketmode: webapi client is required")
	}

	handshake := cfg.HandshakeTimeout
	if handshake <= 0 {
		handshake = 10 * time.Second
	}
	helloTimeout := cfg.HelloTimeout
	if helloTimeout <= 0 {
		helloTimeout = 5 * time.Second
	}
	tolerance := cfg.HeartbeatTolerance
	if tolerance <= 0 {
		tolerance = 35 * time.Second
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = retry.NewBackoffWithJitter(time.Second, 5*time.Minute, 0.25)
	}
	bufSize := cfg.EventBufferSize
	if bufSize <= 0 {
		bufSize = 64
	}
	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		api:                cfg.API,
		log:                log,
		dialer:             &websocket.Dialer{HandshakeTimeout: handshake},
		backoff:            backoff,
		helloTimeout:       helloTimeout,
		heartbeatTolerance: tolerance,
		handlers:           make(map[EnvelopeType][]Handler),
		events:             make(chan Envelope, bufSize),
	}, nil
}

// OnEvent registers fn for envelopes of the given type. Multiple handlers per
// type run in registration order.
func (c *Client) OnEvent(t EnvelopeType, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[t] = append(c.handlers[t], fn)
}

// Events returns the catch-all envelope channel. Every dispatched envelope is
// also offered here; consume it or size the buffer accordingly.
func (c *Client) Events() <-chan Envelope {
	return c.events
}

// State returns the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Connected reports whether the link is currently established.
func (c *Client) Connected() bool {
	return c.State() == Connected
}

// Ack acknowledges an envelope, optionally attaching a response payload for
// envelopes that accept one. Envelopes without an id need no ack.
func (c *Client) Ack(env Envelope, payload any) error {
	if env.EnvelopeID == "" {
		return nil
	}
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return errors.New("socketmode: not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(ack{EnvelopeID: env.EnvelopeID, Payload: payload}); err != nil {
		return fmt.Errorf("socketmode: writing ack: %w", err)
	}
	return nil
}

// Run connects and serves envelopes until ctx is cancelled. Server
// disconnect requests and transient failures re-dial with backoff; the
// attempt counter resets after each established connection.
func (c *Client) Run(ctx context.Context) error {
	defer c.state.Store(int32(Disconnected))

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.connectAndServe(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err == nil || errors.Is(err, ErrServerDisconnect):
			// Clean re-dial request; start the backoff ladder over.
			attempt = 0
		default:
			c.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("socket mode connection failed")
		}

		c.state.Store(int32(Reconnecting))
		delay := c.backoff.NextDelay(attempt)
		attempt++

		c.log.Debug().Dur("delay", delay).Msg("waiting before reconnect")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// connectAndServe performs one full connection lifecycle: open, dial, hello,
// then serve until the link drops or ctx is cancelled.
func (c *Client) connectAndServe(ctx context.Context) error {
	c.state.Store(int32(Connecting))

	open, err := c.api.AppsConnectionsOpen(ctx)
	if err != nil {
		return fmt.Errorf("socketmode: opening connection: %w", err)
	}

	conn, _, err := c.dialer.DialContext(ctx, open.URL, nil)
	if err != nil {
		return fmt.Errorf("socketmode: dialing %s: %w", open.URL, err)
	}

	c.touch()
	conn.SetPingHandler(func(appData string) error {
		c.touch()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	if err := c.awaitHello(conn); err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.state.Store(int32(Connected))
	c.log.Info().Msg("socket mode connected")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readLoop(gctx, conn) })
	g.Go(func() error { return c.heartbeatMonitor(gctx, conn) })
	g.Go(func() error {
		// Close the socket on cancellation so readLoop unblocks.
		<-gctx.Done()
		c.closeConn(conn, "client shutting down")
		return nil
	})
	err = g.Wait()

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	return err
}

// awaitHello reads frames until the hello arrives, bounded by HelloTimeout.
func (c *Client) awaitHello(conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(c.helloTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("socketmode: reading hello: %w", err)
	}

	var hello helloMessage
	if err := json.Unmarshal(raw, &hello); err != nil {
		return fmt.Errorf("socketmode: parsing hello: %w", err)
	}
	if hello.Type != string(EnvelopeHello) {
		return fmt.Errorf("socketmode: expected hello frame, got %q", hello.Type)
	}

	c.log.Debug().
		Int("num_connections", hello.NumConnections).
		Str("host", hello.DebugInfo.Host).
		Msg("received hello")
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("socketmode: connection lost: %w", err)
		}
		c.touch()

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Error().Err(err).Bytes("frame", raw).Msg("unparseable frame")
			continue
		}

		if env.Type == EnvelopeDisconnect {
			var msg disconnectMessage
			_ = json.Unmarshal(raw, &msg)
			c.log.Info().Str("reason", msg.Reason).Msg("server requested disconnect")
			c.closeConn(conn, "reconnecting on server request")
			return ErrServerDisconnect
		}

		c.dispatch(ctx, env)
	}
}

func (c *Client) dispatch(ctx context.Context, env Envelope) {
	c.mu.RLock()
	handlers := c.handlers[env.Type]
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, env)
	}

	select {
	case c.events <- env:
	default:
		c.log.Warn().
			Str("type", string(env.Type)).
			Str("envelope_id", env.EnvelopeID).
			Msg("event buffer full, envelope dropped")
	}
}

// heartbeatMonitor closes the link when the server has been silent longer
// than the tolerance. The server pings at a fixed cadence, so prolonged
// silence means a dead link even when the TCP connection looks healthy.
func (c *Client) heartbeatMonitor(ctx context.Context, conn *websocket.Conn) error {
	interval := c.heartbeatTolerance / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			silent := time.Since(time.Unix(0, c.lastContact.Load()))
			if silent > c.heartbeatTolerance {
				c.log.Warn().Dur("silent_for", silent).Msg("heartbeat timeout")
				conn.Close()
				return fmt.Errorf("socketmode: no server contact for %s", silent)
			}
		}
	}
}

func (c *Client) touch() {
	c.lastContact.Store(time.Now().UnixNano())
}

func (c *Client) closeConn(conn *websocket.Conn, reason string) {
	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.writeMu.Unlock()
	conn.Close()
}
