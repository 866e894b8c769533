package socketmode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slackline/internal/testutil"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/webapi"
)

func helloFrame() []byte {
	return []byte(`{"type":"hello","num_connections":1,"debug_info":{"host":"applink-test"}}`)
}

// newHarness wires a Socket Mode client to a scripted WebSocket server via a
// stub apps.connections.open endpoint.
func newHarness(t *testing.T, script testutil.Script) *Client {
	t.Helper()
	ws := testutil.NewWSServer(t, script)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/apps.connections.open", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "url": ws.WSURL()})
	}))
	t.Cleanup(api.Close)

	apiClient, err := webapi.NewFromConfig(webapi.Config{
		BaseURL:          api.URL,
		AppLevelToken:    "xapp-test",
		DisableRateLimit: true,
	})
	require.NoError(t, err)

	c, err := New(Config{
		API:     apiClient,
		Backoff: retry.FixedInterval{Delay: time.Millisecond},
	})
	require.NoError(t, err)
	return c
}

func TestRunDispatchesAndAcks(t *testing.T) {
	acked := make(chan string, 1)
	c := newHarness(t, func(t *testing.T, conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, helloFrame()))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"events_api","envelope_id":"env-1","payload":{"event":{"type":"app_mention"}}}`)))

		var got ack
		require.NoError(t, conn.ReadJSON(&got))
		acked <- got.EnvelopeID

		// Hold the connection open until the client goes away.
		_, _, _ = conn.ReadMessage()
	})

	received := make(chan Envelope, 1)
	c.OnEvent(EnvelopeEventsAPI, func(_ context.Context, env Envelope) {
		received <- env
		require.NoError(t, c.Ack(env, nil))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case env := <-received:
		assert.Equal(t, "env-1", env.EnvelopeID)
		assert.JSONEq(t, `{"event":{"type":"app_mention"}}`, string(env.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for envelope")
	}

	select {
	case id := <-acked:
		assert.Equal(t, "env-1", id)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ack")
	}

	// The catch-all channel sees the same envelope.
	select {
	case env := <-c.Events():
		assert.Equal(t, EnvelopeEventsAPI, env.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting on events channel")
	}

	assert.True(t, c.Connected())
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, Disconnected, c.State())
}

func TestRunReconnectsAfterDisconnectEnvelope(t *testing.T) {
	var conns atomic.Int64
	c := newHarness(t, func(t *testing.T, conn *websocket.Conn) {
		n := conns.Add(1)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, helloFrame()))
		if n == 1 {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
				`{"type":"disconnect","reason":"refresh_requested"}`)))
			return
		}
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"slash_commands","envelope_id":"env-2","payload":{"command":"/deploy"}}`)))
		_, _, _ = conn.ReadMessage()
	})

	received := make(chan Envelope, 1)
	c.OnEvent(EnvelopeSlashCommands, func(_ context.Context, env Envelope) {
		received <- env
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	// The handler registered before the first connection still fires on the
	// second one.
	select {
	case env := <-received:
		assert.Equal(t, "env-2", env.EnvelopeID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for envelope after reconnect")
	}
	assert.GreaterOrEqual(t, conns.Load(), int64(2))
}

func TestRunRecoversFromDroppedConnection(t *testing.T) {
	var conns atomic.Int64
	c := newHarness(t, func(t *testing.T, conn *websocket.Conn) {
		n := conns.Add(1)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, helloFrame()))
		if n == 1 {
			// Drop without a close frame to simulate a network failure.
			_ = conn.Close()
			return
		}
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"interactive","envelope_id":"env-3","payload":{}}`)))
		_, _, _ = conn.ReadMessage()
	})

	received := make(chan Envelope, 1)
	c.OnEvent(EnvelopeInteractive, func(_ context.Context, env Envelope) {
		received <- env
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	select {
	case env := <-received:
		assert.Equal(t, "env-3", env.EnvelopeID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for envelope after drop")
	}
}

func TestAckWithoutConnection(t *testing.T) {
	c, err := New(Config{API: webapi.New("xoxb-test")})
	require.NoError(t, err)

	// Envelopes without an id need no ack and never touch the socket.
	require.NoError(t, c.Ack(Envelope{}, nil))

	err = c.Ack(Envelope{EnvelopeID: "env-9"}, nil)
	assert.Error(t, err)
}

func TestNewRequiresAPIClient(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "reconnecting", Reconnecting.String())
}
