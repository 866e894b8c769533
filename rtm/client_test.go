package rtm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slackline/internal/testutil"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/webapi"
)

func newHarness(t *testing.T, script testutil.Script) *Client {
	t.Helper()
	ws := testutil.NewWSServer(t, script)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rtm.connect", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"url":  ws.WSURL(),
			"self": map[string]string{"id": "U1", "name": "botling"},
			"team": map[string]string{"id": "T1", "name": "Acme", "domain": "acme"},
		})
	}))
	t.Cleanup(api.Close)

	apiClient, err := webapi.NewFromConfig(webapi.Config{
		BaseURL:          api.URL,
		Token:            "xoxb-test",
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

func TestRunDispatchesEvents(t *testing.T) {
	c := newHarness(t, func(t *testing.T, conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"message","channel":"C1","user":"U2","text":"hi there","ts":"1700000000.000100"}`)))
		_, _, _ = conn.ReadMessage()
	})

	received := make(chan Event, 1)
	c.OnEvent("message", func(_ context.Context, ev Event) {
		received <- ev
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case ev := <-received:
		assert.Equal(t, "message", ev.Type)
		var msg struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.Unmarshal(ev.Raw, &msg))
		assert.Equal(t, "hi there", msg.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	id := c.Identity()
	assert.Equal(t, "U1", id.UserID)
	assert.Equal(t, "acme", id.TeamDomain)
	assert.True(t, c.Connected())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, c.Connected())
}

func TestSendMessageAssignsIncreasingIDs(t *testing.T) {
	frames := make(chan outgoingMessage, 2)
	c := newHarness(t, func(t *testing.T, conn *websocket.Conn) {
		for i := 0; i < 2; i++ {
			var msg outgoingMessage
			require.NoError(t, conn.ReadJSON(&msg))
			frames <- msg
		}
		_, _, _ = conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	require.Eventually(t, c.Connected, 5*time.Second, 10*time.Millisecond)

	id1, err := c.SendMessage("C1", "first")
	require.NoError(t, err)
	id2, err := c.SendMessage("C1", "second")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	first := <-frames
	assert.Equal(t, "message", first.Type)
	assert.Equal(t, "C1", first.Channel)
	assert.Equal(t, "first", first.Text)
	assert.Equal(t, id1, first.ID)

	second := <-frames
	assert.Equal(t, id2, second.ID)
}

func TestSendWithoutConnection(t *testing.T) {
	c, err := New(Config{API: webapi.New("xoxb-test")})
	require.NoError(t, err)

	_, err = c.SendMessage("C1", "hello")
	assert.Error(t, err)
}

func TestNewRequiresAPIClient(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
