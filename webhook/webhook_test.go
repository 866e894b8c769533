package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/webapi"
)

func fastClient() *Client {
	return NewFromConfig(Config{
		RetryHandlers: []retry.Handler{
			retry.NewConnectionErrorHandler(2, retry.FixedInterval{Delay: time.Millisecond}),
			retry.NewRateLimitHandler(2, retry.FixedInterval{Delay: time.Millisecond}),
		},
	})
}

func TestSendDeliversPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var msg Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "deploy finished", msg.Text)
		assert.Equal(t, "1700000000.000100", msg.ThreadTS)

		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	err := fastClient().Send(context.Background(), srv.URL, &Message{
		Text:     "deploy finished",
		ThreadTS: "1700000000.000100",
	})
	require.NoError(t, err)
}

func TestSendSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no_service"))
	}))
	t.Cleanup(srv.Close)

	err := fastClient().Send(context.Background(), srv.URL, &Message{Text: "hi"})
	require.Error(t, err)

	var httpErr *webapi.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, []byte("no_service"), httpErr.Body)
}

func TestSendRetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	require.NoError(t, fastClient().Send(context.Background(), srv.URL, &Message{Text: "hi"}))
	assert.Equal(t, int64(2), calls.Load())
}

func TestSendReturnsRateLimitedErrorWhenExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	err := fastClient().Send(context.Background(), srv.URL, &Message{Text: "hi"})
	var rle *webapi.RateLimitedError
	require.ErrorAs(t, err, &rle)
}

func TestSendRejectsUnexpectedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("invalid_payload"))
	}))
	t.Cleanup(srv.Close)

	err := fastClient().Send(context.Background(), srv.URL, &Message{Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_payload")
}

func TestSendHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastClient().Send(ctx, "http://127.0.0.1:0/hook", &Message{Text: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
}
