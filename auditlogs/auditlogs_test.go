package auditlogs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/trace"
	"github.com/gaborage/slackline/webapi"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		Token:   "xoxp-org-admin",
		BaseURL: srv.URL + "/",
		RetryHandlers: []retry.Handler{
			retry.NewRateLimitHandler(1, retry.FixedInterval{Delay: time.Millisecond}),
		},
	})
	require.NoError(t, err)
	return c
}

func TestGetLogsEncodesFilters(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs", r.URL.Path)
		assert.Equal(t, "Bearer xoxp-org-admin", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(trace.HeaderXRequestID))
		q := r.URL.Query()
		assert.Equal(t, "user_login", q.Get("action"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "1700000000", q.Get("oldest"))
		_, _ = w.Write([]byte(`{
			"entries":[{
				"id":"e1","date_create":1700000100,"action":"user_login",
				"actor":{"type":"user","user":{"id":"U001","email":"jdoe@example.com"}},
				"entity":{"type":"workspace","workspace":{"id":"T001"}}
			}],
			"response_metadata":{"next_cursor":"cur-2"}
		}`))
	}))

	res, err := c.GetLogs(context.Background(), LogsParams{
		Action: "user_login",
		Limit:  100,
		Oldest: 1700000000,
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	entry := res.Entries[0]
	assert.Equal(t, "user_login", entry.Action)
	assert.Equal(t, "U001", entry.Actor.User.ID)
	assert.Equal(t, "workspace", entry.Entity.Type)
	assert.Contains(t, string(entry.Entity.Raw), "T001")
	assert.Equal(t, "cur-2", res.ResponseMetadata.NextCursor)
}

func TestRequestIDFromContextReachesWire(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-audit-7", r.Header.Get(trace.HeaderXRequestID))
		_, _ = w.Write([]byte(`{"entries":[]}`))
	}))

	ctx := trace.WithRequestID(context.Background(), "req-audit-7")
	_, err := c.GetLogs(ctx, LogsParams{})
	require.NoError(t, err)
}

func TestGetLogsCursorPagination(t *testing.T) {
	pages := map[string]string{
		"":   `{"entries":[{"id":"e1","action":"a"}],"response_metadata":{"next_cursor":"p2"}}`,
		"p2": `{"entries":[{"id":"e2","action":"a"}],"response_metadata":{"next_cursor":""}}`,
	}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pages[r.URL.Query().Get("cursor")]))
	}))

	var ids []string
	err := webapi.Paginate(context.Background(), func(ctx context.Context, cursor string) (string, error) {
		res, err := c.GetLogs(ctx, LogsParams{Cursor: cursor})
		if err != nil {
			return "", err
		}
		for _, e := range res.Entries {
			ids = append(ids, e.ID)
		}
		return res.ResponseMetadata.NextCursor, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)
}

func TestGetActions(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actions", r.URL.Path)
		_, _ = w.Write([]byte(`{"actions":{"user":["user_login","user_logout"],"app":["app_installed"]}}`))
	}))

	res, err := c.GetActions(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Actions["user"], "user_login")
	assert.Contains(t, res.Actions["app"], "app_installed")
}

func TestNon2xxBecomesHTTPError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"not_authed"}`))
	}))

	_, err := c.GetLogs(context.Background(), LogsParams{})
	require.Error(t, err)

	var httpErr *webapi.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestRateLimitSurfacesAfterRetries(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.GetLogs(context.Background(), LogsParams{})
	var rle *webapi.RateLimitedError
	require.ErrorAs(t, err, &rle)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
