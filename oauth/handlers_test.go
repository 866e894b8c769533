package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slackline/webapi"
)

func newTestFlow(t *testing.T, exchange http.HandlerFunc) (*Flow, *MemoryInstallationStore, *MemoryStateStore) {
	t.Helper()

	srv := httptest.NewServer(exchange)
	t.Cleanup(srv.Close)

	api, err := webapi.NewFromConfig(webapi.Config{BaseURL: srv.URL, DisableRateLimit: true})
	require.NoError(t, err)

	states := NewMemoryStateStore(time.Minute)
	installs := NewMemoryInstallationStore()

	flow, err := NewFlow(FlowConfig{
		API:          api,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Generator: AuthorizeURLGenerator{
			Scopes:      []string{"chat:write"},
			RedirectURI: "https://example.com/oauth/callback",
		},
		States:        states,
		Installations: installs,
	})
	require.NoError(t, err)
	return flow, installs, states
}

func doRequest(t *testing.T, handler echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestInstallHandlerRedirectsToAuthorize(t *testing.T) {
	flow, _, states := newTestFlow(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no exchange expected during install")
	})

	rec := doRequest(t, flow.InstallHandler, "/install")
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "slack.com", location.Host)
	assert.Equal(t, "client-1", location.Query().Get("client_id"))
	assert.Equal(t, "chat:write", location.Query().Get("scope"))

	// The state in the redirect is consumable exactly once.
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	require.NoError(t, states.Consume(context.Background(), state))
}

func TestCallbackHandlerCompletesInstallation(t *testing.T) {
	flow, installs, states := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "code-1", r.Form.Get("code"))
		assert.Equal(t, "client-1", r.Form.Get("client_id"))
		_, _ = w.Write([]byte(`{"ok":true,"app_id":"A001","access_token":"xoxb-installed","bot_user_id":"U_BOT","scope":"chat:write","team":{"id":"T001","name":"Acme"},"authed_user":{"id":"U001"}}`))
	})

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	rec := doRequest(t, flow.CallbackHandler, "/oauth/callback?code=code-1&state="+state)
	require.Equal(t, http.StatusOK, rec.Code)

	inst, err := installs.FindInstallation(context.Background(), Query{TeamID: "T001"})
	require.NoError(t, err)
	assert.Equal(t, "xoxb-installed", inst.BotToken)
	assert.Equal(t, "U001", inst.UserID)
}

func TestCallbackHandlerRejectsBadState(t *testing.T) {
	flow, _, _ := newTestFlow(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no exchange expected with a bad state")
	})

	rec := doRequest(t, flow.CallbackHandler, "/oauth/callback?code=code-1&state=forged")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackHandlerStateIsOneShot(t *testing.T) {
	flow, _, states := newTestFlow(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"access_token":"xoxb-x","team":{"id":"T001"}}`))
	})

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	first := doRequest(t, flow.CallbackHandler, "/oauth/callback?code=code-1&state="+state)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, flow.CallbackHandler, "/oauth/callback?code=code-1&state="+state)
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestCallbackHandlerReportsDenial(t *testing.T) {
	flow, _, _ := newTestFlow(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no exchange expected when the user denied")
	})

	rec := doRequest(t, flow.CallbackHandler, "/oauth/callback?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackHandlerRequiresCode(t *testing.T) {
	flow, _, states := newTestFlow(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no exchange expected without a code")
	})

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	rec := doRequest(t, flow.CallbackHandler, "/oauth/callback?state="+state)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewFlowValidation(t *testing.T) {
	api := webapi.New("xoxb-test")
	states := NewMemoryStateStore(0)
	installs := NewMemoryInstallationStore()

	cases := []struct {
		name string
		cfg  FlowConfig
	}{
		{"missing api", FlowConfig{ClientID: "c", ClientSecret: "s", States: states, Installations: installs}},
		{"missing credentials", FlowConfig{API: api, States: states, Installations: installs}},
		{"missing states", FlowConfig{API: api, ClientID: "c", ClientSecret: "s", Installations: installs}},
		{"missing installations", FlowConfig{API: api, ClientID: "c", ClientSecret: "s", States: states}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFlow(tc.cfg)
			assert.Error(t, err)
		})
	}
}
