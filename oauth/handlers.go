package oauth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/webapi"
)

// FlowConfig wires the two HTTP handlers of the installation flow.
type FlowConfig struct {
	// API performs the oauth.v2.access exchange. Required.
	API *webapi.Client
	// ClientID and ClientSecret are the app's OAuth credentials. Required.
	ClientID     string
	ClientSecret string
	// Generator builds authorize URLs. Its ClientID defaults to ClientID.
	Generator AuthorizeURLGenerator
	// States issues and consumes the state parameter. Required.
	States StateStore
	// Installations persists completed installations. Required.
	Installations InstallationStore
	// SuccessURL is where the user lands after installing (default: a plain
	// 200 page).
	SuccessURL string
	// Log receives structured flow logs (default: discard).
	Log logger.Logger
}

// Flow serves the install and callback endpoints of the OAuth flow. Mount
// InstallHandler where users start installation and CallbackHandler at the
// app's redirect URI.
type Flow struct {
	cfg FlowConfig
	log logger.Logger
	now func() time.Time
}

// NewFlow validates cfg and creates the flow.
func NewFlow(cfg FlowConfig) (*Flow, error) {
	if cfg.API == nil {
		return nil, errors.New("oauth: flow requires a webapi client")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("oauth: flow requires client credentials")
	}
	if cfg.States == nil {
		return nil, errors.New("oauth: flow requires a state store")
	}
	if cfg.Installations == nil {
		return nil, errors.New("oauth: flow requires an installation store")
	}
	if cfg.Generator.ClientID == "" {
		cfg.Generator.ClientID = cfg.ClientID
	}
	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}
	return &Flow{cfg: cfg, log: log, now: time.Now}, nil
}

// InstallHandler issues a state and redirects the user to the authorize page.
func (f *Flow) InstallHandler(c echo.Context) error {
	state, err := f.cfg.States.Issue(c.Request().Context())
	if err != nil {
		f.log.Error().Err(err).Msg("issuing oauth state failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start installation")
	}

	authorizeURL, err := f.cfg.Generator.Generate(state)
	if err != nil {
		f.log.Error().Err(err).Msg("building authorize url failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start installation")
	}
	return c.Redirect(http.StatusFound, authorizeURL)
}

// CallbackHandler consumes the state, exchanges the code for tokens and
// persists the installation.
func (f *Flow) CallbackHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if denied := c.QueryParam("error"); denied != "" {
		f.log.Warn().Str("reason", denied).Msg("installation denied")
		return echo.NewHTTPError(http.StatusBadRequest, "installation was cancelled")
	}

	if err := f.cfg.States.Consume(ctx, c.QueryParam("state")); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid state parameter")
		}
		f.log.Error().Err(err).Msg("consuming oauth state failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not verify state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing code parameter")
	}

	res, err := f.cfg.API.OAuthV2Access(ctx, webapi.OAuthV2AccessParams{
		ClientID:     f.cfg.ClientID,
		ClientSecret: f.cfg.ClientSecret,
		Code:         code,
		RedirectURI:  f.cfg.Generator.RedirectURI,
	})
	if err != nil {
		f.log.Error().Err(err).Msg("token exchange failed")
		return echo.NewHTTPError(http.StatusBadGateway, "token exchange failed")
	}

	inst := NewInstallation(res, f.now())
	if err := f.cfg.Installations.SaveInstallation(ctx, inst); err != nil {
		f.log.Error().Err(err).Str("team_id", inst.TeamID).Msg("saving installation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not persist installation")
	}

	f.log.Info().
		Str("team_id", inst.TeamID).
		Str("enterprise_id", inst.EnterpriseID).
		Str("user_id", inst.UserID).
		Msg("app installed")

	if f.cfg.SuccessURL != "" {
		return c.Redirect(http.StatusFound, f.cfg.SuccessURL)
	}
	return c.String(http.StatusOK, "Installation completed. You can close this page.")
}
