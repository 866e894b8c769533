package oauth

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Store errors shared by every backend.
var (
	// ErrInstallationNotFound is returned when no installation matches a query.
	ErrInstallationNotFound = errors.New("oauth: installation not found")
	// ErrBotNotFound is returned when no bot grant matches a query.
	ErrBotNotFound = errors.New("oauth: bot not found")
	// ErrInvalidState is returned when a state parameter is unknown, expired
	// or already consumed.
	ErrInvalidState = errors.New("oauth: invalid state")
)

// Query selects installations by workspace. UserID narrows to one installing
// user; when empty, lookups fall back to the workspace's latest bot install.
// For enterprise-wide installs TeamID is empty and IsEnterpriseInstall is set.
type Query struct {
	EnterpriseID        string
	TeamID              string
	UserID              string
	IsEnterpriseInstall bool
}

// workspaceKey is the enterprise-team tuple every backend keys on.
func (q Query) workspaceKey() string {
	teamID := q.TeamID
	if q.IsEnterpriseInstall {
		teamID = ""
	}
	return orNone(q.EnterpriseID) + "-" + orNone(teamID)
}

func (q Query) userKey() string {
	return q.workspaceKey() + "-" + orNone(q.UserID)
}

func queryFor(inst *Installation) Query {
	return Query{
		EnterpriseID:        inst.EnterpriseID,
		TeamID:              inst.TeamID,
		UserID:              inst.UserID,
		IsEnterpriseInstall: inst.IsEnterpriseInstall,
	}
}

// InstallationStore persists installations and their bot projections.
// Implementations must keep FindBot consistent with the most recent
// SaveInstallation for the workspace.
type InstallationStore interface {
	// SaveInstallation persists inst, replacing any previous grant by the
	// same user, and refreshes the workspace's bot record.
	SaveInstallation(ctx context.Context, inst *Installation) error
	// FindInstallation returns the installation matching q. With an empty
	// UserID it returns the workspace's most recent installation.
	FindInstallation(ctx context.Context, q Query) (*Installation, error)
	// FindBot returns the workspace's bot grant.
	FindBot(ctx context.Context, q Query) (*Bot, error)
	// DeleteInstallation removes the grant matching q.
	DeleteInstallation(ctx context.Context, q Query) error
	// DeleteBot removes the workspace's bot record.
	DeleteBot(ctx context.Context, q Query) error
}

// StateStore issues and consumes the OAuth state parameter. A state is valid
// for a bounded lifetime and exactly one consumption.
type StateStore interface {
	// Issue creates a fresh state value.
	Issue(ctx context.Context) (string, error)
	// Consume validates and invalidates state, returning ErrInvalidState
	// when it is unknown, expired or already used.
	Consume(ctx context.Context, state string) error
}

// DefaultAuthorizeEndpoint is the platform's v2 authorization page.
const DefaultAuthorizeEndpoint = "https://slack.com/oauth/v2/authorize"

// AuthorizeURLGenerator builds the URL the installing user is redirected to.
type AuthorizeURLGenerator struct {
	// ClientID is the app's OAuth client id. Required.
	ClientID string
	// Scopes are the bot scopes to request.
	Scopes []string
	// UserScopes are the user scopes to request.
	UserScopes []string
	// RedirectURI overrides the app's configured redirect URI.
	RedirectURI string
	// AuthorizeEndpoint overrides DefaultAuthorizeEndpoint.
	AuthorizeEndpoint string
}

// Generate returns the authorization URL carrying the given state.
func (g AuthorizeURLGenerator) Generate(state string) (string, error) {
	if g.ClientID == "" {
		return "", errors.New("oauth: client id is required")
	}

	endpoint := g.AuthorizeEndpoint
	if endpoint == "" {
		endpoint = DefaultAuthorizeEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("client_id", g.ClientID)
	params.Set("state", state)
	if len(g.Scopes) > 0 {
		params.Set("scope", strings.Join(g.Scopes, ","))
	}
	if len(g.UserScopes) > 0 {
		params.Set("user_scope", strings.Join(g.UserScopes, ","))
	}
	if g.RedirectURI != "" {
		params.Set("redirect_uri", g.RedirectURI)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
