package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/gaborage/slackline/webapi"
)

// DefaultRefreshWindow is how close to expiry a token gets before the
// rotator refreshes it.
const DefaultRefreshWindow = 2 * time.Hour

// TokenRotator refreshes rotated bot and user tokens through oauth.v2.access
// before they expire. Apps that did not opt into token rotation never carry
// an expiry and pass through untouched.
type TokenRotator struct {
	api           *webapi.Client
	clientID      string
	clientSecret  string
	refreshWindow time.Duration
	now           func() time.Time
}

// NewTokenRotator creates a rotator using the given client credentials.
func NewTokenRotator(api *webapi.Client, clientID, clientSecret string, refreshWindow time.Duration) *TokenRotator {
	if refreshWindow <= 0 {
		refreshWindow = DefaultRefreshWindow
	}
	return &TokenRotator{
		api:           api,
		clientID:      clientID,
		clientSecret:  clientSecret,
		refreshWindow: refreshWindow,
		now:           time.Now,
	}
}

// MaybeRefresh refreshes the installation's bot and user tokens when either
// is inside the refresh window. It returns the (possibly updated)
// installation and whether anything changed; callers persist on true.
func (r *TokenRotator) MaybeRefresh(ctx context.Context, inst *Installation) (*Installation, bool, error) {
	rotated := false
	out := *inst

	if r.due(inst.BotTokenExpiresAt) && inst.BotRefreshToken != "" {
		res, err := r.refresh(ctx, inst.BotRefreshToken)
		if err != nil {
			return nil, false, fmt.Errorf("oauth: rotating bot token: %w", err)
		}
		out.BotToken = res.AccessToken
		out.BotRefreshToken = res.RefreshToken
		if res.ExpiresIn > 0 {
			out.BotTokenExpiresAt = r.now().Add(time.Duration(res.ExpiresIn) * time.Second)
		}
		rotated = true
	}

	if r.due(inst.UserTokenExpiresAt) && inst.UserRefreshToken != "" {
		res, err := r.refresh(ctx, inst.UserRefreshToken)
		if err != nil {
			return nil, false, fmt.Errorf("oauth: rotating user token: %w", err)
		}
		out.UserToken = res.AccessToken
		out.UserRefreshToken = res.RefreshToken
		if res.ExpiresIn > 0 {
			out.UserTokenExpiresAt = r.now().Add(time.Duration(res.ExpiresIn) * time.Second)
		}
		if u := res.AuthedUser; u != nil && u.AccessToken != "" {
			out.UserToken = u.AccessToken
			out.UserRefreshToken = u.RefreshToken
			if u.ExpiresIn > 0 {
				out.UserTokenExpiresAt = r.now().Add(time.Duration(u.ExpiresIn) * time.Second)
			}
		}
		rotated = true
	}

	if !rotated {
		return inst, false, nil
	}
	return &out, true, nil
}

func (r *TokenRotator) due(expiresAt time.Time) bool {
	if expiresAt.IsZero() {
		return false
	}
	return r.now().Add(r.refreshWindow).After(expiresAt)
}

func (r *TokenRotator) refresh(ctx context.Context, refreshToken string) (*webapi.OAuthV2AccessResult, error) {
	return r.api.OAuthV2Access(ctx, webapi.OAuthV2AccessParams{
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
}
