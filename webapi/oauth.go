package webapi

import (
	"context"
	"net/url"
)

// OAuthV2AccessParams are the inputs to an OAuth v2 token exchange. Exactly
// one of Code (authorization flow) or RefreshToken (rotation) is set.
type OAuthV2AccessParams struct {
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
	GrantType    string
	RefreshToken string
}

// TeamRef identifies a workspace or enterprise in OAuth responses.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// AuthedUser is the installing user's own grant within an OAuth response.
type AuthedUser struct {
	ID           string `json:"id"`
	Scope        string `json:"scope,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// IncomingWebhookInfo is the webhook issued alongside an installation when
// the app requested the incoming-webhook scope.
type IncomingWebhookInfo struct {
	Channel          string `json:"channel,omitempty"`
	ChannelID        string `json:"channel_id,omitempty"`
	ConfigurationURL string `json:"configuration_url,omitempty"`
	URL              string `json:"url,omitempty"`
}

// OAuthV2AccessResult is the full token-exchange response.
type OAuthV2AccessResult struct {
	APIResponse
	AccessToken         string               `json:"access_token,omitempty"`
	TokenType           string               `json:"token_type,omitempty"`
	Scope               string               `json:"scope,omitempty"`
	BotUserID           string               `json:"bot_user_id,omitempty"`
	AppID               string               `json:"app_id,omitempty"`
	ExpiresIn           int                  `json:"expires_in,omitempty"`
	RefreshToken        string               `json:"refresh_token,omitempty"`
	Team                *TeamRef             `json:"team,omitempty"`
	Enterprise          *TeamRef             `json:"enterprise,omitempty"`
	AuthedUser          *AuthedUser          `json:"authed_user,omitempty"`
	IncomingWebhook     *IncomingWebhookInfo `json:"incoming_webhook,omitempty"`
	IsEnterpriseInstall bool                 `json:"is_enterprise_install,omitempty"`
}

// OAuthV2Access exchanges an authorization code for tokens, or refreshes a
// rotated token when GrantType is "refresh_token". The call authenticates
// with the app's client credentials rather than a bearer token.
func (c *Client) OAuthV2Access(ctx context.Context, p OAuthV2AccessParams) (*OAuthV2AccessResult, error) {
	params := url.Values{}
	params.Set("client_id", p.ClientID)
	params.Set("client_secret", p.ClientSecret)
	if p.Code != "" {
		params.Set("code", p.Code)
	}
	if p.RedirectURI != "" {
		params.Set("redirect_uri", p.RedirectURI)
	}
	if p.GrantType != "" {
		params.Set("grant_type", p.GrantType)
	}
	if p.RefreshToken != "" {
		params.Set("refresh_token", p.RefreshToken)
	}

	res := &OAuthV2AccessResult{}
	if err := c.callWithToken(ctx, "oauth.v2.access", "", params, res); err != nil {
		return nil, err
	}
	return res, nil
}
