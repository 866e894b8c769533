package webapi

import (
	"context"
	"net/url"
	"strconv"
)

// AuthTestResult identifies the authenticated token's workspace and user.
type AuthTestResult struct {
	APIResponse
	URL                 string `json:"url,omitempty"`
	Team                string `json:"team,omitempty"`
	User                string `json:"user,omitempty"`
	TeamID              string `json:"team_id,omitempty"`
	UserID              string `json:"user_id,omitempty"`
	BotID               string `json:"bot_id,omitempty"`
	EnterpriseID        string `json:"enterprise_id,omitempty"`
	IsEnterpriseInstall bool   `json:"is_enterprise_install,omitempty"`
}

// AuthTest checks token validity and returns the authenticated identity.
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResult, error) {
	res := &AuthTestResult{}
	if err := c.postForm(ctx, "auth.test", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// AuthRevokeResult reports whether the token was revoked.
type AuthRevokeResult struct {
	APIResponse
	Revoked bool `json:"revoked"`
}

// AuthRevoke revokes the client's token. With test set, the platform only
// simulates the revocation.
func (c *Client) AuthRevoke(ctx context.Context, test bool) (*AuthRevokeResult, error) {
	params := url.Values{}
	if test {
		params.Set("test", strconv.FormatBool(test))
	}
	res := &AuthRevokeResult{}
	if err := c.postForm(ctx, "auth.revoke", params, res); err != nil {
		return nil, err
	}
	return res, nil
}
