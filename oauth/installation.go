// Package oauth implements the app installation flow: authorize URL
// generation, the oauth.v2.access exchange, persistent installation and
// state stores with several backends, and token rotation for apps that
// opted into refresh tokens.
package oauth

import (
	"time"

	"github.com/gaborage/slackline/webapi"
)

// noneKey stands in for an absent enterprise, team or user id when building
// workspace keys, so single-workspace and enterprise installs share one
// keyspace.
const noneKey = "none"

// Installation is one grant of the app into a workspace by a user. A
// workspace can hold many installations (one per installing user); the
// newest one carries the active bot token.
type Installation struct {
	AppID                    string    `json:"app_id,omitempty"`
	EnterpriseID             string    `json:"enterprise_id,omitempty"`
	EnterpriseName           string    `json:"enterprise_name,omitempty"`
	TeamID                   string    `json:"team_id,omitempty"`
	TeamName                 string    `json:"team_name,omitempty"`
	IsEnterpriseInstall      bool      `json:"is_enterprise_install,omitempty"`
	BotToken                 string    `json:"bot_token,omitempty"`
	BotID                    string    `json:"bot_id,omitempty"`
	BotUserID                string    `json:"bot_user_id,omitempty"`
	BotScopes                string    `json:"bot_scopes,omitempty"`
	BotRefreshToken          string    `json:"bot_refresh_token,omitempty"`
	BotTokenExpiresAt        time.Time `json:"bot_token_expires_at,omitempty"`
	UserID                   string    `json:"user_id,omitempty"`
	UserToken                string    `json:"user_token,omitempty"`
	UserScopes               string    `json:"user_scopes,omitempty"`
	UserRefreshToken         string    `json:"user_refresh_token,omitempty"`
	UserTokenExpiresAt       time.Time `json:"user_token_expires_at,omitempty"`
	IncomingWebhookURL       string    `json:"incoming_webhook_url,omitempty"`
	IncomingWebhookChannel   string    `json:"incoming_webhook_channel,omitempty"`
	IncomingWebhookChannelID string    `json:"incoming_webhook_channel_id,omitempty"`
	InstalledAt              time.Time `json:"installed_at"`
}

// Bot is the workspace-level projection of an installation: everything an
// app needs to act as its bot user, without the installing user's grant.
type Bot struct {
	AppID             string    `json:"app_id,omitempty"`
	EnterpriseID      string    `json:"enterprise_id,omitempty"`
	TeamID            string    `json:"team_id,omitempty"`
	BotToken          string    `json:"bot_token,omitempty"`
	BotID             string    `json:"bot_id,omitempty"`
	BotUserID         string    `json:"bot_user_id,omitempty"`
	BotScopes         string    `json:"bot_scopes,omitempty"`
	BotRefreshToken   string    `json:"bot_refresh_token,omitempty"`
	BotTokenExpiresAt time.Time `json:"bot_token_expires_at,omitempty"`
	InstalledAt       time.Time `json:"installed_at"`
}

// ToBot projects the installation onto its bot grant.
func (i *Installation) ToBot() *Bot {
	return &Bot{
		AppID:             i.AppID,
		EnterpriseID:      i.EnterpriseID,
		TeamID:            i.TeamID,
		BotToken:          i.BotToken,
		BotID:             i.BotID,
		BotUserID:         i.BotUserID,
		BotScopes:         i.BotScopes,
		BotRefreshToken:   i.BotRefreshToken,
		BotTokenExpiresAt: i.BotTokenExpiresAt,
		InstalledAt:       i.InstalledAt,
	}
}

// NewInstallation builds an Installation from a completed token exchange.
func NewInstallation(res *webapi.OAuthV2AccessResult, now time.Time) *Installation {
	inst := &Installation{
		AppID:               res.AppID,
		IsEnterpriseInstall: res.IsEnterpriseInstall,
		BotToken:            res.AccessToken,
		BotUserID:           res.BotUserID,
		BotScopes:           res.Scope,
		BotRefreshToken:     res.RefreshToken,
		InstalledAt:         now,
	}
	if res.ExpiresIn > 0 {
		inst.BotTokenExpiresAt = now.Add(time.Duration(res.ExpiresIn) * time.Second)
	}
	if res.Team != nil {
		inst.TeamID = res.Team.ID
		inst.TeamName = res.Team.Name
	}
	if res.Enterprise != nil {
		inst.EnterpriseID = res.Enterprise.ID
		inst.EnterpriseName = res.Enterprise.Name
	}
	if u := res.AuthedUser; u != nil {
		inst.UserID = u.ID
		inst.UserToken = u.AccessToken
		inst.UserScopes = u.Scope
		inst.UserRefreshToken = u.RefreshToken
		if u.ExpiresIn > 0 {
			inst.UserTokenExpiresAt = now.Add(time.Duration(u.ExpiresIn) * time.Second)
		}
	}
	if hook := res.IncomingWebhook; hook != nil {
		inst.IncomingWebhookURL = hook.URL
		inst.IncomingWebhookChannel = hook.Channel
		inst.IncomingWebhookChannelID = hook.ChannelID
	}
	return inst
}

func orNone(s string) string {
	if s == "" {
		return noneKey
	}
	return s
}
