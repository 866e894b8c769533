package webapi

import (
	"context"
	"net/url"
	"strconv"
)

// APITest checks connectivity to the Web API. The platform echoes any
// provided parameters back in the response args.
func (c *Client) APITest(ctx context.Context) error {
	return c.postForm(ctx, "api.test", nil, &APIResponse{})
}

type teamInfoResult struct {
	APIResponse
	Team Team `json:"team"`
}

// TeamInfo fetches metadata about the token's workspace.
func (c *Client) TeamInfo(ctx context.Context) (*Team, error) {
	res := &teamInfoResult{}
	if err := c.postForm(ctx, "team.info", nil, res); err != nil {
		return nil, err
	}
	return &res.Team, nil
}

// EmojiListResult maps custom emoji names to image URLs or aliases.
type EmojiListResult struct {
	APIResponse
	Emoji map[string]string `json:"emoji"`
}

// EmojiList fetches the workspace's custom emoji.
func (c *Client) EmojiList(ctx context.Context) (*EmojiListResult, error) {
	res := &EmojiListResult{}
	if err := c.postForm(ctx, "emoji.list", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

type botsInfoResult struct {
	APIResponse
	Bot Bot `json:"bot"`
}

// BotsInfo fetches metadata for a bot user by bot ID.
func (c *Client) BotsInfo(ctx context.Context, botID string) (*Bot, error) {
	params := url.Values{}
	params.Set("bot", botID)
	res := &botsInfoResult{}
	if err := c.postForm(ctx, "bots.info", params, res); err != nil {
		return nil, err
	}
	return &res.Bot, nil
}

// UserGroupsListResult is the workspace's user group roster.
type UserGroupsListResult struct {
	APIResponse
	UserGroups []UserGroup `json:"usergroups"`
}

// UserGroupsList lists the workspace's user groups.
func (c *Client) UserGroupsList(ctx context.Context, includeUsers bool) (*UserGroupsListResult, error) {
	params := url.Values{}
	if includeUsers {
		params.Set("include_users", strconv.FormatBool(includeUsers))
	}
	res := &UserGroupsListResult{}
	if err := c.postForm(ctx, "usergroups.list", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// UserGroupsUsersListResult is the membership of one user group.
type UserGroupsUsersListResult struct {
	APIResponse
	Users []string `json:"users"`
}

// UserGroupsUsersList lists the user IDs belonging to a user group.
func (c *Client) UserGroupsUsersList(ctx context.Context, usergroupID string) (*UserGroupsUsersListResult, error) {
	params := url.Values{}
	params.Set("usergroup", usergroupID)
	res := &UserGroupsUsersListResult{}
	if err := c.postForm(ctx, "usergroups.users.list", params, res); err != nil {
		return nil, err
	}
	return res, nil
}
