package webapi

import (
	"context"
	"net/url"
	"strconv"
)

// UsersListResult is one page of workspace members.
type UsersListResult struct {
	APIResponse
	Members []User `json:"members"`
}

// UsersList lists workspace members, one page per call.
func (c *Client) UsersList(ctx context.Context, cursor string, limit int) (*UsersListResult, error) {
	params := url.Values{}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	res := &UsersListResult{}
	if err := c.postForm(ctx, "users.list", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

type userResult struct {
	APIResponse
	User User `json:"user"`
}

// UsersInfo fetches a single member by user ID.
func (c *Client) UsersInfo(ctx context.Context, userID string) (*User, error) {
	params := url.Values{}
	params.Set("user", userID)
	res := &userResult{}
	if err := c.postForm(ctx, "users.info", params, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// UsersLookupByEmail finds a member by their registered email address.
func (c *Client) UsersLookupByEmail(ctx context.Context, email string) (*User, error) {
	params := url.Values{}
	params.Set("email", email)
	res := &userResult{}
	if err := c.postForm(ctx, "users.lookupByEmail", params, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// UsersGetPresenceResult reports a member's presence.
type UsersGetPresenceResult struct {
	APIResponse
	Presence        string `json:"presence,omitempty"`
	Online          bool   `json:"online,omitempty"`
	AutoAway        bool   `json:"auto_away,omitempty"`
	ManualAway      bool   `json:"manual_away,omitempty"`
	ConnectionCount int    `json:"connection_count,omitempty"`
}

// UsersGetPresence fetches a member's current presence state.
func (c *Client) UsersGetPresence(ctx context.Context, userID string) (*UsersGetPresenceResult, error) {
	params := url.Values{}
	params.Set("user", userID)
	res := &UsersGetPresenceResult{}
	if err := c.postForm(ctx, "users.getPresence", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// UsersSetPresence manually sets the calling user's presence to "auto" or
// "away".
func (c *Client) UsersSetPresence(ctx context.Context, presence string) error {
	params := url.Values{}
	params.Set("presence", presence)
	return c.postForm(ctx, "users.setPresence", params, &APIResponse{})
}
