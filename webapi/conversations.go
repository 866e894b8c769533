package webapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// ConversationsListParams filters conversations.list.
type ConversationsListParams struct {
	Cursor          string
	Limit           int
	ExcludeArchived bool
	Types           []string
	TeamID          string
}

// ConversationsListResult is one page of conversations.
type ConversationsListResult struct {
	APIResponse
	Channels []Channel `json:"channels"`
}

// ConversationsList lists conversations visible to the token, one page per
// call. Use Paginate with the returned next cursor for full traversal.
func (c *Client) ConversationsList(ctx context.Context, p ConversationsListParams) (*ConversationsListResult, error) {
	params := url.Values{}
	if p.Cursor != "" {
		params.Set("cursor", p.Cursor)
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.ExcludeArchived {
		params.Set("exclude_archived", "true")
	}
	if len(p.Types) > 0 {
		params.Set("types", strings.Join(p.Types, ","))
	}
	if p.TeamID != "" {
		params.Set("team_id", p.TeamID)
	}
	res := &ConversationsListResult{}
	if err := c.postForm(ctx, "conversations.list", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

type conversationResult struct {
	APIResponse
	Channel Channel `json:"channel"`
}

// ConversationsInfo fetches metadata for a single conversation.
func (c *Client) ConversationsInfo(ctx context.Context, channelID string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.info", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// ConversationsCreate creates a public or private channel.
func (c *Client) ConversationsCreate(ctx context.Context, name string, isPrivate bool) (*Channel, error) {
	params := url.Values{}
	params.Set("name", name)
	if isPrivate {
		params.Set("is_private", "true")
	}
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.create", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// ConversationsArchive archives a conversation.
func (c *Client) ConversationsArchive(ctx context.Context, channelID string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	return c.postForm(ctx, "conversations.archive", params, &APIResponse{})
}

// ConversationsInvite invites users to a conversation.
func (c *Client) ConversationsInvite(ctx context.Context, channelID string, userIDs ...string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("users", strings.Join(userIDs, ","))
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.invite", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// ConversationsJoin joins the calling user to a public channel.
func (c *Client) ConversationsJoin(ctx context.Context, channelID string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.join", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// ConversationsLeave removes the calling user from a conversation.
func (c *Client) ConversationsLeave(ctx context.Context, channelID string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	return c.postForm(ctx, "conversations.leave", params, &APIResponse{})
}

// ConversationsOpen opens (or resumes) a direct or multi-party message with
// the given users.
func (c *Client) ConversationsOpen(ctx context.Context, userIDs ...string) (*Channel, error) {
	params := url.Values{}
	params.Set("users", strings.Join(userIDs, ","))
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.open", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// HistoryParams filters conversations.history and conversations.replies.
type HistoryParams struct {
	Cursor    string
	Limit     int
	Oldest    string
	Latest    string
	Inclusive bool
}

func (p HistoryParams) values(channelID string) url.Values {
	params := url.Values{}
	params.Set("channel", channelID)
	if p.Cursor != "" {
		params.Set("cursor", p.Cursor)
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Oldest != "" {
		params.Set("oldest", p.Oldest)
	}
	if p.Latest != "" {
		params.Set("latest", p.Latest)
	}
	if p.Inclusive {
		params.Set("inclusive", "true")
	}
	return params
}

// ConversationsHistoryResult is one page of channel history.
type ConversationsHistoryResult struct {
	APIResponse
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more,omitempty"`
	PinCount int       `json:"pin_count,omitempty"`
	Latest   string    `json:"latest,omitempty"`
}

// ConversationsHistory fetches one page of a conversation's message history.
func (c *Client) ConversationsHistory(ctx context.Context, channelID string, p HistoryParams) (*ConversationsHistoryResult, error) {
	res := &ConversationsHistoryResult{}
	if err := c.postForm(ctx, "conversations.history", p.values(channelID), res); err != nil {
		return nil, err
	}
	return res, nil
}

// ConversationsReplies fetches one page of a thread, identified by the parent
// message timestamp.
func (c *Client) ConversationsReplies(ctx context.Context, channelID, threadTS string, p HistoryParams) (*ConversationsHistoryResult, error) {
	params := p.values(channelID)
	params.Set("ts", threadTS)
	res := &ConversationsHistoryResult{}
	if err := c.postForm(ctx, "conversations.replies", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ConversationsMembersResult is one page of conversation member IDs.
type ConversationsMembersResult struct {
	APIResponse
	Members []string `json:"members"`
}

// ConversationsMembers lists one page of member user IDs for a conversation.
func (c *Client) ConversationsMembers(ctx context.Context, channelID, cursor string, limit int) (*ConversationsMembersResult, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	res := &ConversationsMembersResult{}
	if err := c.postForm(ctx, "conversations.members", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ConversationsSetTopic sets the conversation topic.
func (c *Client) ConversationsSetTopic(ctx context.Context, channelID, topic string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("topic", topic)
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.setTopic", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}

// ConversationsSetPurpose sets the conversation purpose.
func (c *Client) ConversationsSetPurpose(ctx context.Context, channelID, purpose string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("purpose", purpose)
	res := &conversationResult{}
	if err := c.postForm(ctx, "conversations.setPurpose", params, res); err != nil {
		return nil, err
	}
	return &res.Channel, nil
}
