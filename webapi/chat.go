package webapi

import (
	"context"
	"net/url"

	"github.com/gaborage/slackline/blockkit"
)

// MessageParams describes an outgoing channel message. Text is the fallback
// rendering when Blocks are present.
type MessageParams struct {
	Channel        string           `json:"channel"`
	Text           string           `json:"text,omitempty"`
	Blocks         []blockkit.Block `json:"blocks,omitempty"`
	ThreadTS       string           `json:"thread_ts,omitempty"`
	ReplyBroadcast bool             `json:"reply_broadcast,omitempty"`
	UnfurlLinks    *bool            `json:"unfurl_links,omitempty"`
	UnfurlMedia    *bool            `json:"unfurl_media,omitempty"`
	Parse          string           `json:"parse,omitempty"`
	LinkNames      bool             `json:"link_names,omitempty"`
	IconEmoji      string           `json:"icon_emoji,omitempty"`
	IconURL        string           `json:"icon_url,omitempty"`
	Username       string           `json:"username,omitempty"`
	Mrkdwn         *bool            `json:"mrkdwn,omitempty"`
}

// ChatPostMessageResult is the acknowledgement for a posted message.
type ChatPostMessageResult struct {
	APIResponse
	Channel string  `json:"channel,omitempty"`
	TS      string  `json:"ts,omitempty"`
	Message Message `json:"message,omitempty"`
}

// ChatPostMessage posts a message to a conversation.
func (c *Client) ChatPostMessage(ctx context.Context, params MessageParams) (*ChatPostMessageResult, error) {
	res := &ChatPostMessageResult{}
	if err := c.postJSON(ctx, "chat.postMessage", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// EphemeralMessageParams describes a message visible to a single user.
type EphemeralMessageParams struct {
	MessageParams
	User string `json:"user"`
}

// ChatPostEphemeralResult is the acknowledgement for an ephemeral message.
type ChatPostEphemeralResult struct {
	APIResponse
	MessageTS string `json:"message_ts,omitempty"`
}

// ChatPostEphemeral posts a message only the target user can see.
func (c *Client) ChatPostEphemeral(ctx context.Context, params EphemeralMessageParams) (*ChatPostEphemeralResult, error) {
	res := &ChatPostEphemeralResult{}
	if err := c.postJSON(ctx, "chat.postEphemeral", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ChatUpdateParams describes an edit to an existing message.
type ChatUpdateParams struct {
	Channel string           `json:"channel"`
	TS      string           `json:"ts"`
	Text    string           `json:"text,omitempty"`
	Blocks  []blockkit.Block `json:"blocks,omitempty"`
	Parse   string           `json:"parse,omitempty"`
}

// ChatUpdateResult is the acknowledgement for a message edit.
type ChatUpdateResult struct {
	APIResponse
	Channel string  `json:"channel,omitempty"`
	TS      string  `json:"ts,omitempty"`
	Text    string  `json:"text,omitempty"`
	Message Message `json:"message,omitempty"`
}

// ChatUpdate edits a previously posted message.
func (c *Client) ChatUpdate(ctx context.Context, params ChatUpdateParams) (*ChatUpdateResult, error) {
	res := &ChatUpdateResult{}
	if err := c.postJSON(ctx, "chat.update", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ChatDeleteResult is the acknowledgement for a message deletion.
type ChatDeleteResult struct {
	APIResponse
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// ChatDelete deletes a message.
func (c *Client) ChatDelete(ctx context.Context, channel, ts string) (*ChatDeleteResult, error) {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("ts", ts)
	res := &ChatDeleteResult{}
	if err := c.postForm(ctx, "chat.delete", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ScheduledMessageParams describes a message to deliver at a future time.
type ScheduledMessageParams struct {
	MessageParams
	PostAt int64 `json:"post_at"`
}

// ChatScheduleMessageResult is the acknowledgement for a scheduled message.
type ChatScheduleMessageResult struct {
	APIResponse
	Channel            string `json:"channel,omitempty"`
	ScheduledMessageID string `json:"scheduled_message_id,omitempty"`
	PostAt             int64  `json:"post_at,omitempty"`
}

// ChatScheduleMessage schedules a message for future delivery.
func (c *Client) ChatScheduleMessage(ctx context.Context, params ScheduledMessageParams) (*ChatScheduleMessageResult, error) {
	res := &ChatScheduleMessageResult{}
	if err := c.postJSON(ctx, "chat.scheduleMessage", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ChatGetPermalinkResult carries the permanent link for a message.
type ChatGetPermalinkResult struct {
	APIResponse
	Channel   string `json:"channel,omitempty"`
	Permalink string `json:"permalink,omitempty"`
}

// ChatGetPermalink resolves a permanent URL for a posted message.
func (c *Client) ChatGetPermalink(ctx context.Context, channel, messageTS string) (*ChatGetPermalinkResult, error) {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("message_ts", messageTS)
	res := &ChatGetPermalinkResult{}
	if err := c.postForm(ctx, "chat.getPermalink", params, res); err != nil {
		return nil, err
	}
	return res, nil
}
