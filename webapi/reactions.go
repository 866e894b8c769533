package webapi

import (
	"context"
	"net/url"
)

func messageRef(channelID, timestamp string) url.Values {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("timestamp", timestamp)
	return params
}

// ReactionsAdd adds an emoji reaction to a message.
func (c *Client) ReactionsAdd(ctx context.Context, name, channelID, timestamp string) error {
	params := messageRef(channelID, timestamp)
	params.Set("name", name)
	return c.postForm(ctx, "reactions.add", params, &APIResponse{})
}

// ReactionsRemove removes an emoji reaction from a message.
func (c *Client) ReactionsRemove(ctx context.Context, name, channelID, timestamp string) error {
	params := messageRef(channelID, timestamp)
	params.Set("name", name)
	return c.postForm(ctx, "reactions.remove", params, &APIResponse{})
}

// ReactionsGetResult carries the reacted-to message.
type ReactionsGetResult struct {
	APIResponse
	Type    string  `json:"type,omitempty"`
	Channel string  `json:"channel,omitempty"`
	Message Message `json:"message,omitempty"`
}

// ReactionsGet fetches the reactions on a message.
func (c *Client) ReactionsGet(ctx context.Context, channelID, timestamp string) (*ReactionsGetResult, error) {
	res := &ReactionsGetResult{}
	if err := c.postForm(ctx, "reactions.get", messageRef(channelID, timestamp), res); err != nil {
		return nil, err
	}
	return res, nil
}

// PinsAdd pins a message to a conversation.
func (c *Client) PinsAdd(ctx context.Context, channelID, timestamp string) error {
	return c.postForm(ctx, "pins.add", messageRef(channelID, timestamp), &APIResponse{})
}

// PinsRemove unpins a message from a conversation.
func (c *Client) PinsRemove(ctx context.Context, channelID, timestamp string) error {
	return c.postForm(ctx, "pins.remove", messageRef(channelID, timestamp), &APIResponse{})
}

// PinnedItem is one entry in a conversation's pin list.
type PinnedItem struct {
	Type      string   `json:"type"`
	Channel   string   `json:"channel,omitempty"`
	Message   *Message `json:"message,omitempty"`
	File      *File    `json:"file,omitempty"`
	CreatedBy string   `json:"created_by,omitempty"`
	Created   int64    `json:"created,omitempty"`
}

// PinsListResult is the full pin list of a conversation.
type PinsListResult struct {
	APIResponse
	Items []PinnedItem `json:"items"`
}

// PinsList lists everything pinned in a conversation.
func (c *Client) PinsList(ctx context.Context, channelID string) (*PinsListResult, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	res := &PinsListResult{}
	if err := c.postForm(ctx, "pins.list", params, res); err != nil {
		return nil, err
	}
	return res, nil
}
