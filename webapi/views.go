package webapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/slackline/blockkit"
)

// ViewResult carries the server-side state of an opened or updated view.
// The view body stays raw: callers needing the full structure can decode it
// into their own types.
type ViewResult struct {
	APIResponse
	View json.RawMessage `json:"view,omitempty"`
}

// ViewsOpen opens a modal in response to a user interaction, identified by
// its trigger ID.
func (c *Client) ViewsOpen(ctx context.Context, triggerID string, view *blockkit.ModalView) (*ViewResult, error) {
	payload := struct {
		TriggerID string             `json:"trigger_id"`
		View      *blockkit.ModalView `json:"view"`
	}{TriggerID: triggerID, View: view}

	res := &ViewResult{}
	if err := c.postJSON(ctx, "views.open", payload, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ViewsPush stacks a new modal on top of the currently open one.
func (c *Client) ViewsPush(ctx context.Context, triggerID string, view *blockkit.ModalView) (*ViewResult, error) {
	payload := struct {
		TriggerID string             `json:"trigger_id"`
		View      *blockkit.ModalView `json:"view"`
	}{TriggerID: triggerID, View: view}

	res := &ViewResult{}
	if err := c.postJSON(ctx, "views.push", payload, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ViewsUpdate replaces the contents of an open modal. Hash guards against
// racing updates; pass the value from the previous view payload or empty to
// skip the check.
func (c *Client) ViewsUpdate(ctx context.Context, viewID, hash string, view *blockkit.ModalView) (*ViewResult, error) {
	payload := struct {
		ViewID string             `json:"view_id"`
		Hash   string             `json:"hash,omitempty"`
		View   *blockkit.ModalView `json:"view"`
	}{ViewID: viewID, Hash: hash, View: view}

	res := &ViewResult{}
	if err := c.postJSON(ctx, "views.update", payload, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ViewsPublish sets a user's App Home tab.
func (c *Client) ViewsPublish(ctx context.Context, userID string, view *blockkit.HomeView) (*ViewResult, error) {
	payload := struct {
		UserID string            `json:"user_id"`
		View   *blockkit.HomeView `json:"view"`
	}{UserID: userID, View: view}

	res := &ViewResult{}
	if err := c.postJSON(ctx, "views.publish", payload, res); err != nil {
		return nil, err
	}
	return res, nil
}
