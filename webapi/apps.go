package webapi

import "context"

// AppsConnectionsOpenResult carries the WebSocket URL for a Socket Mode
// connection.
type AppsConnectionsOpenResult struct {
	APIResponse
	URL string `json:"url,omitempty"`
}

// AppsConnectionsOpen requests a fresh Socket Mode WebSocket URL. Requires
// an app-level token; issued URLs are single-use and short-lived.
func (c *Client) AppsConnectionsOpen(ctx context.Context) (*AppsConnectionsOpenResult, error) {
	res := &AppsConnectionsOpenResult{}
	if err := c.postAppForm(ctx, "apps.connections.open", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// RTMConnectResult carries the WebSocket URL and identity for a legacy RTM
// session.
type RTMConnectResult struct {
	APIResponse
	URL  string `json:"url,omitempty"`
	Self struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"self,omitempty"`
	Team struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Domain string `json:"domain"`
	} `json:"team,omitempty"`
}

// RTMConnect requests a WebSocket URL for the legacy Real Time Messaging
// API. Socket Mode is the preferred transport for new applications.
func (c *Client) RTMConnect(ctx context.Context) (*RTMConnectResult, error) {
	res := &RTMConnectResult{}
	if err := c.postForm(ctx, "rtm.connect", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}
