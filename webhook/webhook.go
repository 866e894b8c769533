// Package webhook posts messages to incoming webhook URLs. A webhook URL is
// issued per channel during app installation and accepts a message payload
// without any token, so this client is deliberately small: one Send call
// backed by the same retry chain the Web API client uses.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/trace"
	"github.com/gaborage/slackline/webapi"
)

const maxResponseBytes = 1 << 20

// Message is an incoming-webhook payload. Webhooks accept the same message
// shape as chat.postMessage minus the channel routing fields, which the URL
// itself encodes.
type Message struct {
	Text        string            `json:"text,omitempty"`
	Blocks      []json.RawMessage `json:"blocks,omitempty"`
	Attachments []json.RawMessage `json:"attachments,omitempty"`
	ThreadTS    string            `json:"thread_ts,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	UnfurlLinks *bool             `json:"unfurl_links,omitempty"`
	UnfurlMedia *bool             `json:"unfurl_media,omitempty"`
}

// Config holds the webhook client configuration. The zero value is usable.
type Config struct {
	// Timeout bounds each HTTP exchange when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
	// RetryHandlers replaces the default retry chain.
	RetryHandlers []retry.Handler
	// Log receives structured client logs (default: discard).
	Log logger.Logger
}

// Client posts messages to incoming webhook URLs. It is safe for concurrent
// use and can serve many webhook URLs.
type Client struct {
	httpClient *http.Client
	handlers   []retry.Handler
	log        logger.Logger
}

// New creates a webhook client with default configuration.
func New() *Client {
	return NewFromConfig(Config{})
}

// NewFromConfig creates a webhook client from an explicit configuration.
func NewFromConfig(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = webapi.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	handlers := cfg.RetryHandlers
	if handlers == nil {
		handlers = retry.DefaultHandlers()
	}

	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}

	return &Client{httpClient: httpClient, handlers: handlers, log: log}
}

// Send posts msg to the given webhook URL. The platform answers a bare "ok"
// body on success; any non-2xx status is returned as a webapi.HTTPError so
// callers can branch on the code.
func (c *Client) Send(ctx context.Context, url string, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: encoding message: %w", err)
	}

	ctx = trace.WithRequestID(ctx, trace.EnsureRequestID(ctx))
	state := &retry.State{}

	for {
		resp, sendErr := c.post(ctx, url, body)
		handler := c.acceptingHandler(ctx, state, resp, sendErr)
		if handler == nil {
			return c.finish(resp, sendErr)
		}

		c.log.Debug().
			Str("handler", handler.Name()).
			Int("attempt", state.Attempt).
			Msg("retrying webhook delivery")
		if err := handler.Prepare(ctx, state, resp); err != nil {
			drain(resp)
			return err
		}
		drain(resp)
	}
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("webhook: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id, ok := trace.IDFromContext(ctx); ok {
		req.Header.Set(trace.HeaderXRequestID, id)
	}
	return c.httpClient.Do(req)
}

func (c *Client) acceptingHandler(ctx context.Context, state *retry.State, resp *http.Response, err error) retry.Handler {
	for _, h := range c.handlers {
		if h.CanRetry(ctx, state, nil, resp, err) {
			return h
		}
	}
	return nil
}

func (c *Client) finish(resp *http.Response, sendErr error) error {
	if sendErr != nil {
		return fmt.Errorf("webhook: sending message: %w", sendErr)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := retry.RetryAfter(resp)
		return &webapi.RateLimitedError{RetryAfter: retryAfter}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &webapi.HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	// Webhooks answer a plain-text body, "ok" on success.
	if text := strings.TrimSpace(string(body)); text != "" && text != "ok" {
		return fmt.Errorf("webhook: unexpected response body %q", text)
	}
	return nil
}

func drain(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
}
