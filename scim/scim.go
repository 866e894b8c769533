// Package scim is a thin client for the platform's SCIM provisioning API:
// user and group CRUD plus filtered, paged search. Available to Enterprise
// Grid organizations with an admin-scoped user token.
package scim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gaborage/slackline/internal/transport"
	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/trace"
)

// DefaultBaseURL is the SCIM v1 API root.
const DefaultBaseURL = "https://api.slack.com/scim/v1/"

const maxResponseBytes = 10 << 20

// Error is a SCIM-schema error response.
type Error struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("scim: %s (status %d)", e.Description, e.Code)
}

type errorBody struct {
	Errors Error `json:"Errors"`
}

// Config holds the SCIM client configuration.
type Config struct {
	// Token is an admin-scoped user token. Required.
	Token string
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// Timeout bounds each HTTP exchange when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
	// RetryHandlers replaces the default retry chain.
	RetryHandlers []retry.Handler
	// Log receives structured client logs (default: discard).
	Log logger.Logger
}

// Client is a SCIM API client. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	handlers   []retry.Handler
	log        logger.Logger
}

// New creates a SCIM client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("scim: token is required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("scim: invalid base URL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
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

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		handlers:   handlers,
		log:        log,
	}, nil
}

// SearchParams filter and page a search call.
type SearchParams struct {
	// Filter is a SCIM filter expression, e.g. `userName eq "jdoe"`.
	Filter string
	// StartIndex is the 1-based index of the first result.
	StartIndex int
	// Count bounds the page size.
	Count int
}

func (p SearchParams) query() url.Values {
	q := url.Values{}
	if p.Filter != "" {
		q.Set("filter", p.Filter)
	}
	if p.StartIndex > 0 {
		q.Set("startIndex", strconv.Itoa(p.StartIndex))
	}
	if p.Count > 0 {
		q.Set("count", strconv.Itoa(p.Count))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("scim: encoding request: %w", err)
		}
	}

	requestID := trace.EnsureRequestID(ctx)
	ctx = trace.WithRequestID(ctx, requestID)
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	resp, err := transport.Do(ctx, c.httpClient, c.handlers, c.log, func(ctx context.Context) (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set(trace.HeaderXRequestID, requestID)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("scim: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("scim: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Errors.Description != "" {
			return &eb.Errors
		}
		return &Error{Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("scim: decoding response: %w", err)
	}
	return nil
}
