// Package auditlogs is a thin client for the platform's Audit Logs API:
// filtered, cursor-paged access to organization audit events. Available to
// Enterprise Grid organizations with an org-admin user token.
package auditlogs

import (
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
	"github.com/gaborage/slackline/webapi"
)

// DefaultBaseURL is the Audit Logs API root.
const DefaultBaseURL = "https://api.slack.com/audit/v1/"

const maxResponseBytes = 10 << 20

// Config holds the Audit Logs client configuration.
type Config struct {
	// Token is an org-admin user token. Required.
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

// Client is an Audit Logs API client. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	handlers   []retry.Handler
	log        logger.Logger
}

// New creates an Audit Logs client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("auditlogs: token is required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("auditlogs: invalid base URL %q: %w", cfg.BaseURL, err)
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

// Actor is who performed an audited action.
type Actor struct {
	Type string `json:"type"`
	User struct {
		ID    string `json:"id,omitempty"`
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	} `json:"user,omitempty"`
}

// Entity is what an audited action was performed on.
type Entity struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the full entity body available alongside the type.
func (e *Entity) UnmarshalJSON(data []byte) error {
	type head struct {
		Type string `json:"type"`
	}
	var h head
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	e.Type = h.Type
	e.Raw = append(e.Raw[:0], data...)
	return nil
}

// Entry is one audit log event.
type Entry struct {
	ID         string          `json:"id"`
	DateCreate int64           `json:"date_create"`
	Action     string          `json:"action"`
	Actor      Actor           `json:"actor"`
	Entity     Entity          `json:"entity"`
	Context    json.RawMessage `json:"context,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// LogsParams filter a logs query. Zero fields are omitted.
type LogsParams struct {
	// Latest and Oldest bound the time range (unix seconds).
	Latest int64
	Oldest int64
	// Limit bounds the page size (max 9999).
	Limit int
	// Action filters by action name, e.g. "user_login".
	Action string
	// Actor filters by acting user id.
	Actor string
	// Entity filters by target entity id.
	Entity string
	// Cursor continues a previous page.
	Cursor string
}

// LogsResult is one page of audit log entries.
type LogsResult struct {
	Entries          []Entry `json:"entries"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// GetLogs returns one page of audit events matching the filters. Use
// webapi.Paginate with the returned next cursor for full traversal.
func (c *Client) GetLogs(ctx context.Context, params LogsParams) (*LogsResult, error) {
	q := url.Values{}
	if params.Latest > 0 {
		q.Set("latest", strconv.FormatInt(params.Latest, 10))
	}
	if params.Oldest > 0 {
		q.Set("oldest", strconv.FormatInt(params.Oldest, 10))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Action != "" {
		q.Set("action", params.Action)
	}
	if params.Actor != "" {
		q.Set("actor", params.Actor)
	}
	if params.Entity != "" {
		q.Set("entity", params.Entity)
	}
	if params.Cursor != "" {
		q.Set("cursor", params.Cursor)
	}

	res := &LogsResult{}
	if err := c.get(ctx, "logs", q, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ActionsResult groups known audit actions by category.
type ActionsResult struct {
	Actions map[string][]string `json:"actions"`
}

// GetActions lists every audit action the API can report, by category.
func (c *Client) GetActions(ctx context.Context) (*ActionsResult, error) {
	res := &ActionsResult{}
	if err := c.get(ctx, "actions", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// SchemasResult lists the entity schemas audit events reference.
type SchemasResult struct {
	Schemas []json.RawMessage `json:"schemas"`
}

// GetSchemas lists the entity type schemas.
func (c *Client) GetSchemas(ctx context.Context) (*SchemasResult, error) {
	res := &SchemasResult{}
	if err := c.get(ctx, "schemas", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	requestID := trace.EnsureRequestID(ctx)
	ctx = trace.WithRequestID(ctx, requestID)
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	resp, err := transport.Do(ctx, c.httpClient, c.handlers, c.log, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set(trace.HeaderXRequestID, requestID)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("auditlogs: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("auditlogs: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := retry.RetryAfter(resp)
		return &webapi.RateLimitedError{RetryAfter: retryAfter}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &webapi.HTTPError{StatusCode: resp.StatusCode, Body: raw}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("auditlogs: decoding response: %w", err)
	}
	return nil
}
