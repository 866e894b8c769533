// Package webapi implements the client for the platform's HTTP Web API:
// request building, envelope parsing, typed errors, client-side rate
// limiting and the shared retry-handler chain.
package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
	"github.com/gaborage/slackline/trace"
)

const (
	// DefaultBaseURL is the production Web API endpoint.
	DefaultBaseURL = "https://slack.com/api/"
	// DefaultTimeout bounds a single HTTP exchange including body read.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read into memory.
	maxResponseBytes = 10 << 20

	tracerName = "github.com/gaborage/slackline/webapi"
)

// Config holds the Web API client configuration.
type Config struct {
	// BaseURL overrides the API endpoint (default: DefaultBaseURL).
	BaseURL string
	// Token is the bot or user token used for Authorization.
	Token string
	// AppLevelToken is the app-level token for connection-oriented methods.
	AppLevelToken string
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// Timeout bounds each HTTP exchange when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
	// RetryHandlers replaces the default retry chain.
	RetryHandlers []retry.Handler
	// DisableRateLimit turns off client-side tier-based rate limiting.
	DisableRateLimit bool
	// Log receives structured client logs (default: discard).
	Log logger.Logger
}

// Client is the Web API client. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	appToken   string
	userAgent  string
	httpClient *http.Client
	handlers   []retry.Handler
	limiter    *TierLimiter
	log        logger.Logger
	tracer     oteltrace.Tracer
}

// New creates a Web API client with default configuration for the given
// bot or user token.
func New(token string) *Client {
	// The default base URL always parses; an empty token surfaces on use.
	c, _ := NewFromConfig(Config{Token: token})
	return c
}

// NewFromConfig creates a Web API client from an explicit configuration.
func NewFromConfig(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("webapi: invalid base URL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	handlers := cfg.RetryHandlers
	if handlers == nil {
		handlers = retry.DefaultHandlers()
	}

	var limiter *TierLimiter
	if !cfg.DisableRateLimit {
		limiter = NewTierLimiter()
	}

	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "slackline/1 (+https://github.com/gaborage/slackline)"
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		appToken:   cfg.AppLevelToken,
		userAgent:  userAgent,
		httpClient: httpClient,
		handlers:   handlers,
		limiter:    limiter,
		log:        log,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// Call invokes an arbitrary Web API method with form-encoded parameters and
// decodes the response into res. It backs every generated wrapper and is the
// escape hatch for methods the SDK does not wrap.
func (c *Client) Call(ctx context.Context, apiMethod string, params url.Values, res result) error {
	return c.postForm(ctx, apiMethod, params, res)
}

func (c *Client) postForm(ctx context.Context, apiMethod string, params url.Values, res result) error {
	if c.token == "" && c.appToken == "" {
		return ErrMissingToken
	}
	return c.callWithToken(ctx, apiMethod, c.token, params, res)
}

// postAppForm is postForm authenticated with the app-level token, used by
// connection-oriented methods such as apps.connections.open.
func (c *Client) postAppForm(ctx context.Context, apiMethod string, params url.Values, res result) error {
	if c.appToken == "" {
		return ErrMissingAppToken
	}
	return c.callWithToken(ctx, apiMethod, c.appToken, params, res)
}

func (c *Client) callWithToken(ctx context.Context, apiMethod, token string, params url.Values, res result) error {
	build := func(ctx context.Context) (*http.Request, error) {
		body := ""
		if params != nil {
			body = params.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(apiMethod), strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		// oauth.v2.access authenticates with client credentials in the form
		// body instead of a bearer token.
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req, nil
	}
	return c.call(ctx, apiMethod, build, res)
}

// postJSON issues a JSON-bodied call for methods that accept rich payloads
// (message blocks, views).
func (c *Client) postJSON(ctx context.Context, apiMethod string, payload any, res result) error {
	if c.token == "" {
		return ErrMissingToken
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webapi: encode %s payload: %w", apiMethod, err)
	}
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(apiMethod), bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		req.Header.Set("Authorization", "Bearer "+c.token)
		return req, nil
	}
	return c.call(ctx, apiMethod, build, res)
}

func (c *Client) methodURL(apiMethod string) string {
	return c.baseURL.JoinPath(apiMethod).String()
}

// call runs the request/retry loop for one logical API call. A successful
// response returns immediately; failures are offered to the handler chain in
// order and the first handler that accepts one owns the backoff delay.
func (c *Client) call(ctx context.Context, apiMethod string, build func(context.Context) (*http.Request, error), res result) error {
	ctx, span := c.tracer.Start(ctx, "webapi."+apiMethod,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(attribute.String("webapi.method", apiMethod)),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, apiMethod); err != nil {
			span.SetStatus(codes.Error, "rate limiter wait cancelled")
			return err
		}
	}

	state := &retry.State{}
	for {
		req, err := build(ctx)
		if err != nil {
			return fmt.Errorf("webapi: build %s request: %w", apiMethod, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set(trace.HeaderXRequestID, trace.EnsureRequestID(ctx))

		resp, body, err := c.send(req)

		if h := c.acceptingHandler(ctx, state, req, resp, err); h != nil {
			c.log.Debug().
				Str("method", apiMethod).
				Str("handler", h.Name()).
				Int("attempt", state.Attempt+1).
				Err(err).
				Msg("retrying request")
			if perr := h.Prepare(ctx, state, resp); perr != nil {
				span.SetStatus(codes.Error, "retry wait cancelled")
				return perr
			}
			continue
		}

		span.SetAttributes(attribute.Int("webapi.retries", state.Attempt))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
			return fmt.Errorf("webapi: %s request failed: %w", apiMethod, err)
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		ferr := c.finish(apiMethod, resp, body, res)
		if ferr != nil {
			span.RecordError(ferr)
			span.SetStatus(codes.Error, "call failed")
		}
		return ferr
	}
}

// send performs one HTTP exchange and drains the body so the connection can
// be reused across retries.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp, nil, err
	}
	return resp, body, nil
}

func (c *Client) acceptingHandler(ctx context.Context, state *retry.State, req *http.Request, resp *http.Response, err error) retry.Handler {
	for _, h := range c.handlers {
		if h.CanRetry(ctx, state, req, resp, err) {
			return h
		}
	}
	return nil
}

// finish interprets the terminal response for a call: decode the envelope,
// surface platform errors as *APIError and transport-level failures as
// *HTTPError or *RateLimitedError.
func (c *Client) finish(apiMethod string, resp *http.Response, body []byte, res result) error {
	requestID := resp.Header.Get(trace.HeaderPlatformRequestID)

	if resp.StatusCode == http.StatusTooManyRequests {
		after, _ := retry.RetryAfter(resp)
		return &RateLimitedError{RetryAfter: after}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, RequestID: requestID, Body: body}
	}

	if err := json.Unmarshal(body, res); err != nil {
		return fmt.Errorf("webapi: decode %s response: %w", apiMethod, err)
	}

	env := res.envelope()
	env.RequestID = requestID

	if !env.OK {
		return &APIError{
			Code:      env.Error,
			Warning:   env.Warning,
			Metadata:  env.ResponseMetadata,
			RequestID: requestID,
		}
	}

	if env.Warning != "" {
		c.log.Warn().
			Str("method", apiMethod).
			Str("warning", env.Warning).
			Msg("platform returned warning")
	}
	return nil
}
