package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"venuectl/internal/api"
	"venuectl/internal/auth"
	"venuectl/internal/config"
	"venuectl/internal/logging"
)

const apiPrefix = "/api/v1"

// TokenSource supplies and refreshes bearer tokens. *auth.Manager satisfies it.
type TokenSource interface {
	AccessToken() (string, error)
	RefreshToken() (string, error)
	UpdateTokens(pair api.TokenPair) error
}

// Client talks to the venue management backend's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	streaming *http.Client
	userAgent string
	tokens    TokenSource
	logger    *slog.Logger

	refreshMu sync.Mutex
}

// Option customises Client construction.
type Option func(*Client)

// WithTokenSource attaches a session token source; without one, requests go
// out unauthenticated.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.tokens = src }
}

// WithLogger attaches a structured logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logging.NewComponentLogger(logger, "client") }
}

// WithHTTPClient overrides the non-streaming HTTP client (used in tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// New builds a Client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	base, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: time.Duration(cfg.Backend.RequestTimeout) * time.Second,
		},
		// No timeout: streaming responses stay open until the caller cancels.
		streaming: &http.Client{},
		userAgent: cfg.Backend.UserAgent,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL reports the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

func (c *Client) put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, dest)
}

func (c *Client) patch(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, dest)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do issues one JSON request. A 401 triggers a single token refresh and
// retry; a second 401 surfaces as ErrUnauthorized so the CLI can tell the
// operator to log in again.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	resp, err := c.send(ctx, c.http, method, path, query, payload, "application/json", true)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs the request over httpClient, transparently refreshing the
// session once when allowRefresh is set and the backend answers 401.
func (c *Client) send(ctx context.Context, httpClient *http.Client, method, path string, query url.Values, payload []byte, contentType string, allowRefresh bool) (*http.Response, error) {
	issue := func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, path, query, payload, contentType)
		if err != nil {
			return nil, err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, classifyTransportError(method, path, err)
		}
		return resp, nil
	}

	resp, err := issue()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !allowRefresh || c.tokens == nil {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if err := c.refreshSession(ctx); err != nil {
		return nil, err
	}
	c.logger.Debug("retrying after token refresh", logging.String(logging.FieldOperation, method+" "+path))
	return issue()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string) (*http.Request, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, err := c.tokens.AccessToken(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// refreshSession exchanges the refresh token for a new pair. Concurrent
// callers share one refresh; losers re-read the refreshed token on retry.
func (c *Client) refreshSession(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refresh, err := c.tokens.RefreshToken()
	if err != nil {
		return fmt.Errorf("%w: session expired; run `venuectl login`", ErrUnauthorized)
	}

	body, err := json.Marshal(api.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}
	resp, err := c.send(ctx, c.http, http.MethodPost, apiPrefix+"/auth/refresh", nil, body, "application/json", false)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: session expired; run `venuectl login`", ErrUnauthorized)
	}

	var pair api.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if err := c.tokens.UpdateTokens(pair); err != nil {
		return fmt.Errorf("persist refreshed session: %w", err)
	}
	return nil
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	message := ""
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var envelope struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
			if envelope.Detail != "" {
				message += ": " + envelope.Detail
			}
		} else {
			message = strings.TrimSpace(string(data))
		}
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Operation:  method + " " + path,
	}
}

func classifyTransportError(method, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
}

var _ TokenSource = (*auth.Manager)(nil)
