// Package api is the outbound client for the storefront REST API. It is the
// only place that talks HTTP; the state containers consume it through narrow
// interfaces. Calls carry the caller's context but the client never retries
// or aborts an in-flight request on its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultAuthHeader        = "auth-token"
	headerRequestID          = "X-Request-ID"
	errorBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("api base url is required")

// Client wraps the storefront REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the API client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "storefront-api"})
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		authHeader: strings.TrimSpace(cfg.AuthHeader),
		logg:       logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.baseURL == "" {
		return nil, errBaseURLRequired
	}
	if client.authHeader == "" {
		client.authHeader = defaultAuthHeader
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// newRequest builds a request with the JSON payload and a fresh request id,
// and returns a context carrying that id for log correlation.
func (c *Client) newRequest(ctx context.Context, method, path, token string, payload any) (*http.Request, context.Context, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, ctx, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, ctx, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(c.authHeader, token)
	}

	return req, c.logg.WithRequestID(ctx, requestID), nil
}

// do executes the request, mapping transport failures to the network code
// and non-2xx responses to a request failure carrying the body's error field.
// The caller owns the returned body.
func (c *Client) do(ctx context.Context, req *http.Request, operation string) (*http.Response, error) {
	c.logg.Debug(ctx, operation)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, pkgerrors.GenericMessage)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()
		return nil, c.errorFromResponse(resp)
	}
	return resp, nil
}

func (c *Client) errorFromResponse(resp *http.Response) *pkgerrors.Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var payload struct {
		Error string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		message = strings.TrimSpace(payload.Error)
	}
	if message == "" {
		message = pkgerrors.GenericMessage
	}

	return pkgerrors.New(pkgerrors.CodeRequestFailed, message).
		WithDetails(map[string]any{"status": resp.StatusCode})
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
