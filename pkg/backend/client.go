package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
	"github.com/angelmondragon/sgr-storefront/pkg/metrics"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 5 * time.Second

	errorBodyLimit = 2048
)

// Client talks to the product backend. Every call goes through a single
// timeout and returns coded errors; there are no retries, a failed call
// surfaces immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
	metrics    *metrics.RequestMetrics
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMetrics wires per-endpoint request metrics.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(baseURL string, logg *logger.Logger, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		logg:       logg,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// do runs an envelope-wrapped call and enforces the expected envelope status
// (201 for creates, 200 for everything else).
func (c *Client) do(ctx context.Context, method, path string, payload any, wantStatus int) (*envelope, error) {
	body, err := c.doRaw(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.observeFailure(ctx, path, "decoding response envelope", err)
		return nil, apperrors.Wrap(apperrors.CodeBackend, err, "decoding response envelope")
	}
	if env.Status != wantStatus {
		err := apperrors.New(apperrors.CodeBackend,
			fmt.Sprintf("unexpected envelope status %d: %s", env.Status, env.Message))
		c.observeFailure(ctx, path, "backend reported failure", err)
		return nil, err
	}

	c.metrics.IncSuccess(path)
	return &env, nil
}

// doRaw runs a call and returns the raw response body. Used directly by the
// chat and health endpoints, which do not wrap their responses.
func (c *Client) doRaw(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx = c.withEndpoint(ctx, path)

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encoding request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(path, time.Since(start))
	if err != nil {
		c.observeFailure(ctx, path, "no response from backend", err)
		return nil, apperrors.Wrap(apperrors.CodeTransport, err, "executing request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		code := apperrors.CodeBackend
		if resp.StatusCode == http.StatusNotFound {
			code = apperrors.CodeNotFound
		}
		err := apperrors.New(code,
			fmt.Sprintf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
		c.observeFailure(ctx, path, "backend rejected request", err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observeFailure(ctx, path, "reading response body", err)
		return nil, apperrors.Wrap(apperrors.CodeTransport, err, "reading response body")
	}
	return body, nil
}

func (c *Client) withEndpoint(ctx context.Context, path string) context.Context {
	if c.logg == nil {
		return ctx
	}
	return c.logg.WithEndpoint(ctx, path)
}

func (c *Client) observeFailure(ctx context.Context, path, msg string, err error) {
	c.metrics.IncFailure(path)
	if c.logg != nil {
		c.logg.Error(ctx, msg, err)
	}
}
