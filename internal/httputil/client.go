// Package httputil provides the HTTP client shared by the remote service
// clients.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fklub/stregterm/internal/metrics"
	"github.com/fklub/stregterm/pkg/logger"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const (
	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// =============================================================================
// Client
// =============================================================================

// Client issues JSON requests against one base URL. Every request waits on
// a shared rate limiter and is made exactly once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	service    string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Service labels metrics and log entries.
	Service string
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables limiting.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *logger.Logger
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	service := cfg.Service
	if service == "" {
		service = "unknown"
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewDiscard("httputil")
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		service:    service,
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request. path is appended to the base URL; body, when
// non-nil, is JSON encoded.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	done := metrics.StartRequest(c.service, method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		done(0)
		c.log.WithFields(map[string]interface{}{
			"service":    c.service,
			"method":     method,
			"path":       path,
			"request_id": requestID,
		}).WithError(err).Warn("request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	done(resp.StatusCode)

	c.log.WithFields(map[string]interface{}{
		"service":    c.service,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": requestID,
	}).Debug("request completed")

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// =============================================================================
// Responses
// =============================================================================

// StatusError is returned by DecodeResponse for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// DecodeResponse decodes a JSON response into target and closes the body.
// Non-2xx responses yield a *StatusError with the (truncated) body text.
func DecodeResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, truncated, err := ReadAllWithLimit(resp.Body, maxErrorBody)
		if err != nil {
			return fmt.Errorf("read error response body: %w", err)
		}
		msg := strings.TrimSpace(string(body))
		if truncated {
			msg += "...(truncated)"
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	if target == nil {
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody)); err != nil {
			return fmt.Errorf("discard response body: %w", err)
		}
		return nil
	}

	body, err := ReadAllStrict(resp.Body, maxResponseBody)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ReadBody reads a response body of any status and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return ReadAllStrict(resp.Body, maxResponseBody)
}
