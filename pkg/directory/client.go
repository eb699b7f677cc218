// Package directory provides the HTTP client for the OS Login identity
// directory. It fetches login profiles by name, uid, or page and returns
// raw payload strings; decoding and validation happen in pkg/oslogin.
package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/wonderfly/compute-image-packages/internal/logger"
	"github.com/wonderfly/compute-image-packages/internal/telemetry"
)

const (
	// DefaultEndpoint is the OS Login base URL on the GCE metadata server.
	DefaultEndpoint = "http://metadata.google.internal/computeMetadata/v1/oslogin"

	// DefaultTimeout bounds each request, per the metadata server
	// convention.
	DefaultTimeout = 5 * time.Second

	// DefaultPageSize is the page size requested on enumeration fetches.
	DefaultPageSize = 500

	// maxRetries is how many times a request is reissued after an HTTP
	// 500. Exactly one retry, process wide; downstream layers must not
	// add their own.
	maxRetries = 1
)

// Client is the directory API client. Safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	pageSize   int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithPageSize overrides the page size requested on enumeration fetches.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client. The timeout of
// the provided client is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a directory client for the given endpoint base URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the page size used for enumeration fetches.
func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchByName fetches the login profile for a username.
func (c *Client) FetchByName(ctx context.Context, name string) (string, error) {
	return c.get(ctx, "/users?username="+url.QueryEscape(name))
}

// FetchByUID fetches the login profile for a numeric user ID.
func (c *Client) FetchByUID(ctx context.Context, uid uint32) (string, error) {
	return c.get(ctx, fmt.Sprintf("/users?uid=%d", uid))
}

// FetchPage fetches one page of login profiles. An empty pageToken
// fetches the first page.
func (c *Client) FetchPage(ctx context.Context, pageToken string) (string, error) {
	path := fmt.Sprintf("/users?pagesize=%d", c.pageSize)
	if pageToken != "" {
		path += "&pagetoken=" + url.QueryEscape(pageToken)
	}
	return c.get(ctx, path)
}

// Authorize asks the directory whether name is granted policy
// ("login" or "adminLogin"). The verdict payload is returned raw for
// oslogin.DecodeAuthorization.
func (c *Client) Authorize(ctx context.Context, name, policy string) (string, error) {
	return c.get(ctx, "/authorize?email="+url.QueryEscape(name)+"&policy="+url.QueryEscape(policy))
}

// get performs a GET against the endpoint, retrying once on HTTP 500.
// Any other non-2xx status is returned as a *StatusError with the body
// attached; network failures are wrapped unread.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	requestID := uuid.NewString()

	ctx, span := telemetry.StartDirectorySpan(ctx, path,
		telemetry.Endpoint(c.endpoint),
		telemetry.RequestID(requestID),
	)
	defer span.End()

	start := time.Now()

	var (
		status int
		body   []byte
	)
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
		if err != nil {
			telemetry.RecordError(ctx, err)
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Metadata-Flavor", "Google")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			telemetry.RecordError(ctx, err)
			return "", fmt.Errorf("directory request failed: %w", err)
		}

		body, err = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			telemetry.RecordError(ctx, err)
			return "", fmt.Errorf("failed to read response body: %w", err)
		}
		status = resp.StatusCode

		if status != http.StatusInternalServerError || attempt >= maxRetries {
			break
		}
		logger.DebugCtx(ctx, "Directory request returned 500, retrying",
			logger.KeyPath, path,
			logger.KeyRequestID, requestID,
			logger.KeyAttempt, attempt+1,
		)
	}

	span.SetAttributes(telemetry.Status(status), telemetry.PayloadLen(len(body)))
	logger.DebugCtx(ctx, "Directory request completed",
		logger.KeyPath, path,
		logger.KeyRequestID, requestID,
		logger.KeyStatus, status,
		logger.KeyDurationMs, logger.Duration(start),
	)

	if status < 200 || status >= 300 {
		err := &StatusError{StatusCode: status, Body: string(body)}
		telemetry.RecordError(ctx, err)
		return "", err
	}
	return string(body), nil
}
