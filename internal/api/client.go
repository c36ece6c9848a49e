// Package api fetches record pages from the remote query service.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/query"
	"github.com/taxdesk/clientsearch/internal/version"
)

// DefaultTimeout bounds one request when the configuration does not.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Page is one page of records and the server-side total.
type Page struct {
	Records []domain.Record
	Total   int
	// Dropped counts rows that failed schema validation.
	Dropped int
	// RequestID is the correlation id sent with the request.
	RequestID string
}

// Fetcher loads one page of records for a query intent.
type Fetcher interface {
	Fetch(ctx context.Context, intent query.Intent) (*Page, error)
}

// Config holds everything the client needs; nothing is hard-coded.
type Config struct {
	BaseURL  string
	UserID   string
	Timeout  time.Duration
	RetryMax int
	Logger   logging.Logger
	// HTTPClient replaces the underlying transport client, mostly for tests.
	HTTPClient *http.Client
}

// Client implements Fetcher over HTTP GET.
type Client struct {
	baseURL string
	userID  string
	http    *retryablehttp.Client
	logger  logging.Logger
}

// NewClient returns a client for cfg. Retries are off unless RetryMax > 0.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	userID := strings.TrimSpace(cfg.UserID)
	if baseURL == "" || userID == "" {
		return nil, fmt.Errorf("%w: base_url and user_id are required", ErrNotConfigured)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetGlobal()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.Logger = logger
	if cfg.HTTPClient != nil {
		hc := *cfg.HTTPClient
		rc.HTTPClient = &hc
	}
	rc.HTTPClient.Timeout = timeout
	// Report the status to the caller instead of retryablehttp's generic
	// "giving up" error once retries are exhausted.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    rc,
		logger:  logger.With("component", "api"),
	}, nil
}

// URL returns the request URL for an intent.
func (c *Client) URL(intent query.Intent) string {
	return query.URL(c.baseURL, c.userID, intent)
}

// Fetch issues the GET for an intent and decodes the page.
func (c *Client) Fetch(ctx context.Context, intent query.Intent) (*Page, error) {
	target := c.URL(intent)
	requestID := uuid.NewString()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("fetch failed", "request_id", requestID, "error", err)
		return nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("fetch rejected", "request_id", requestID, "status", resp.StatusCode)
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(resp.Status))}
	}

	records, total, dropped, err := decodePage(body, intent.Category)
	if err != nil {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	for _, d := range dropped {
		c.logger.Warn("dropped invalid record", "request_id", requestID, "error", d)
	}

	c.logger.Debug("fetched page",
		"request_id", requestID,
		"category", intent.Category.String(),
		"page", intent.Page,
		"records", len(records),
		"total", total,
		"duration", time.Since(start).String(),
	)
	return &Page{Records: records, Total: total, Dropped: len(dropped), RequestID: requestID}, nil
}
