/**
 * @description
 * Client for the remote bank ledger service. Every remote operation goes
 * through call, which turns transport failures and non-2xx answers into
 * typed errors before the body is materialized into domain values.
 */
package bankclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/transfa/bank-client/internal/domain"
)

// DefaultBasePath is the path prefix the bank service mounts its API under.
const DefaultBasePath = "/bank"

const defaultTimeout = 15 * time.Second

// Client is a client for the bank service. It holds no mutable state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	routes     routes
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	money      *domain.MoneyFormatter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request made by the client. Zero disables the
// client-side bound and leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMoneyFormatter sets how amounts of the service's currency are rendered.
func WithMoneyFormatter(f *domain.MoneyFormatter) Option {
	return func(c *Client) {
		if f != nil {
			c.money = f
		}
	}
}

// NewClient creates a new bank service client for the service at baseURL
// whose API lives below basePath.
func NewClient(baseURL, basePath string, opts ...Option) *Client {
	normalizedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	normalizedPath := strings.Trim(strings.TrimSpace(basePath), "/")
	if normalizedPath != "" {
		normalizedURL += "/" + normalizedPath
	}

	c := &Client{
		baseURL:    normalizedURL,
		routes:     routes{base: normalizedURL},
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		money:      domain.DefaultMoneyFormatter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address all resource URLs are built from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Currency returns the symbol of the currency the service keeps accounts in.
func (c *Client) Currency() string {
	return c.money.Symbol()
}

// CurrencyFormatter returns the formatter for amounts and balances.
func (c *Client) CurrencyFormatter() *domain.MoneyFormatter {
	return c.money
}

// call performs one request and returns the JSON body of a 2xx answer.
func (c *Client) call(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("bank service request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read bank service response", "method", method, "url", url, "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("bank service returned error status", "method", method, "url", url, "request_id", requestID, "status", resp.StatusCode)
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Method:     method,
			URL:        url,
		}
	}

	if !json.Valid(payload) {
		return nil, fmt.Errorf("%s %s: %w", method, url, domain.ErrMalformedJSON)
	}
	return payload, nil
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func fetchMany[T any, P domain.Entity[T]](ctx context.Context, c *Client, method, url string, body any) ([]T, error) {
	raw, err := c.call(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	items, err := domain.Materialize[T, P](raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return items, nil
}

func fetchOne[T any, P domain.Entity[T]](ctx context.Context, c *Client, method, url string, body any) (T, error) {
	raw, err := c.call(ctx, method, url, body)
	if err != nil {
		var zero T
		return zero, err
	}
	item, err := domain.MaterializeOne[T, P](raw)
	if err != nil {
		return item, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return item, nil
}
