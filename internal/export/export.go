// Package export downloads incident exports for a time window.
//
// The client issues one GET per call and hands back the body untouched;
// it never parses JSON exports and never retries.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Format is an export payload type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DefaultTimeout bounds the export call when no option overrides it.
const DefaultTimeout = 120 * time.Second

// ExportPath is appended to the base API URL.
const ExportPath = "/incidents/export"

// ParseFormat validates s as an export format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// Valid reports whether f is json or csv.
func (f Format) Valid() bool {
	return f == FormatJSON || f == FormatCSV
}

// MediaType is the Accept header value for f.
func (f Format) MediaType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Extension is the file extension for payloads of type f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Request selects what to export.
// Start and End are ISO-8601 strings passed through without validation.
type Request struct {
	Start   string
	End     string
	OwnerID string
	Format  Format
}

// Client talks to the export endpoint of one API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the export URL for req.
func (c *Client) URL(req Request) string {
	q := url.Values{}
	q.Set("type", string(req.Format))
	q.Set("start_time", req.Start)
	q.Set("end_time", req.End)
	q.Set("owner_id", req.OwnerID)
	return c.baseURL + ExportPath + "?" + q.Encode()
}

// Export downloads the incidents selected by req using bearer token.
//
// An invalid format fails with ErrInvalidFormat before any request is
// sent. A non-200 response fails with *TransportError.
func (c *Client) Export(ctx context.Context, token string, req Request) ([]byte, error) {
	if !req.Format.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFormat, req.Format)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", req.Format.MediaType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody*utf8.UTFMax))
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export response: %w", err)
	}
	return body, nil
}
