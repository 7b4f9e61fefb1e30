// Package auth exchanges a refresh token for a short-lived access token.
//
// The exchange is a single GET carrying the refresh token in the
// X-Refresh-Token header. Two response shapes are accepted:
//
//	{"access_token": "..."}
//	{"data": {"access_token": "..."}}
//
// Tokens are never cached and the call is never retried.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roach88/squadcast-analyze/internal/value"
)

// RefreshTokenHeader carries the credential on the auth request.
const RefreshTokenHeader = "X-Refresh-Token"

// DefaultTimeout bounds the auth call when no option overrides it.
const DefaultTimeout = 60 * time.Second

// Resolver resolves access tokens against one auth endpoint.
type Resolver struct {
	authURL    string
	httpClient *http.Client
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout is used as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// NewResolver creates a Resolver for authURL.
func NewResolver(authURL string, opts ...Option) *Resolver {
	r := &Resolver{
		authURL:    authURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveToken exchanges credential for an access token.
//
// Returns *TransportError for non-2xx responses, *ParseError when the body
// is not a JSON object, and *MissingTokenError when neither access_token
// nor data.access_token holds a non-empty string.
func (r *Resolver) ResolveToken(ctx context.Context, credential string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.authURL, nil)
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set(RefreshTokenHeader, credential)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	// The body of a failed exchange is never read.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read auth response: %w", err)
	}
	return TokenFromBody(body)
}

// TokenFromBody extracts the access token from an auth response body.
func TokenFromBody(body []byte) (string, error) {
	v, err := value.Decode(body)
	if err != nil {
		return "", &ParseError{Err: err}
	}
	payload, ok := v.(*value.Object)
	if !ok {
		return "", &ParseError{Err: errors.New("expected a JSON object")}
	}

	if token := stringField(payload, "access_token"); token != "" {
		return token, nil
	}
	if data, ok := payload.Get("data"); ok {
		if nested, ok := data.(*value.Object); ok {
			if token := stringField(nested, "access_token"); token != "" {
				return token, nil
			}
		}
	}

	return "", &MissingTokenError{Keys: payload.Keys()}
}

func stringField(obj *value.Object, key string) string {
	v, ok := obj.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(value.String)
	if !ok {
		return ""
	}
	return string(s)
}
