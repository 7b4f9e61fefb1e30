package auth

import (
	"fmt"
	"strings"
)

// TransportError reports a non-2xx response from the auth endpoint.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("auth endpoint returned HTTP %d", e.StatusCode)
}

// ParseError reports an auth response body that is not a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse auth response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingTokenError reports a well-formed auth response without a token.
// Keys lists the top-level keys that were present; values are never kept.
type MissingTokenError struct {
	Keys []string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf(
		"missing access_token in response (expected 'access_token' or 'data.access_token'); keys at top-level: [%s]",
		strings.Join(e.Keys, ", "))
}
