package export

import (
	"errors"
	"fmt"
)

// MaxErrorBody bounds the response excerpt kept on a TransportError, in characters.
const MaxErrorBody = 4000

// ErrInvalidFormat is returned for an export format other than json or csv.
var ErrInvalidFormat = errors.New("type must be 'json' or 'csv'")

// TransportError reports a non-200 response from the export endpoint.
type TransportError struct {
	StatusCode int

	// Body is at most MaxErrorBody characters of the response body.
	Body string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("export failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// excerpt truncates body to MaxErrorBody runes.
func excerpt(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > MaxErrorBody {
		runes = runes[:MaxErrorBody]
	}
	return string(runes)
}
