package analyze

import (
	"errors"
	"fmt"
	"strings"
)

// PreviewLimit caps how many column names a FieldNotFoundError carries.
const PreviewLimit = 50

// ErrEmptyInput is returned when there are no records to analyze.
var ErrEmptyInput = errors.New("no records to analyze")

// FieldNotFoundError reports a group field that matches no column.
type FieldNotFoundError struct {
	Field string

	// Preview holds the first PreviewLimit column names in table order.
	Preview []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found. Columns sample: %s", e.Field, strings.Join(e.Preview, ", "))
}

// IsFieldNotFound returns true if err is, or wraps, a FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	var fe *FieldNotFoundError
	return errors.As(err, &fe)
}

func newFieldNotFound(field string, columns []string) *FieldNotFoundError {
	n := len(columns)
	if n > PreviewLimit {
		n = PreviewLimit
	}
	preview := make([]string, n)
	copy(preview, columns[:n])
	return &FieldNotFoundError{Field: field, Preview: preview}
}
