// Package runid names one CLI invocation. The ID ties together log lines,
// JSON output and export ledger rows.
package runid

import "github.com/google/uuid"

// Generator produces run IDs.
type Generator interface {
	Generate() string
}

// UUIDv7 generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails.
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
