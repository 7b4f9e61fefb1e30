// Package files handles the on-disk side of exports: directory layout,
// timestamped payload names, whole-buffer writes and loading records back.
//
// Writes are not atomic. A crash mid-write can leave a partial file.
package files

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/squadcast-analyze/internal/envelope"
	"github.com/roach88/squadcast-analyze/internal/value"
)

// StampLayout formats UTC stamps like 20251112T140906Z.
const StampLayout = "20060102T150405Z"

// Stamp formats t in UTC with StampLayout.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ExportName returns the file name for an export taken at t.
func ExportName(t time.Time, ext string) string {
	return fmt.Sprintf("incidents_%s.%s", Stamp(t), ext)
}

// EnsureDirs creates each directory and its parents.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return nil
}

// SaveBytes writes data to path, creating parent directories first.
func SaveBytes(path string, data []byte) error {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadRecords reads a JSON export and returns its records.
// A missing file yields an error wrapping fs.ErrNotExist.
func LoadRecords(path string) ([]value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := envelope.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
