package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ExportRecord is one ledger row.
type ExportRecord struct {
	Seq     int64  `json:"seq"`
	RunID   string `json:"run_id"`
	OwnerID string `json:"owner_id"`
	Start   string `json:"start_time"`
	End     string `json:"end_time"`
	Format  string `json:"format"`
	Path    string `json:"path"`
	Bytes   int64  `json:"bytes"`
	SHA256  string `json:"sha256"`

	// RecordCount is nil for CSV exports and JSON that failed to decode.
	RecordCount *int64 `json:"record_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RecordExport appends rec to the ledger and returns its sequence number.
// Seq on rec is ignored. A repeated RunID is rejected.
func (s *Store) RecordExport(ctx context.Context, rec ExportRecord) (int64, error) {
	var count sql.NullInt64
	if rec.RecordCount != nil {
		count = sql.NullInt64{Int64: *rec.RecordCount, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exports
		(run_id, owner_id, start_time, end_time, format, path, bytes, sha256, record_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.OwnerID,
		rec.Start,
		rec.End,
		rec.Format,
		rec.Path,
		rec.Bytes,
		rec.SHA256,
		count,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}
	return seq, nil
}

// ListExports returns ledger rows newest first. An empty owner matches all
// owners; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListExports(ctx context.Context, owner string, limit int) ([]ExportRecord, error) {
	query := `
		SELECT seq, run_id, owner_id, start_time, end_time, format, path, bytes, sha256, record_count, created_at
		FROM exports
		WHERE (? = '' OR owner_id = ?)
		ORDER BY seq DESC
	`
	args := []any{owner, owner}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	records := []ExportRecord{}
	for rows.Next() {
		rec, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return records, nil
}

func scanExport(rows *sql.Rows) (ExportRecord, error) {
	var (
		rec       ExportRecord
		count     sql.NullInt64
		createdAt string
	)
	err := rows.Scan(
		&rec.Seq,
		&rec.RunID,
		&rec.OwnerID,
		&rec.Start,
		&rec.End,
		&rec.Format,
		&rec.Path,
		&rec.Bytes,
		&rec.SHA256,
		&count,
		&createdAt,
	)
	if err != nil {
		return ExportRecord{}, fmt.Errorf("scan export: %w", err)
	}

	if count.Valid {
		n := count.Int64
		rec.RecordCount = &n
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ExportRecord{}, fmt.Errorf("scan export %s: created_at: %w", rec.RunID, err)
	}
	return rec, nil
}
