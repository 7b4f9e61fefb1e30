// Package store keeps a SQLite ledger of completed exports.
//
// Each successful fetch appends one row: run ID, owner, window, format,
// file path, size, SHA-256 and (for JSON exports) the record count.
// Credentials and access tokens are never written.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// Schema changes are tracked with PRAGMA user_version.
package store
