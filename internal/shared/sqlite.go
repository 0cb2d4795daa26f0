// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "strings"

// SQLiteErrorKind groups SQLite failures by what an operator can do about them.
type SQLiteErrorKind int

const (
	SQLiteOther SQLiteErrorKind = iota
	// SQLiteConflict covers SQLITE_BUSY and "database is locked".
	SQLiteConflict
	// SQLiteReadOnly means the database file or its directory is not writable.
	SQLiteReadOnly
	// SQLiteConstraint means a UNIQUE or NOT NULL constraint was violated.
	SQLiteConstraint
)

func (k SQLiteErrorKind) String() string {
	switch k {
	case SQLiteConflict:
		return "conflict"
	case SQLiteReadOnly:
		return "read_only"
	case SQLiteConstraint:
		return "constraint"
	default:
		return "other"
	}
}

// ClassifySQLiteError inspects the driver message of err.
func ClassifySQLiteError(err error) SQLiteErrorKind {
	if err == nil {
		return SQLiteOther
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "SQLITE_BUSY"), strings.Contains(msg, "database is locked"):
		return SQLiteConflict
	case strings.Contains(msg, "SQLITE_READONLY"), strings.Contains(msg, "readonly database"):
		return SQLiteReadOnly
	case strings.Contains(msg, "SQLITE_CONSTRAINT"), strings.Contains(msg, "constraint failed"):
		return SQLiteConstraint
	default:
		return SQLiteOther
	}
}
