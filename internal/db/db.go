// Package db provides SQLite persistence for correspondence runs: the
// database wrapper, schema migrations and the match-result store.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB handle for the results database.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the results database at path.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// Single-writer tool; WAL keeps concurrent readers (e.g. inspection
	// queries during a long run) from blocking.
	if _, err := sqlDB.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &DB{sqlDB}, nil
}
