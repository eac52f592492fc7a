package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDB opens the schedule store at path, creating its directory if needed,
// and migrates it to the current sites/scenarios schema. ":memory:" yields a
// private store pinned to one connection, as the repository and service
// tests use. Scenario rows cascade with their site, so foreign keys are
// switched on for every store.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule store %s: %w", path, err)
	}

	// A second :memory: connection would see an empty schema.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Readers listing sites keep going while a recompute commits.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schedule store: %w", err)
	}

	return db, nil
}
