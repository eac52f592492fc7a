package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/critpath/internal/db"
)

// NewTestDB returns an empty, fully migrated in-memory schedule store for one
// test. Sites and scenarios written to it vanish at cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	store, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test schedule store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewTestUoW wraps store so service tests commit site and scenario writes
// the same way the server does.
func NewTestUoW(store *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(store)
}
