package db

import (
	"context"
	"database/sql"
)

// DBTX is what the site and scenario repositories query through. Passing the
// *sql.DB gives autocommit reads; passing the tx handed out by WithinTx puts a
// document rewrite and its scenario rows in the same transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
