package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle a store operates on. Both *sql.DB and
// *sql.Tx satisfy it, so the same store code runs standalone or inside a
// transaction handed out by WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}
