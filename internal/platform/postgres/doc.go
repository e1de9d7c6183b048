// Package postgres provides PostgreSQL implementations of the store
// interfaces, built on database/sql with the pgx stdlib driver. Every store
// accepts a store.DBTX so the same implementation runs against a *sql.DB or
// a *sql.Tx, and translates driver errors into the store error taxonomy via
// MapError.
package postgres
