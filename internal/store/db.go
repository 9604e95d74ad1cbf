package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing our code
// to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Page bounds a listing query. Implementations clamp Number to >= 1 and
// Size into [1, MaxPageSize] and fetch one extra row to detect a next page.
type Page struct {
	Number int
	Size   int
}

// Pagination limits shared by every listing endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the page into its valid range, substituting the default
// size when none was supplied.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page's first element.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
