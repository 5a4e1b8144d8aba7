// Package tx abstracts database transaction boundaries so domain
// services can demand atomicity without knowing about pgx.
package tx

import (
	"context"
)

// Manager runs a unit of work atomically. The postgres implementation
// lives in infrastructure/storage/postgres; domain code only sees this
// interface.
type Manager interface {
	// RunInTransaction executes fn inside a transaction: commit on nil,
	// rollback on error. Nested calls join the transaction already on
	// the context instead of opening a new one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for query paths that
// must not write.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction. Writes inside
	// fn fail at the database.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
