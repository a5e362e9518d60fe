// Package tx defines the transaction contract domain checks depend on.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs fn within a database transaction.
// Nested calls reuse the transaction already carried by ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions.
//
// Checks that combine several reads (customer limit plus ledger sums, or a whole
// batch of stock lines) run them inside ReadOnly so every read sees one snapshot.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunReadOnly runs fn inside m.ReadOnly, or directly when m is nil.
func RunReadOnly(ctx context.Context, m ReadOnlyManager, fn func(ctx context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.ReadOnly(ctx, fn)
}
