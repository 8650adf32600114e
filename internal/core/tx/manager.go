// Package tx provides transaction management abstractions.
// Domain services depend on Manager, never on a concrete store.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
//
// The postgres implementation lives in infrastructure/storage/postgres,
// the in-process one in infrastructure/storage/memory.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Used by report queries that want a consistent snapshot.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
