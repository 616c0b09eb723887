// Package storage defines the persistence interfaces of a scan run: the
// progress store read at start and written at range boundaries, the sinks
// receiving every qualified row, and the optional run log backed by a
// database.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"companyscan/pkg/domain"
)

// ProgressStore persists the last confirmed number of every range.
type ProgressStore interface {
	// Load returns the stored progress. A missing store yields an error
	// matching serrors.ErrNotFound.
	Load(ctx context.Context) (domain.Progress, error)
	// Save replaces the stored progress. Implementations must never leave a
	// partially written store behind.
	Save(ctx context.Context, progress domain.Progress) error
}

// RowSink receives qualified rows in the order they are found.
type RowSink interface {
	// WriteRow appends row. The row must be durable once WriteRow returns.
	WriteRow(ctx context.Context, row domain.Row) error
	// Close flushes and releases the sink.
	Close() error
}

// RunStorage records runs and the rows they produced.
type RunStorage interface {
	// StartRun records a new run.
	StartRun(ctx context.Context, run domain.Run) error
	// StoreRow upserts row by company number and attributes it to run.
	StoreRow(ctx context.Context, runID domain.RunID, row domain.Row) error
	// FinishRun records the final state of run.
	FinishRun(ctx context.Context, run domain.Run) error
	// Companies returns the stored rows ordered by company number.
	Companies(ctx context.Context, limit uint) ([]domain.Row, error)
}

// AllStorage is every capability a database backend offers.
type AllStorage interface {
	RunStorage
}

// TxStorage is a storage handle bound to an open transaction.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a database backend able to start transactions.
type Storage interface {
	AllStorage

	// Close releases the underlying connection pool.
	Close() error
	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb inside a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
