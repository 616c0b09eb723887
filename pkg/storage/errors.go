package storage

import "errors"

// Common errors returned by storage implementations.
var (
	// ErrAlreadyInTx is returned when Begin is called on a transactional handle.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned when Commit or Rollback is called outside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrClosed is returned when writing to a closed sink.
	ErrClosed = errors.New("sink closed")
)
