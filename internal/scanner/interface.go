package scanner

import (
	"context"

	"companyscan/pkg/domain"
)

// Emitter receives every qualified row as soon as it is found. An error from
// the emitter aborts the scan.
type Emitter func(ctx context.Context, row domain.Row) error

// Result summarises the scan of one range.
type Result struct {
	// Start is the number the scan started after.
	Start int64
	// Final is the last number whose outcome is settled. On termination by the
	// empty limit it is the number before the one that reached the limit.
	Final        int64
	Hits         int
	Empties      int
	Inconclusive int
	// Terminated is true when the empty limit ended the scan.
	Terminated bool
}

// Scanner walks a range of identifiers upward from a start number.
//
//go:generate mockgen -package mockscanner -source=interface.go -destination=mock/mockscanner.go *
type Scanner interface {
	// Scan looks at start+1, start+2, ... of range kind until EmptyLimit
	// consecutive identifiers are empty, emitting every qualified row. It
	// returns the partial Result together with any fatal or context error.
	Scan(ctx context.Context, kind domain.RangeKind, start int64, emit Emitter) (Result, error)
}
