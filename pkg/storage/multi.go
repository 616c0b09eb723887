package storage

import (
	"context"
	"errors"

	"companyscan/pkg/domain"
)

// MultiSink fans every row out to several sinks in order. The first failing
// sink aborts the write.
type MultiSink []RowSink

func (m MultiSink) WriteRow(ctx context.Context, row domain.Row) error {
	for _, s := range m {
		if err := s.WriteRow(ctx, row); err != nil {
			return err
		}
	}

	return nil
}

// Close closes every sink and joins their errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}

	return errors.Join(errs...)
}

// RunSink adapts a RunStorage to a RowSink attributing rows to one run.
type RunSink struct {
	Runs  RunStorage
	RunID domain.RunID
}

func (s RunSink) WriteRow(ctx context.Context, row domain.Row) error {
	return s.Runs.StoreRow(ctx, s.RunID, row)
}

// Close is a no-op; the RunStorage owner closes it.
func (s RunSink) Close() error { return nil }
