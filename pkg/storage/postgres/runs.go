package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"companyscan/pkg/domain"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage"
)

const (
	runsTable      = "scan_runs"
	companiesTable = "companies"
)

var _ storage.Storage = (*PgSQL)(nil)

func (p *PgSQL) StartRun(ctx context.Context, run domain.Run) error {
	var rec PgRun
	rec.FromDomain(run)

	if _, err := p.Builder.Insert(runsTable).Rows(rec).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not store run into pg: %w", err)
	}

	return nil
}

func (p *PgSQL) FinishRun(ctx context.Context, run domain.Run) error {
	ranges, err := marshalRanges(run.Ranges)
	if err != nil {
		return err
	}

	rec := goqu.Record{
		"status":      string(run.Status),
		"ranges":      ranges,
		"finished_at": goqu.L("CURRENT_TIMESTAMP"),
		"last_error":  goqu.L("NULL"),
	}
	if run.LastError != "" {
		rec["last_error"] = run.LastError
	}

	res, err := p.Builder.Update(runsTable).
		Set(rec).
		Where(goqu.C("id").Eq(uuid.UUID(run.ID))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not update run in pg: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return serrors.With(serrors.ErrNotFound, "run %s not found", run.ID)
	}

	return nil
}

// StoreRow upserts the company row and bumps the hit count of the run in one
// transaction.
func (p *PgSQL) StoreRow(ctx context.Context, runID domain.RunID, row domain.Row) error {
	if _, inTx := p.DB.(*sql.Tx); inTx {
		return p.storeRow(ctx, runID, row)
	}

	return p.WithTx(ctx, func(s storage.AllStorage) error {
		return s.(*PgSQL).storeRow(ctx, runID, row) //nolint: forcetypeassert
	})
}

func (p *PgSQL) storeRow(ctx context.Context, runID domain.RunID, row domain.Row) error {
	var rec PgCompany
	rec.FromDomain(runID, row)

	if _, err := p.Builder.Insert(companiesTable).
		Rows(rec).
		OnConflict(goqu.DoUpdate("number", goqu.Record{
			"name":        goqu.L("EXCLUDED.name"),
			"director":    goqu.L("EXCLUDED.director"),
			"address":     goqu.L("EXCLUDED.address"),
			"country":     goqu.L("EXCLUDED.country"),
			"city":        goqu.L("EXCLUDED.city"),
			"postal_code": goqu.L("EXCLUDED.postal_code"),
			"run_id":      goqu.L("EXCLUDED.run_id"),
			"updated_at":  goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not upsert company %s into pg: %w", row.Number, err)
	}

	if _, err := p.Builder.Update(runsTable).
		Set(goqu.Record{"hits": goqu.L("hits + 1")}).
		Where(goqu.C("id").Eq(uuid.UUID(runID))).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not count hit of run %s: %w", runID, err)
	}

	return nil
}

func (p *PgSQL) Companies(ctx context.Context, limit uint) ([]domain.Row, error) {
	q := p.Builder.From(companiesTable).Order(goqu.C("number").Asc())
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []PgCompany
	if err := q.Executor().ScanStructsContext(ctx, &recs); err != nil {
		return nil, fmt.Errorf("could not list companies from pg: %w", err)
	}

	rows := make([]domain.Row, 0, len(recs))
	for i := range recs {
		rows = append(rows, recs[i].ToDomain())
	}

	return rows, nil
}

// Run fetches a run by id, or nil when it does not exist.
func (p *PgSQL) Run(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	var rec PgRun
	found, err := p.Builder.From(runsTable).
		Where(goqu.C("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("could not get run from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return rec.ToDomain()
}
