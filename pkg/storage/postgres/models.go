package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"companyscan/pkg/domain"
)

type PgRun struct {
	ID         uuid.UUID       `db:"id"`
	Status     string          `db:"status"`
	LastError  sql.NullString  `db:"last_error"`
	Hits       int             `db:"hits"        goqu:"skipinsert"`
	Ranges     json.RawMessage `db:"ranges"      goqu:"skipinsert"`
	StartedAt  time.Time       `db:"started_at"`
	FinishedAt sql.NullTime    `db:"finished_at" goqu:"skipinsert"`
}

type pgRange struct {
	Kind         string `json:"kind"`
	Start        int64  `json:"start"`
	Final        int64  `json:"final"`
	Checkpoint   int64  `json:"checkpoint"`
	Hits         int    `json:"hits"`
	Empties      int    `json:"empties"`
	Inconclusive int    `json:"inconclusive"`
}

func (p *PgRun) FromDomain(run domain.Run) {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	*p = PgRun{
		ID:     uuid.UUID(run.ID),
		Status: string(run.Status),
		LastError: sql.NullString{
			String: run.LastError,
			Valid:  run.LastError != "",
		},
		StartedAt: startedAt,
		FinishedAt: sql.NullTime{
			Time:  run.FinishedAt,
			Valid: !run.FinishedAt.IsZero(),
		},
	}
}

func (p *PgRun) ToDomain() (*domain.Run, error) {
	var ranges []pgRange
	if len(p.Ranges) > 0 {
		if err := json.Unmarshal(p.Ranges, &ranges); err != nil {
			return nil, fmt.Errorf("could not unmarshal run ranges: %w", err)
		}
	}

	run := &domain.Run{
		ID:         domain.RunID(p.ID),
		Status:     domain.RunStatus(p.Status),
		LastError:  p.LastError.String,
		StartedAt:  p.StartedAt,
		FinishedAt: p.FinishedAt.Time,
	}
	for _, r := range ranges {
		run.Ranges = append(run.Ranges, domain.RangeReport{
			Kind:         domain.RangeKind(r.Kind),
			Start:        r.Start,
			Final:        r.Final,
			Checkpoint:   r.Checkpoint,
			Hits:         r.Hits,
			Empties:      r.Empties,
			Inconclusive: r.Inconclusive,
		})
	}

	return run, nil
}

func marshalRanges(reports []domain.RangeReport) ([]byte, error) {
	ranges := make([]pgRange, 0, len(reports))
	for _, r := range reports {
		ranges = append(ranges, pgRange{
			Kind:         string(r.Kind),
			Start:        r.Start,
			Final:        r.Final,
			Checkpoint:   r.Checkpoint,
			Hits:         r.Hits,
			Empties:      r.Empties,
			Inconclusive: r.Inconclusive,
		})
	}

	b, err := json.Marshal(ranges)
	if err != nil {
		return nil, fmt.Errorf("could not marshal run ranges: %w", err)
	}

	return b, nil
}

type PgCompany struct {
	Number      string    `db:"number"`
	Name        string    `db:"name"`
	Director    string    `db:"director"`
	Address     string    `db:"address"`
	Country     string    `db:"country"`
	City        string    `db:"city"`
	PostalCode  string    `db:"postal_code"`
	RunID       uuid.UUID `db:"run_id"`
	FirstSeenAt time.Time `db:"first_seen_at" goqu:"skipinsert"`
	UpdatedAt   time.Time `db:"updated_at"    goqu:"skipinsert"`
}

func (p *PgCompany) FromDomain(runID domain.RunID, row domain.Row) {
	*p = PgCompany{
		Number:     row.Number,
		Name:       row.Name,
		Director:   row.Director,
		Address:    row.Address,
		Country:    row.Country,
		City:       row.City,
		PostalCode: row.PostalCode,
		RunID:      uuid.UUID(runID),
	}
}

func (p *PgCompany) ToDomain() domain.Row {
	return domain.Row{
		Name:       p.Name,
		Director:   p.Director,
		Address:    p.Address,
		Country:    p.Country,
		City:       p.City,
		PostalCode: p.PostalCode,
		Number:     p.Number,
	}
}
