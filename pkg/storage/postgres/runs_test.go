package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"companyscan/pkg/domain"
	"companyscan/pkg/serrors"
)

func TestPgSQL_RunLifecycle(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	run := domain.Run{ID: domain.NewRunID(), Status: domain.RunStatusRunning, StartedAt: time.Now()}
	require.NoError(t, pg.StartRun(ctx, run))

	row := domain.Row{
		Name: "ACME LTD", Director: "SMITH John", Address: "1 High Street",
		Country: "England", City: "London", PostalCode: "N1 1AA", Number: "00000101",
	}
	require.NoError(t, pg.StoreRow(ctx, run.ID, row))

	// the same company seen again is updated in place
	row.Director = "DOE Jane"
	require.NoError(t, pg.StoreRow(ctx, run.ID, row))
	require.NoError(t, pg.StoreRow(ctx, run.ID, domain.Row{Name: "BETA LTD", Director: "X", Number: "SC000001"}))

	run.Status = domain.RunStatusCompleted
	run.Ranges = []domain.RangeReport{
		{Kind: domain.RangeBritish, Start: 100, Final: 130, Checkpoint: 111, Hits: 2, Empties: 20},
		{Kind: domain.RangeScottish, Start: 0, Final: 21, Checkpoint: 2, Hits: 1, Empties: 20, Inconclusive: 1},
	}
	run.FinishedAt = time.Now()
	require.NoError(t, pg.FinishRun(ctx, run))

	stored, err := pg.Run(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, domain.RunStatusCompleted, stored.Status)
	require.Equal(t, run.Ranges, stored.Ranges)
	require.False(t, stored.FinishedAt.IsZero())
	require.Empty(t, stored.LastError)

	var hits int
	require.NoError(t, pg.DB.QueryRowContext(ctx, `SELECT hits FROM scan_runs WHERE id = $1`, run.ID.String()).Scan(&hits))
	require.Equal(t, 3, hits)

	rows, err := pg.Companies(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "00000101", rows[0].Number)
	require.Equal(t, "DOE Jane", rows[0].Director)
	require.Equal(t, "SC000001", rows[1].Number)

	limited, err := pg.Companies(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestPgSQL_FinishUnknownRun(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	err := pg.FinishRun(context.Background(), domain.Run{ID: domain.NewRunID(), Status: domain.RunStatusFailed})
	require.ErrorIs(t, err, serrors.ErrNotFound)

	missing, err := pg.Run(context.Background(), domain.NewRunID())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_StoreRowNeedsRun(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	err := pg.StoreRow(context.Background(), domain.NewRunID(), domain.Row{Name: "A", Director: "B", Number: "00000001"})
	require.Error(t, err, "foreign key on run_id")

	rows, err := pg.Companies(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}
