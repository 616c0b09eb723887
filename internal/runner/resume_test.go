package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"companyscan/internal/runner"
	"companyscan/internal/scanner"
	"companyscan/pkg/domain"
	mockregistry "companyscan/pkg/registry/mock"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage/csvfile"
	"companyscan/pkg/storage/jsonfile"
)

func TestRunner_resumeStartsAfterLastHit(t *testing.T) {
	const hit = "00000005"

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "last.json",
		[]byte(`{"british_company_last_number": 4, "scottish_company_last_number": 0}`), 0o644))

	client := mockregistry.NewMockClient(gomock.NewController(t))
	client.EXPECT().Company(gomock.Any(), hit).Return(&domain.Company{
		Number:           hit,
		Name:             "HIT",
		Status:           domain.CompanyStatusActive,
		Type:             domain.CompanyTypeLtd,
		RegisteredOffice: &domain.Address{AddressLine1: "x"},
	}, nil).Times(1)
	client.EXPECT().Officers(gomock.Any(), hit).Return(&domain.OfficerListing{
		ActiveCount: 1,
		Items:       []domain.Officer{{Name: "D", Role: domain.OfficerRoleDirector}},
	}, nil).Times(1)
	client.EXPECT().Company(gomock.Any(), gomock.Not(gomock.Eq(hit))).DoAndReturn(
		func(_ context.Context, number string) (*domain.Company, error) {
			return nil, serrors.With(serrors.ErrNotFound, "company %s not found", number)
		}).AnyTimes()

	progress := jsonfile.New(fs, "last.json")
	run := func() *domain.Run {
		t.Helper()

		sink, err := csvfile.Open(fs, "result.csv")
		require.NoError(t, err)
		defer func() { require.NoError(t, sink.Close()) }()

		r := runner.New(runner.Deps{
			Scanner:  scanner.New(scanner.WithRetry(client, time.Millisecond), scanner.Options{EmptyLimit: 3}),
			Progress: progress,
			Sink:     sink,
		}, runner.Options{EmptyLimit: 3})

		res, err := r.Run(context.Background())
		require.NoError(t, err)

		return res
	}

	first := run()
	require.Equal(t, 1, first.Hits())
	require.Equal(t, int64(5), first.Report(domain.RangeBritish).Checkpoint)

	stored, err := progress.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Progress{BritishLastNumber: 5, ScottishLastNumber: 0}, stored)

	second := run()
	require.Equal(t, 0, second.Hits())
	require.Equal(t, int64(5), second.Report(domain.RangeBritish).Start)
	require.Equal(t, int64(5), second.Report(domain.RangeBritish).Checkpoint)

	data, err := util.ReadFile(fs, "result.csv")
	require.NoError(t, err)
	require.Equal(t, domain.RowHeader+"\nHIT,D,x,,,\n", string(data))
}
