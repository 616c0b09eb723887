package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"companyscan/internal/scanner"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/metrics"
	mockregistry "companyscan/pkg/registry/mock"
	"companyscan/pkg/serrors"
)

func TestMain(m *testing.M) {
	_ = logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func notFound(number string) error {
	return serrors.With(serrors.ErrNotFound, "company %s not found", number)
}

func unavailable() error {
	return serrors.With(serrors.ErrUnavailable, "registry answered 503")
}

func company(number string) *domain.Company {
	return &domain.Company{
		Number:           number,
		Name:             "COMPANY " + number,
		Status:           domain.CompanyStatusActive,
		Type:             domain.CompanyTypeLtd,
		CreatedOn:        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		RegisteredOffice: &domain.Address{AddressLine1: "1 High Street", Locality: "London", PostalCode: "N1 1AA"},
	}
}

func expectEmpty(client *mockregistry.MockClient, numbers ...string) {
	for _, n := range numbers {
		client.EXPECT().Company(gomock.Any(), n).Return(nil, notFound(n))
	}
}

func expectHit(client *mockregistry.MockClient, number, director string) {
	client.EXPECT().Company(gomock.Any(), number).Return(company(number), nil)
	client.EXPECT().Officers(gomock.Any(), number).Return(&domain.OfficerListing{
		ActiveCount: 1,
		Items:       []domain.Officer{{Name: director, Role: domain.OfficerRoleDirector}},
	}, nil)
}

type collector struct{ rows []domain.Row }

func (c *collector) emit(_ context.Context, row domain.Row) error {
	c.rows = append(c.rows, row)

	return nil
}

func newTestScanner(t *testing.T, emptyLimit int) (*mockregistry.MockClient, scanner.Scanner) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mockregistry.NewMockClient(ctrl)
	s := scanner.New(scanner.WithRetry(client, time.Millisecond), scanner.Options{EmptyLimit: emptyLimit})

	return client, s
}

func TestScanner_terminatesAfterEmptyLimit(t *testing.T) {
	client, s := newTestScanner(t, 3)
	expectHit(client, "00000100", "SMITH, John")
	expectEmpty(client, "00000101", "00000102", "00000103")

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeBritish, 99, out.emit)
	require.NoError(t, err)
	require.Equal(t, scanner.Result{Start: 99, Final: 102, Hits: 1, Empties: 3, Terminated: true}, res)
	require.Len(t, out.rows, 1)
	require.Equal(t, "00000100", out.rows[0].Number)
	require.Equal(t, "SMITH  John", out.rows[0].Director)
}

func TestScanner_hitResetsEmptyRun(t *testing.T) {
	client, s := newTestScanner(t, 2)
	gomock.InOrder(
		client.EXPECT().Company(gomock.Any(), "00000001").Return(nil, notFound("00000001")),
		client.EXPECT().Company(gomock.Any(), "00000002").Return(company("00000002"), nil),
	)
	client.EXPECT().Officers(gomock.Any(), "00000002").Return(&domain.OfficerListing{
		ActiveCount: 1,
		Items:       []domain.Officer{{Name: "DOE, Jane", Role: domain.OfficerRoleDirector}},
	}, nil)
	expectEmpty(client, "00000003", "00000004")

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeBritish, 0, out.emit)
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Final)
	require.Equal(t, 1, res.Hits)
	require.Equal(t, 3, res.Empties)
	require.Len(t, out.rows, 1)
}

func TestScanner_disqualifiedCompanyCountsAsEmpty(t *testing.T) {
	client, s := newTestScanner(t, 1)
	dissolved := company("SC000001")
	dissolved.Status = "dissolved"
	client.EXPECT().Company(gomock.Any(), "SC000001").Return(dissolved, nil)

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeScottish, 0, out.emit)
	require.NoError(t, err)
	require.Equal(t, scanner.Result{Start: 0, Final: 0, Empties: 1, Terminated: true}, res)
	require.Empty(t, out.rows)
}

func TestScanner_inconclusiveDoesNotCountTowardsLimit(t *testing.T) {
	client, s := newTestScanner(t, 2)
	expectEmpty(client, "00000001")
	// first attempt and the single retry both fail
	client.EXPECT().Company(gomock.Any(), "00000002").Return(nil, unavailable()).Times(2)
	client.EXPECT().Company(gomock.Any(), "00000003").
		Return(nil, serrors.With(serrors.ErrMalformed, "truncated body")).Times(1)
	expectEmpty(client, "00000004")

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeBritish, 0, out.emit)
	require.NoError(t, err)
	require.Equal(t, scanner.Result{Start: 0, Final: 3, Empties: 2, Inconclusive: 2, Terminated: true}, res)
}

func TestScanner_transientThenSuccessBehavesLikeSuccess(t *testing.T) {
	client, s := newTestScanner(t, 1)
	gomock.InOrder(
		client.EXPECT().Company(gomock.Any(), "00000001").Return(nil, unavailable()),
		client.EXPECT().Company(gomock.Any(), "00000001").Return(company("00000001"), nil),
	)
	gomock.InOrder(
		client.EXPECT().Officers(gomock.Any(), "00000001").Return(nil, unavailable()),
		client.EXPECT().Officers(gomock.Any(), "00000001").Return(&domain.OfficerListing{
			ActiveCount: 1,
			Items:       []domain.Officer{{Name: "SMITH, John", Role: domain.OfficerRoleDirector}},
		}, nil),
	)
	expectEmpty(client, "00000002")

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeBritish, 0, out.emit)
	require.NoError(t, err)
	require.Equal(t, scanner.Result{Start: 0, Final: 1, Hits: 1, Empties: 1, Terminated: true}, res)
	require.Len(t, out.rows, 1)
}

func TestScanner_fatalErrorStops(t *testing.T) {
	client, s := newTestScanner(t, 5)
	expectEmpty(client, "00000011")
	client.EXPECT().Company(gomock.Any(), "00000012").
		Return(nil, serrors.With(serrors.ErrUnauthorized, "invalid key")).Times(1)

	var out collector
	res, err := s.Scan(context.Background(), domain.RangeBritish, 10, out.emit)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Contains(t, err.Error(), "00000012")
	require.Equal(t, int64(11), res.Final)
	require.False(t, res.Terminated)
}

func TestScanner_emitterErrorIsFatal(t *testing.T) {
	client, s := newTestScanner(t, 5)
	expectHit(client, "00000001", "SMITH, John")

	diskFull := errors.New("no space left on device")
	res, err := s.Scan(context.Background(), domain.RangeBritish, 0, func(context.Context, domain.Row) error {
		return diskFull
	})
	require.ErrorIs(t, err, diskFull)
	require.Equal(t, int64(0), res.Final)
}

func TestScanner_canceledContext(t *testing.T) {
	_, s := newTestScanner(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out collector
	res, err := s.Scan(ctx, domain.RangeBritish, 42, out.emit)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(42), res.Final)
}

func TestScanner_cancelDuringScanKeepsSettledCursor(t *testing.T) {
	client, s := newTestScanner(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expectEmpty(client, "00000001")
	client.EXPECT().Company(gomock.Any(), "00000002").DoAndReturn(
		func(context.Context, string) (*domain.Company, error) {
			cancel()

			return nil, notFound("00000002")
		})

	var out collector
	res, err := s.Scan(ctx, domain.RangeBritish, 0, out.emit)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(2), res.Final)
	require.Equal(t, 2, res.Empties)
}

func TestScanner_rejectsBadInput(t *testing.T) {
	_, s := newTestScanner(t, 0)
	_, err := s.Scan(context.Background(), domain.RangeBritish, 0, nil)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, s = newTestScanner(t, 1)
	_, err = s.Scan(context.Background(), domain.RangeKind("welsh"), 0, nil)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestScanner_updatesMetricsAndStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockregistry.NewMockClient(ctrl)

	m, err := metrics.NewScan(prometheus.NewRegistry())
	require.NoError(t, err)
	status := scanner.NewStatus()
	s := scanner.New(client, scanner.Options{EmptyLimit: 2, Metrics: m, Status: status})

	expectHit(client, "SC000008", "SMITH, John")
	expectEmpty(client, "SC000009", "SC000010")

	var out collector
	_, err = s.Scan(context.Background(), domain.RangeScottish, 7, out.emit)
	require.NoError(t, err)

	require.InDelta(t, 1, testutil.ToFloat64(m.Outcomes.WithLabelValues("scottish", "hit")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.Outcomes.WithLabelValues("scottish", "empty")), 0)
	require.InDelta(t, 10, testutil.ToFloat64(m.Cursor.WithLabelValues("scottish")), 0)

	snapshot := status.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, domain.RangeScottish, snapshot[0].Kind)
	require.Equal(t, int64(10), snapshot[0].Cursor)
	require.Equal(t, 1, snapshot[0].Hits)
	require.False(t, snapshot[0].Running)
}
