package domain_test

import (
	"testing"
	"time"

	"companyscan/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		kind domain.RangeKind
		n    int64
		want string
	}{
		{domain.RangeBritish, 0, "00000000"},
		{domain.RangeBritish, 101, "00000101"},
		{domain.RangeBritish, 12345678, "12345678"},
		{domain.RangeScottish, 101, "SC000101"},
		{domain.RangeScottish, 999999, "SC999999"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.Identifier(tt.n))
		})
	}
	require.False(t, domain.RangeKind("northern-irish").Valid())
}

func TestRowSanitized(t *testing.T) {
	row := domain.Row{
		Name:       "ACME, LTD",
		Director:   "SMITH, John",
		Address:    "1 High St, Flat 2",
		Country:    "England",
		City:       "London",
		PostalCode: "N1 1AA",
		Number:     "00000101",
	}.Sanitized()

	require.Equal(t, []string{"ACME  LTD", "SMITH  John", "1 High St  Flat 2", "England", "London", "N1 1AA"},
		row.Record())
	require.Equal(t, "00000101", row.Number)
	for _, field := range row.Record() {
		require.NotContains(t, field, ",")
	}
}

func TestProgress(t *testing.T) {
	var p domain.Progress
	p.Set(domain.RangeBritish, 120)
	p.Set(domain.RangeScottish, -4)

	require.Equal(t, int64(120), p.Last(domain.RangeBritish))
	require.Equal(t, int64(0), p.Last(domain.RangeScottish))
}

func TestCheckpoint(t *testing.T) {
	require.Equal(t, int64(100), domain.Checkpoint(100, 102, 20), "never behind start")
	require.Equal(t, int64(481), domain.Checkpoint(100, 500, 20))
	require.Equal(t, int64(0), domain.Checkpoint(0, 3, 20))
	// hit at 100, 101..103 empty with a limit of 3 ends the range at 102
	require.Equal(t, int64(100), domain.Checkpoint(99, 102, 3), "lands on the last hit")
	require.Equal(t, int64(7), domain.Checkpoint(0, 7, 1))
}

func TestCompany(t *testing.T) {
	c := domain.Company{Status: domain.CompanyStatusActive, Type: domain.CompanyTypeLtd}
	require.True(t, c.Active())
	require.True(t, c.Limited())
	require.Equal(t, -1, c.AgeDays(time.Now()))

	c.CreatedOn = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 10, c.AgeDays(time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)))

	var listing *domain.OfficerListing
	require.True(t, listing.Empty())
	require.False(t, (&domain.OfficerListing{ActiveCount: 1}).Empty())
}
