package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"companyscan/pkg/metrics"
)

func TestNewScanRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := metrics.NewScan(reg)
	require.NoError(t, err)
	first.Outcomes.WithLabelValues("british", "hit").Inc()

	second, err := metrics.NewScan(reg)
	require.NoError(t, err)
	second.Outcomes.WithLabelValues("british", "hit").Inc()

	require.InDelta(t, 2, testutil.ToFloat64(first.Outcomes.WithLabelValues("british", "hit")), 0)
	require.Equal(t, 1, testutil.CollectAndCount(first.Outcomes))
}
