package api

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider_ExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	mp, err := NewMeterProvider(reg)
	require.NoError(t, err)
	defer func() { require.NoError(t, mp.Shutdown(context.Background())) }()

	counter, err := mp.Meter("test").Int64Counter("companyscan_otel_test")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "companyscan_otel_test") {
			found = true
			require.InDelta(t, 3, mf.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
	require.True(t, found, "otel counter not exported")
}
