package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"companyscan/internal/config"
	"companyscan/internal/scanner"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestNewOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Addr = ":9090"
	cfg.Metrics.Path = "/prom"
	cfg.Metrics.ReadHeaderTimeout = 3 * time.Second

	opts := NewOptions(cfg)
	require.Equal(t, ":9090", opts.Addr)
	require.Equal(t, "/prom", opts.MetricsPath)
	require.Equal(t, 3*time.Second, opts.ReadHeaderTimeout)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "companyscan_test_total"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := NewServer(Deps{}, Options{MetricsPath: "/metrics", Gatherer: reg})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "companyscan_test_total 1")
}

func TestServer_StatusEmpty(t *testing.T) {
	srv := NewServer(Deps{Status: scanner.NewStatus()}, Options{Gatherer: prometheus.NewRegistry()})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"ranges":[]}`, rec.Body.String())
}

func TestServer_StatusRejectsPost(t *testing.T) {
	srv := NewServer(Deps{Status: scanner.NewStatus()}, Options{Gatherer: prometheus.NewRegistry()})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Pprof(t *testing.T) {
	srv := NewServer(Deps{}, Options{Gatherer: prometheus.NewRegistry()})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ListenAndShutdown(t *testing.T) {
	srv := NewServer(Deps{Status: scanner.NewStatus()}, Options{Gatherer: prometheus.NewRegistry()})
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(string(body)), "{"))
	require.NotEmpty(t, res.Header.Get("X-Request-Id"))

	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestEncodeStatus(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	out := encodeStatus([]scanner.RangeStatus{
		{Kind: domain.RangeBritish, Start: 100, Cursor: 103, EmptyRun: 2, Hits: 1, Empties: 2, Running: true, UpdatedAt: at},
		{Kind: domain.RangeScottish, Start: 5, Cursor: 5, UpdatedAt: at},
	})

	require.NoError(t, jx.DecodeBytes(out).Validate())
	require.JSONEq(t, `{"ranges":[
		{"kind":"british","start":100,"cursor":103,"current":"00000103","emptyRun":2,"hits":1,"empties":2,
		 "inconclusive":0,"running":true,"updatedAt":"2025-03-04T05:06:07Z"},
		{"kind":"scottish","start":5,"cursor":5,"current":"SC000005","emptyRun":0,"hits":0,"empties":0,
		 "inconclusive":0,"running":false,"updatedAt":"2025-03-04T05:06:07Z"}
	]}`, string(out))
}
