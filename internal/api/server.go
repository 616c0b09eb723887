// Package api exposes the status server that runs next to a scan: Prometheus
// metrics, the live range status and pprof.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companyscan/internal/config"
	"companyscan/internal/scanner"
	"companyscan/pkg/controller"
)

// Options holds configuration for the status server.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":9090".
	Addr string
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// Gatherer defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewOptions maps the metrics section of cfg to Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.Metrics.Addr,
		ReadHeaderTimeout: cfg.Metrics.ReadHeaderTimeout,
		MetricsPath:       cfg.Metrics.Path,
	}
}

// Deps are the live sources the server reports on.
type Deps struct {
	Status *scanner.Status
}

// NewServer wires up and returns a configured *http.Server. It serves
// - Prometheus metrics at MetricsPath
// - the range status as JSON at /status
// - pprof endpoints under /debug/pprof/
// behind the recover and logging middlewares.
func NewServer(deps Deps, opts Options) *http.Server {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()

	// prometheus metrics
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	// live status
	mux.Handle("GET /status", statusHandler(deps.Status))

	// pprof
	mux.Handle("/debug/pprof/", http.StripPrefix("/debug/pprof", controller.PprofMux()))

	handler := controller.WithRecover(mux)
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
}
