package main

import (
	"context"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/gookit/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"companyscan/internal/api"
	"companyscan/internal/config"
	"companyscan/internal/runner"
	"companyscan/internal/scanner"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/metrics"
	"companyscan/pkg/registry/companieshouse"
	"companyscan/pkg/storage/csvfile"
	"companyscan/pkg/storage/jsonfile"
)

// rootFS returns the host filesystem and the absolute form of path on it.
func rootFS(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "could not resolve %q", path)
	}

	return osfs.New("/"), abs, nil
}

func setupServer(ctx context.Context, cfg *config.Config, status *scanner.Status) func(ctx context.Context) {
	if cfg.Metrics.Addr == "" {
		return func(context.Context) {}
	}

	server := api.NewServer(api.Deps{Status: status}, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting status server...", zap.String("addr", cfg.Metrics.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start status server", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping status server...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop status server", zap.Error(err))
		}
	}
}

func scanCommand(cfg *config.Config) *cobra.Command {
	var initialize bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scans the British and Scottish ranges once, resuming from the progress file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := cfg.Validate(); err != nil {
				return err
			}

			mp, err := api.NewMeterProvider(prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			otel.SetMeterProvider(mp)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
				defer cancel()
				_ = mp.Shutdown(shutdownCtx)
			}()

			scanMetrics, err := metrics.NewScan(prometheus.DefaultRegisterer)
			if err != nil {
				return errors.Wrap(err, "could not register scan metrics")
			}
			status := scanner.NewStatus()

			stopServer := setupServer(ctx, cfg, status)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
				defer cancel()
				stopServer(shutdownCtx)
			}()

			lastFS, lastPath, err := rootFS(cfg.Scan.LastFile)
			if err != nil {
				return err
			}
			outFS, outPath, err := rootFS(cfg.Scan.OutFile)
			if err != nil {
				return err
			}

			sink, err := csvfile.Open(outFS, outPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := sink.Close(); err != nil {
					logger.Warn(ctx, "could not close output file", zap.Error(err))
				}
			}()

			client, err := companieshouse.New(&http.Client{Timeout: cfg.Registry.Timeout}, companieshouse.Options{
				BaseURL:         cfg.Registry.BaseURL,
				APIKey:          cfg.Registry.APIKey,
				RateLimitFreeze: cfg.RateLimitFreeze(),
				MeterProvider:   mp,
			})
			if err != nil {
				return err
			}

			scanOpts := scanner.NewOptions(cfg)
			scanOpts.Metrics = scanMetrics
			scanOpts.Status = status

			deps := runner.Deps{
				Scanner:  scanner.New(scanner.WithRetry(client, cfg.Scan.RetryDelay), scanOpts),
				Progress: jsonfile.New(lastFS, lastPath),
				Sink:     sink,
			}
			if cfg.Database.Enabled {
				pgsql, closeStrg := getPostgres(ctx, cfg)
				defer closeStrg()
				deps.Runs = pgsql
			}

			logger.Info(ctx, "scanning",
				zap.String("progress", lastPath),
				zap.String("output", outPath),
				zap.Int("emptyLimit", cfg.Scan.EmptyLimit))

			run, err := runner.New(deps, runner.Options{
				EmptyLimit:     cfg.Scan.EmptyLimit,
				Init:           initialize,
				PersistTimeout: cfg.GracefulShutdownTimeout,
			}).Run(ctx)
			if run != nil {
				printSummary(run, sink.Rows())
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&cfg.Scan.LastFile, "last", "l", cfg.Scan.LastFile, "progress file holding the last numbers")
	cmd.Flags().StringVarP(&cfg.Scan.OutFile, "out", "o", cfg.Scan.OutFile, "CSV file qualified companies are appended to")
	cmd.Flags().IntVarP(&cfg.Registry.RateLimitFreeze, "ratelimit-freeze", "r", cfg.Registry.RateLimitFreeze,
		"seconds to pause after the registry rate limits a request")
	cmd.Flags().IntVarP(&cfg.Scan.EmptyLimit, "empty-limit", "e", cfg.Scan.EmptyLimit,
		"consecutive empty numbers that end a range")
	cmd.Flags().BoolVar(&initialize, "init", false, "start every range from zero when no progress file exists")

	return cmd
}

func printSummary(run *domain.Run, rows int) {
	switch run.Status {
	case domain.RunStatusCompleted:
		color.Green.Printf("run %s completed", run.ID)
	case domain.RunStatusInterrupted:
		color.Yellow.Printf("run %s interrupted, progress saved", run.ID)
	default:
		color.Red.Printf("run %s failed: %s", run.ID, run.LastError)
	}
	color.Printf(" (<cyan>%d</> rows written)\n", rows)

	for _, r := range run.Ranges {
		color.Printf("  <bold>%-8s</> start %s  final %s  saved %s  hits <green>%d</>  empty %d  inconclusive <yellow>%d</>\n",
			r.Kind,
			r.Kind.Identifier(r.Start),
			r.Kind.Identifier(r.Final),
			r.Kind.Identifier(r.Checkpoint),
			r.Hits, r.Empties, r.Inconclusive)
	}
}
