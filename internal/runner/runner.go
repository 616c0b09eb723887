// Package runner drives a scan run: it loads progress, scans the British and
// then the Scottish range, streams rows to the sinks and persists progress at
// every range boundary and on interruption.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"companyscan/internal/scanner"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage"
)

// Options configure a Runner.
type Options struct {
	// EmptyLimit is the step back applied when persisting progress.
	EmptyLimit int
	// Init starts from zero when no progress has been stored yet.
	Init bool
	// Ranges defaults to domain.Ranges.
	Ranges []domain.RangeKind
	// PersistTimeout bounds the progress write after an interruption.
	PersistTimeout time.Duration
}

// Deps are the collaborators of a Runner. Runs is optional.
type Deps struct {
	Scanner  scanner.Scanner
	Progress storage.ProgressStore
	Sink     storage.RowSink
	Runs     storage.RunStorage
}

// Runner executes scan runs.
type Runner struct {
	deps    Deps
	options Options
}

// New returns a Runner.
func New(deps Deps, options Options) *Runner {
	if len(options.Ranges) == 0 {
		options.Ranges = domain.Ranges
	}
	if options.PersistTimeout <= 0 {
		options.PersistTimeout = 10 * time.Second
	}

	return &Runner{deps: deps, options: options}
}

// Run scans every range once. On interruption it persists the progress made
// so far and returns the run with an error matching context.Canceled. A fatal
// error leaves the progress of the failing range untouched.
func (r *Runner) Run(ctx context.Context) (*domain.Run, error) {
	progress, err := r.loadProgress(ctx)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{ID: domain.NewRunID(), Status: domain.RunStatusRunning, StartedAt: time.Now()}
	ctx = logger.WithFields(ctx, zap.Stringer("run", run.ID))
	logger.Info(ctx, "scan run started",
		zap.Int64("britishStart", progress.BritishLastNumber),
		zap.Int64("scottishStart", progress.ScottishLastNumber))

	sink := r.deps.Sink
	if r.deps.Runs != nil {
		if err := r.deps.Runs.StartRun(ctx, *run); err != nil {
			return nil, fmt.Errorf("could not record run: %w", err)
		}
		sink = storage.MultiSink{r.deps.Sink, storage.RunSink{Runs: r.deps.Runs, RunID: run.ID}}
	}
	emit := func(ctx context.Context, row domain.Row) error {
		return sink.WriteRow(ctx, row)
	}

	for _, kind := range r.options.Ranges {
		start := progress.Last(kind)
		res, scanErr := r.deps.Scanner.Scan(ctx, kind, start, emit)

		report := domain.RangeReport{
			Kind:         kind,
			Start:        start,
			Final:        res.Final,
			Checkpoint:   start,
			Hits:         res.Hits,
			Empties:      res.Empties,
			Inconclusive: res.Inconclusive,
		}

		interrupted := scanErr != nil && isInterruption(scanErr)
		if scanErr != nil && !interrupted {
			run.Ranges = append(run.Ranges, report)

			return run, r.finish(ctx, run, domain.RunStatusFailed, fmt.Errorf("could not scan %s range: %w", kind, scanErr))
		}

		report.Checkpoint = domain.Checkpoint(start, res.Final, r.options.EmptyLimit)
		run.Ranges = append(run.Ranges, report)
		progress.Set(kind, report.Checkpoint)

		if err := r.persist(ctx, progress); err != nil {
			return run, r.finish(ctx, run, domain.RunStatusFailed, err)
		}
		logger.Info(ctx, "range progress saved",
			zap.Stringer("range", kind),
			zap.Int64("final", res.Final),
			zap.Int64("checkpoint", report.Checkpoint))

		if interrupted {
			return run, r.finish(ctx, run, domain.RunStatusInterrupted, scanErr)
		}
	}

	return run, r.finish(ctx, run, domain.RunStatusCompleted, nil)
}

func (r *Runner) loadProgress(ctx context.Context) (domain.Progress, error) {
	progress, err := r.deps.Progress.Load(ctx)
	if err == nil {
		return progress, nil
	}
	if errors.Is(err, serrors.ErrNotFound) && r.options.Init {
		logger.Warn(ctx, "no stored progress, starting every range from zero", zap.Error(err))

		return domain.Progress{}, nil
	}

	return domain.Progress{}, fmt.Errorf("could not load progress: %w", err)
}

// persist saves progress even when ctx is already canceled.
func (r *Runner) persist(ctx context.Context, progress domain.Progress) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.options.PersistTimeout)
	defer cancel()

	if err := r.deps.Progress.Save(ctx, progress); err != nil {
		return fmt.Errorf("could not save progress: %w", err)
	}

	return nil
}

// finish records the final state of run and returns cause.
func (r *Runner) finish(ctx context.Context, run *domain.Run, status domain.RunStatus, cause error) error {
	run.Status = status
	run.FinishedAt = time.Now()
	if cause != nil {
		run.LastError = cause.Error()
	}

	if r.deps.Runs != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.options.PersistTimeout)
		defer cancel()

		if err := r.deps.Runs.FinishRun(ctx, *run); err != nil {
			logger.Warn(ctx, "could not record run result", zap.Error(err))
		}
	}

	switch status {
	case domain.RunStatusCompleted:
		logger.Info(ctx, "scan run completed", zap.Int("hits", run.Hits()))
	case domain.RunStatusInterrupted:
		logger.Warn(ctx, "scan run interrupted, progress saved", zap.Int("hits", run.Hits()))
	default:
		logger.Error(ctx, "scan run failed", zap.Error(cause))
	}

	return cause
}

func isInterruption(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
