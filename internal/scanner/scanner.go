// Package scanner walks registry identifier ranges and classifies every
// identifier as a hit, an empty slot or an inconclusive lookup.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"companyscan/internal/config"
	"companyscan/internal/qualify"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/metrics"
	"companyscan/pkg/registry"
	"companyscan/pkg/serrors"
)

// Options configure a Scanner.
type Options struct {
	// EmptyLimit is the number of consecutive empty identifiers that ends a range.
	EmptyLimit int
	// Metrics, when set, is updated after every identifier.
	Metrics *metrics.Scan
	// Status, when set, mirrors the live state of every range.
	Status *Status
	// Now defaults to time.Now and is used for the company age log line.
	Now func() time.Time
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{EmptyLimit: cfg.Scan.EmptyLimit}
}

type scanner struct {
	options Options
	client  registry.Client
}

// New returns a Scanner reading from client. Wrap client with WithRetry to
// retry transient failures.
func New(client registry.Client, options Options) Scanner {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &scanner{options: options, client: client}
}

func (s *scanner) Scan(ctx context.Context, kind domain.RangeKind, start int64, emit Emitter) (Result, error) {
	if !kind.Valid() {
		return Result{Start: start, Final: start}, serrors.With(serrors.ErrBadRequest, "unknown range %q", kind)
	}
	if s.options.EmptyLimit < 1 {
		return Result{Start: start, Final: start}, serrors.With(serrors.ErrBadRequest,
			"empty limit must be at least 1, got %d", s.options.EmptyLimit)
	}

	ctx = logger.WithFields(ctx, zap.Stringer("range", kind))
	sess := newSession(kind, start, s.options.EmptyLimit)
	s.options.Status.begin(kind, start)
	logger.Info(ctx, "range scan started", zap.Int64("start", start), zap.Int("emptyLimit", s.options.EmptyLimit))

	for {
		if err := ctx.Err(); err != nil {
			s.options.Status.finish(kind, sess)

			return sess.result, err
		}

		number := sess.advance()
		stepCtx := logger.WithFields(ctx, zap.String("company", number))

		began := time.Now()
		o, err := s.step(stepCtx, number)
		if err == nil && o.kind == outcomeHit {
			if emitErr := emit(stepCtx, *o.row); emitErr != nil {
				err = fmt.Errorf("could not emit row: %w", emitErr)
			}
		}
		if err != nil {
			sess.abandon()
			s.options.Status.finish(kind, sess)

			return sess.result, fmt.Errorf("could not scan %s: %w", number, err)
		}

		done := sess.settle(o)
		s.observe(kind, sess, o, time.Since(began))
		if o.kind == outcomeHit {
			logger.Info(stepCtx, "company qualified", zap.String("director", o.row.Director))
		}

		if done {
			s.options.Status.finish(kind, sess)
			logger.Info(ctx, "range scan finished",
				zap.Int64("final", sess.result.Final),
				zap.Int("hits", sess.result.Hits),
				zap.Int("empties", sess.result.Empties),
				zap.Int("inconclusive", sess.result.Inconclusive))

			return sess.result, nil
		}
	}
}

// step classifies a single identifier. Only fatal failures are returned as
// errors.
func (s *scanner) step(ctx context.Context, number string) (outcome, error) {
	company, err := s.client.Company(ctx, number)
	if err != nil {
		return classify(ctx, err)
	}

	if age := company.AgeDays(s.options.Now()); age >= 0 {
		logger.Debug(ctx, "company found", zap.Int("ageDays", age), zap.String("status", string(company.Status)))
	}

	row, err := qualify.Qualify(ctx, company, s.client)
	if err != nil {
		return classify(ctx, err)
	}
	if row == nil {
		return outcome{kind: outcomeEmpty}, nil
	}

	return outcome{kind: outcomeHit, row: row}, nil
}

func classify(ctx context.Context, err error) (outcome, error) {
	switch {
	case errors.Is(err, serrors.ErrNotFound):
		return outcome{kind: outcomeEmpty}, nil
	case errors.Is(err, serrors.ErrUnavailable), errors.Is(err, serrors.ErrMalformed):
		logger.Warn(ctx, "lookup inconclusive, skipping identifier", zap.Error(err))

		return outcome{kind: outcomeInconclusive}, nil
	default:
		return outcome{}, err
	}
}

func (s *scanner) observe(kind domain.RangeKind, sess *session, o outcome, took time.Duration) {
	s.options.Status.update(kind, sess)

	m := s.options.Metrics
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(kind.String(), o.kind.String()).Inc()
	m.Cursor.WithLabelValues(kind.String()).Set(float64(sess.cursor))
	m.EmptyRun.WithLabelValues(kind.String()).Set(float64(sess.emptyRun))
	m.StepDuration.WithLabelValues(kind.String()).Observe(took.Seconds())
}
