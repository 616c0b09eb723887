package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/registry"
	"companyscan/pkg/serrors"
)

// DefaultRetryDelay is the pause before retrying a transient failure.
const DefaultRetryDelay = 15 * time.Second

// retryingClient retries every registry call once after a fixed delay when
// the first attempt failed with ErrUnavailable.
type retryingClient struct {
	next  registry.Client
	delay time.Duration
}

var _ registry.Client = retryingClient{}

// WithRetry wraps next so that a transient failure of any call is retried
// exactly once after delay. Other errors are returned immediately.
func WithRetry(next registry.Client, delay time.Duration) registry.Client {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	return retryingClient{next: next, delay: delay}
}

func (r retryingClient) Company(ctx context.Context, number string) (*domain.Company, error) {
	var company *domain.Company
	err := r.do(ctx, "company", func(ctx context.Context) error {
		var err error
		company, err = r.next.Company(ctx, number)

		return err
	})

	return company, err
}

func (r retryingClient) Officers(ctx context.Context, number string) (*domain.OfficerListing, error) {
	return r.listing(ctx, "officers", func(ctx context.Context) (*domain.OfficerListing, error) {
		return r.next.Officers(ctx, number)
	})
}

func (r retryingClient) PersonsWithSignificantControl(
	ctx context.Context,
	number string,
) (*domain.OfficerListing, error) {
	return r.listing(ctx, "persons with significant control", func(ctx context.Context) (*domain.OfficerListing, error) {
		return r.next.PersonsWithSignificantControl(ctx, number)
	})
}

func (r retryingClient) PersonsWithSignificantControlStatements(
	ctx context.Context,
	number string,
) (*domain.OfficerListing, error) {
	return r.listing(ctx, "persons with significant control statements",
		func(ctx context.Context) (*domain.OfficerListing, error) {
			return r.next.PersonsWithSignificantControlStatements(ctx, number)
		})
}

func (r retryingClient) listing(
	ctx context.Context,
	op string,
	fetch func(context.Context) (*domain.OfficerListing, error),
) (*domain.OfficerListing, error) {
	var listing *domain.OfficerListing
	err := r.do(ctx, op, func(ctx context.Context) error {
		var err error
		listing, err = fetch(ctx)

		return err
	})

	return listing, err
}

func (r retryingClient) do(ctx context.Context, op string, fn func(context.Context) error) error {
	attempt := 0

	return retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(r.delay)), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !errors.Is(err, serrors.ErrUnavailable) {
			return err
		}
		if attempt == 1 {
			logger.Warn(ctx, "transient registry failure, retrying once",
				zap.String("operation", op),
				zap.Duration("delay", r.delay),
				zap.Error(err))
		}

		return retry.RetryableError(err)
	})
}
