// Package companieshouse provides a registry.Client backed by the Companies
// House public data REST API.
package companieshouse

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/metrics"
	"companyscan/pkg/registry"
	"companyscan/pkg/serrors"
)

// DefaultBaseURL is the production endpoint of the public data API.
const DefaultBaseURL = "https://api.company-information.service.gov.uk"

const instrumentationName = "companyscan/pkg/registry/companieshouse"

// Options configures a Client.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is sent as the basic auth username with an empty password.
	APIKey string
	// RateLimitFreeze is the pause after a 429 before the request is reissued.
	RateLimitFreeze time.Duration
	// MaxFreezes bounds how many 429 answers a single call tolerates; 0 means no bound.
	MaxFreezes int
	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Client talks to the Companies House REST API and fulfills registry.Client.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	options    Options
	baseURL    *url.URL
	duration   metric.Float64Histogram
	freezes    metric.Int64Counter
	tracer     trace.Tracer
}

var _ registry.Client = (*Client)(nil)

// New constructs a Client sending requests through httpClient.
func New(httpClient *http.Client, options Options) (*Client, error) {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(options.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if options.MeterProvider == nil {
		options.MeterProvider = otel.GetMeterProvider()
	}
	if options.TracerProvider == nil {
		options.TracerProvider = otel.GetTracerProvider()
	}

	meter := options.MeterProvider.Meter(instrumentationName)
	duration, err := meter.Float64Histogram("registry.request.duration",
		metric.WithDescription("Duration of registry HTTP requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}
	freezes, err := meter.Int64Counter("registry.rate_limit.freezes",
		metric.WithDescription("Number of pauses caused by registry rate limiting."))
	if err != nil {
		return nil, errors.Wrap(err, "create freeze counter")
	}

	return &Client{
		httpClient: httpClient,
		options:    options,
		baseURL:    base,
		duration:   duration,
		freezes:    freezes,
		tracer:     options.TracerProvider.Tracer(instrumentationName),
	}, nil
}

// Company fetches GET /company/{number}.
func (c *Client) Company(ctx context.Context, number string) (*domain.Company, error) {
	body, err := c.get(ctx, "company", number, "")
	if err != nil {
		return nil, err
	}

	company, err := decodeCompany(body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformed, err, "could not decode company %s", number)
	}
	if company.Number == "" {
		company.Number = number
	}

	return company, nil
}

// Officers fetches GET /company/{number}/officers.
func (c *Client) Officers(ctx context.Context, number string) (*domain.OfficerListing, error) {
	return c.listing(ctx, "officers", number, "/officers")
}

// PersonsWithSignificantControl fetches GET /company/{number}/persons-with-significant-control.
func (c *Client) PersonsWithSignificantControl(ctx context.Context, number string) (*domain.OfficerListing, error) {
	return c.listing(ctx, "persons_with_significant_control", number, "/persons-with-significant-control")
}

// PersonsWithSignificantControlStatements fetches
// GET /company/{number}/persons-with-significant-control-statements.
func (c *Client) PersonsWithSignificantControlStatements(
	ctx context.Context,
	number string,
) (*domain.OfficerListing, error) {
	return c.listing(ctx, "persons_with_significant_control_statements", number,
		"/persons-with-significant-control-statements")
}

func (c *Client) listing(ctx context.Context, op, number, suffix string) (*domain.OfficerListing, error) {
	body, err := c.get(ctx, op, number, suffix)
	if err != nil {
		return nil, err
	}

	listing, err := decodeListing(body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformed, err, "could not decode %s of %s", op, number)
	}

	return listing, nil
}

// get issues GET {base}/company/{number}{suffix}. A 429 answer freezes the
// caller for RateLimitFreeze and reissues the request.
func (c *Client) get(ctx context.Context, op, number, suffix string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "registry."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("company.number", number)))
	defer span.End()

	endpoint := c.baseURL.JoinPath("company", number).String() + suffix

	for attempt := 1; ; attempt++ {
		body, status, err := c.do(ctx, op, endpoint)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, err
		}
		span.SetAttributes(attribute.Int("http.status_code", status))

		if status != http.StatusTooManyRequests {
			if err := statusError(status, body, op, number); err != nil {
				if !errors.Is(err, serrors.ErrNotFound) {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				}

				return nil, err
			}

			return body, nil
		}

		if c.options.MaxFreezes > 0 && attempt > c.options.MaxFreezes {
			return nil, serrors.With(serrors.ErrRateLimited, "rate limited %d times fetching %s of %s", attempt, op, number)
		}
		c.freezes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
		logger.Warn(ctx, "registry rate limit reached, freezing",
			zap.String("operation", op),
			zap.String("company", number),
			zap.Duration("freeze", c.options.RateLimitFreeze))
		if err := sleep(ctx, c.options.RateLimitFreeze); err != nil {
			return nil, err
		}
	}
}

// do performs a single request and returns the body and status code.
func (c *Client) do(ctx context.Context, op, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "create request")
	}
	req.SetBasicAuth(c.options.APIKey, "")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, op, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}

		return nil, 0, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	c.record(ctx, op, resp.StatusCode, start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}

		return nil, 0, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}

	if logger.IsDebug(ctx) {
		if rl, err := ParseRateLimit(resp.Header); err == nil && rl.Limit > 0 {
			logger.Debug(ctx, "registry rate limit",
				zap.Int("limit", rl.Limit),
				zap.Int("remaining", rl.Remaining),
				zap.Time("resetAt", rl.ResetAt))
		}
	}

	return b, resp.StatusCode, nil
}

func (c *Client) record(ctx context.Context, op string, status int, start time.Time) {
	c.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", strconv.Itoa(status))))
}

func statusError(status int, body []byte, op, number string) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return serrors.With(serrors.ErrNotFound, "%s of %s not found", op, number)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return serrors.With(serrors.ErrUnauthorized, "registry rejected the API key (%d): %s", status, msg)
	case status >= 500 || status == http.StatusRequestTimeout:
		return serrors.With(serrors.ErrUnavailable, "registry answered %d for %s of %s", status, op, number)
	default:
		return serrors.With(serrors.ErrBadRequest, "registry answered %d for %s of %s: %s", status, op, number, msg)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
