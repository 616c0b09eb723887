package companieshouse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"companyscan/pkg/registry"
)

// ParseRateLimit extracts the X-Ratelimit-* headers. Missing headers yield a
// zero status; present but malformed headers are an error.
func ParseRateLimit(h http.Header) (registry.RateLimitStatus, error) {
	var rl registry.RateLimitStatus

	atoi := func(name string) (int, error) {
		v := h.Get(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %s", name)
		}

		return n, nil
	}

	var err error
	if rl.Limit, err = atoi("X-Ratelimit-Limit"); err != nil {
		return registry.RateLimitStatus{}, err
	}
	if rl.Remaining, err = atoi("X-Ratelimit-Remain"); err != nil {
		return registry.RateLimitStatus{}, err
	}
	reset, err := atoi("X-Ratelimit-Reset")
	if err != nil {
		return registry.RateLimitStatus{}, err
	}
	if reset > 0 {
		rl.ResetAt = time.Unix(int64(reset), 0).UTC()
	}

	return rl, nil
}
