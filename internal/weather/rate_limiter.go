package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a Fetcher so that all widgets together stay under
// the API plan's request rate.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps requests per second with the given burst.
// rps can be fractional.
func NewRateLimitedFetcher(f Fetcher, rps float64, burst int) *RateLimitedFetcher {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{fetcher: f, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimitedFetcher) wait(ctx context.Context, op, subject string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: op, Subject: subject, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return nil
}

func (r *RateLimitedFetcher) FetchCurrent(ctx context.Context, apiKey, subject string) (*Current, error) {
	if err := r.wait(ctx, "current", subject); err != nil {
		return nil, err
	}
	return r.fetcher.FetchCurrent(ctx, apiKey, subject)
}

func (r *RateLimitedFetcher) FetchAstronomy(ctx context.Context, apiKey, subject string) (*Astronomy, error) {
	if err := r.wait(ctx, "astronomy", subject); err != nil {
		return nil, err
	}
	return r.fetcher.FetchAstronomy(ctx, apiKey, subject)
}

func (r *RateLimitedFetcher) FetchForecast(ctx context.Context, apiKey, subject string, days int) (*Forecast, error) {
	if err := r.wait(ctx, "forecast", subject); err != nil {
		return nil, err
	}
	return r.fetcher.FetchForecast(ctx, apiKey, subject, days)
}

var _ Fetcher = (*RateLimitedFetcher)(nil)
