package scrape

import (
	"context"

	"golang.org/x/time/rate"
)

// DownloadLimiter paces media downloads within a job using a token bucket
// with a burst of 1. Downloads already run sequentially; the limiter adds
// spacing so a burst of asset fetches doesn't trip the upstream source's
// abuse detection.
type DownloadLimiter struct {
	limiter *rate.Limiter
}

// NewDownloadLimiter creates a limiter allowing rps downloads per second.
func NewDownloadLimiter(rps float64) *DownloadLimiter {
	return &DownloadLimiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next download is allowed. Returns an error if the
// context is canceled before the wait completes. A nil limiter never waits.
func (d *DownloadLimiter) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}
