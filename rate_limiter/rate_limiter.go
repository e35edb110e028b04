package rate_limiter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// APILimiter bounds the number of concurrent holders and, optionally, the rate at which they acquire
type APILimiter struct {
	Name string

	// underlying rate limiter
	limiter *rate.Limiter
	// semaphore to control concurrency
	sem            *semaphore.Weighted
	maxConcurrency int64
}

func NewAPILimiter(l *Definition) (*APILimiter, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limiter %s: %w", l.Name, err)
	}
	res := &APILimiter{
		Name:           l.Name,
		maxConcurrency: l.MaxConcurrency,
	}
	if l.FillRate > 0 {
		res.limiter = rate.NewLimiter(l.FillRate, int(l.BucketSize))
	}
	if l.MaxConcurrency > 0 {
		res.sem = semaphore.NewWeighted(l.MaxConcurrency)
	}
	return res, nil
}

// NewConcurrencyLimiter returns a limiter which allows at most parallelism concurrent holders
func NewConcurrencyLimiter(name string, parallelism int) (*APILimiter, error) {
	return NewAPILimiter(&Definition{Name: name, MaxConcurrency: int64(parallelism)})
}

func (l *APILimiter) String() string {
	var parts []string
	if l.limiter != nil {
		parts = append(parts, fmt.Sprintf("Limit(/s): %v, Burst: %d", l.limiter.Limit(), l.limiter.Burst()))
	}
	if l.sem != nil {
		parts = append(parts, fmt.Sprintf("MaxConcurrency: %d", l.maxConcurrency))
	}
	return strings.Join(parts, " ")
}

func (l *APILimiter) TryToAcquireSemaphore() bool {
	if l.sem == nil {
		return true
	}
	return l.sem.TryAcquire(1)
}

// Wait blocks until a concurrency slot is held and the rate limit allows an acquisition
// every successful Wait must be paired with a Release
func (l *APILimiter) Wait(ctx context.Context) error {
	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			l.Release()
			return err
		}
	}
	return nil
}

func (l *APILimiter) Release() {
	if l.sem == nil {
		return
	}
	l.sem.Release(1)
}
