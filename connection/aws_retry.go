package connection

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

const maxBackoff = 5 * time.Minute

// NoOpRateLimit disables the client side retry token bucket, https://github.com/aws/aws-sdk-go-v2/issues/543
type NoOpRateLimit struct{}

func (NoOpRateLimit) AddTokens(uint) error { return nil }
func (NoOpRateLimit) GetToken(context.Context, uint) (func() error, error) {
	return noOpToken, nil
}
func noOpToken() error { return nil }

// ExponentialJitterBackoff provides backoff delays of minDelay * 3^attempt, with +/-20% jitter
type ExponentialJitterBackoff struct {
	minDelay           time.Duration
	maxBackoffAttempts int
}

func NewExponentialJitterBackoff(minDelay time.Duration, maxAttempts int) *ExponentialJitterBackoff {
	return &ExponentialJitterBackoff{minDelay, maxAttempts}
}

// BackoffDelay returns the duration to wait before the next attempt, capped at 5 minutes
func (j *ExponentialJitterBackoff) BackoffDelay(attempt int, err error) (time.Duration, error) {
	// [0.8, 1.2)
	jitter := float64(rand.Intn(40)+80) / 100

	retryTime := time.Duration(float64(j.minDelay.Nanoseconds()) * math.Pow(3, float64(attempt)) * jitter)
	if retryTime > maxBackoff || retryTime < 0 {
		retryTime = maxBackoff
	}

	slog.Info("BackoffDelay", "attempt", attempt, "retry_time", retryTime.String(), "error", err)
	return retryTime, nil
}
