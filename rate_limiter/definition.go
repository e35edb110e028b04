package rate_limiter

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

type Definition struct {
	// the limiter name
	Name string
	// optional token bucket: FillRate tokens per second, up to BucketSize
	FillRate   rate.Limit
	BucketSize int64
	// the max number of concurrent holders
	MaxConcurrency int64
}

func (d *Definition) String() string {
	var parts []string
	if d.FillRate > 0 {
		parts = append(parts, fmt.Sprintf("Limit(/s): %v, Burst: %d", d.FillRate, d.BucketSize))
	}
	if d.MaxConcurrency > 0 {
		parts = append(parts, fmt.Sprintf("MaxConcurrency: %d", d.MaxConcurrency))
	}
	return fmt.Sprintf("%s: %s", d.Name, strings.Join(parts, " "))
}

func (d *Definition) Validate() error {
	var validationErrors []error
	if d.Name == "" {
		validationErrors = append(validationErrors, errors.New("rate limiter definition must specify a name"))
	}
	if (d.FillRate <= 0 || d.BucketSize <= 0) && d.MaxConcurrency <= 0 {
		validationErrors = append(validationErrors, errors.New("rate limiter definition must define either a rate limit or max concurrency"))
	}
	if d.MaxConcurrency < 0 {
		validationErrors = append(validationErrors, errors.New("max concurrency must not be negative"))
	}
	return errors.Join(validationErrors...)
}
