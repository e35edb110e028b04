// Package catalog resolves the scene files which belong to a processing job
package catalog

import (
	"context"
	"errors"
)

var ErrJobNotFound = errors.New("job not found")

// Catalog looks up the scene file paths of a job
type Catalog interface {
	LookupFiles(ctx context.Context, jobId int64) ([]string, error)
}
