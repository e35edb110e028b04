package catalog

import (
	"context"
	"fmt"
	"slices"
)

// SamplePaths are the scenes of the bundled sample data set
var SamplePaths = []string{
	"file:/opt/gms_sample/227064_000202_BLA_SR.bsq",
	"file:/opt/gms_sample/227064_000321_BLA_SR.bsq",
}

// StaticCatalog is a Catalog backed by a fixed map of job id to paths
type StaticCatalog struct {
	jobs map[int64][]string
	// returned for any job which is not in the map, if set
	fallback []string
}

func NewStaticCatalog(jobs map[int64][]string) *StaticCatalog {
	return &StaticCatalog{jobs: jobs}
}

// NewSampleCatalog returns a catalog which resolves every job to the sample scenes
func NewSampleCatalog() *StaticCatalog {
	return &StaticCatalog{fallback: SamplePaths}
}

func (c *StaticCatalog) LookupFiles(ctx context.Context, jobId int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if paths, ok := c.jobs[jobId]; ok {
		return slices.Clone(paths), nil
	}
	if c.fallback != nil {
		return slices.Clone(c.fallback), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrJobNotFound, jobId)
}
