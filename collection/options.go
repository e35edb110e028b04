package collection

import (
	"fmt"

	"github.com/turbot/tailpipe-plugin-envi/artifact_loader"
	"github.com/turbot/tailpipe-plugin-envi/artifact_mapper"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/row_filter"
	"github.com/turbot/tailpipe-plugin-envi/writer"
)

type CollectionOption func(*Collection) error

// WithLoader sets the loader used to decode artifacts (default: [artifact_loader.SceneLoader])
func WithLoader(loader artifact_loader.Loader) CollectionOption {
	return func(c *Collection) error {
		if loader == nil {
			return fmt.Errorf("loader must not be nil")
		}
		c.loader = loader
		return nil
	}
}

// WithMappers sets the mappers applied to each record, in order (default: [artifact_mapper.IdentityMapper])
func WithMappers(mappers ...artifact_mapper.Mapper) CollectionOption {
	return func(c *Collection) error {
		c.mappers = mappers
		return nil
	}
}

// WithFilters sets the filters applied to each mapped record, in order (default: [row_filter.CountingFilter])
func WithFilters(filters ...row_filter.Filter) CollectionOption {
	return func(c *Collection) error {
		c.filters = filters
		return nil
	}
}

// WithWriters sets the outputs records are written to
func WithWriters(writers ...writer.Writer) CollectionOption {
	return func(c *Collection) error {
		c.writers = writers
		return nil
	}
}

// WithParallelism sets the maximum number of artifacts downloaded and processed at once (default 1)
func WithParallelism(parallelism int) CollectionOption {
	return func(c *Collection) error {
		if parallelism < 1 {
			return fmt.Errorf("parallelism must be at least 1, got %d", parallelism)
		}
		c.parallelism = parallelism
		return nil
	}
}

// WithCollectionState enables incremental collection: artifacts recorded in the state are skipped,
// and the state is saved once the collection completes
func WithCollectionState(state *collection_state.CollectionState) CollectionOption {
	return func(c *Collection) error {
		c.collectionState = state
		return nil
	}
}
