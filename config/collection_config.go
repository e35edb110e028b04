package config

import (
	"fmt"

	"github.com/turbot/tailpipe-plugin-envi/artifact_mapper"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/constants"
	"github.com/turbot/tailpipe-plugin-envi/helpers"
)

// CollectionConfig is the config of the collection block
type CollectionConfig struct {
	// the maximum number of artifacts processed at once
	Parallelism *int `hcl:"parallelism,optional"`
	// SQL style property filters, e.g. "sensor = 'BLA'"
	Filters []string `hcl:"filters,optional"`
	// the mappers applied to every record, in order
	Mappers []string `hcl:"mappers,optional"`
	// the incremental collection state file
	StateFile *string `hcl:"state_file,optional"`
}

func (c *CollectionConfig) Validate() error {
	if c.Parallelism != nil && *c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", *c.Parallelism)
	}
	if _, err := helpers.BuildFilterMap(c.Filters); err != nil {
		return err
	}
	for _, m := range c.Mappers {
		if _, err := artifact_mapper.Factory.GetArtifactMapper(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *CollectionConfig) Identifier() string {
	return config_data.ConfigTypeCollection
}

func (c *CollectionConfig) GetParallelism() int {
	if c.Parallelism == nil {
		return constants.DefaultParallelism
	}
	return *c.Parallelism
}

func (c *CollectionConfig) GetMappers() []string {
	if c.Mappers == nil {
		return []string{artifact_mapper.IdentityMapperIdentifier}
	}
	return c.Mappers
}
