// Package config parses collection config files:
//
//	collection {
//	  parallelism = 1
//	  filters     = ["sensor = 'BLA'"]
//	  state_file  = "./state.json"
//	}
//	source "catalog" {
//	  job_id = 26184107
//	}
//	output "jsonl" {
//	  path = "./out"
//	}
//
// The body of each source and output block is kept as raw HCL, which is parsed by the source or output it configures.
package config

import (
	"github.com/turbot/tailpipe-plugin-envi/config_data"
)

const (
	blockCollection = "collection"
	blockSource     = "source"
	blockOutput     = "output"
)

type Config struct {
	Collection *CollectionConfig
	Source     *config_data.SourceConfigData
	Outputs    []*config_data.OutputConfigData
}

// NewConfig returns a config with an empty collection block
func NewConfig() *Config {
	return &Config{Collection: &CollectionConfig{}}
}
