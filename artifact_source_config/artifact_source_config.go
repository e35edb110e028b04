package artifact_source_config

import (
	"github.com/turbot/tailpipe-plugin-envi/parse"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// ArtifactSourceConfig is implemented by the config of every artifact source
type ArtifactSourceConfig interface {
	parse.Config

	GetFileLayout() *string
	GetPatterns() map[string]string
	GetExtensions() []string
	// GetNameFilter returns the filter applied to the base name of every discovered artifact
	GetNameFilter() (*types.NameFilter, error)
	DefaultTo(ArtifactSourceConfig)
}
