package artifact_source

import (
	"fmt"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
)

type ArtifactSourceOption func(ArtifactSource) error

// the setters implemented by ArtifactSourceImpl which options use
type artifactSourceOptionHandler interface {
	SetDefaultConfig(*artifact_source_config.ArtifactSourceConfigImpl)
	SetTmpDir(string)
}

// WithDefaultArtifactSourceConfig sets the default config, e.g. file layout, IF it has not been set from config
func WithDefaultArtifactSourceConfig(config *artifact_source_config.ArtifactSourceConfigImpl) ArtifactSourceOption {
	return func(s ArtifactSource) error {
		h, ok := s.(artifactSourceOptionHandler)
		if !ok {
			return fmt.Errorf("source %s does not support a default config", s.Identifier())
		}
		h.SetDefaultConfig(config)
		return nil
	}
}

// WithTmpDir sets the base directory artifacts are downloaded to
func WithTmpDir(dir string) ArtifactSourceOption {
	return func(s ArtifactSource) error {
		h, ok := s.(artifactSourceOptionHandler)
		if !ok {
			return fmt.Errorf("source %s does not support a tmp dir", s.Identifier())
		}
		h.SetTmpDir(dir)
		return nil
	}
}

func WithCollectionState(state *collection_state.CollectionState) ArtifactSourceOption {
	return func(s ArtifactSource) error {
		s.SetCollectionState(state)
		return nil
	}
}

func WithParallelism(parallelism int) ArtifactSourceOption {
	return func(s ArtifactSource) error {
		if parallelism < 1 {
			return fmt.Errorf("parallelism must be at least 1, got %d", parallelism)
		}
		s.SetParallelism(parallelism)
		return nil
	}
}
