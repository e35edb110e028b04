package artifact_source

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
)

// Factory is a global ArtifactSourceFactory instance
var Factory = newFactory()

func init() {
	Factory.RegisterArtifactSources(
		NewFileSystemSource,
		NewCatalogSource,
		NewAwsS3BucketSource,
		NewGcpStorageBucketSource,
		NewMinioBucketSource,
	)
}

type ArtifactSourceFactory struct {
	artifactSources map[string]func() ArtifactSource
}

func newFactory() *ArtifactSourceFactory {
	return &ArtifactSourceFactory{
		artifactSources: make(map[string]func() ArtifactSource),
	}
}

func (b *ArtifactSourceFactory) RegisterArtifactSources(sourceFuncs ...func() ArtifactSource) {
	for _, ctor := range sourceFuncs {
		// create an instance of the source to get the identifier
		c := ctor()
		b.artifactSources[c.Identifier()] = ctor
	}
}

// GetArtifactSource instantiates and initialises the source for the config data
// It will fail if the requested source type is not registered
func (b *ArtifactSourceFactory) GetArtifactSource(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) (ArtifactSource, error) {
	ctor, ok := b.artifactSources[configData.Identifier()]
	if !ok {
		return nil, fmt.Errorf("source not registered: %s", configData.Identifier())
	}
	source := ctor()

	// register the source implementation with the base struct (_before_ calling Init)
	type baseSource interface{ RegisterSource(ArtifactSource) }
	base, ok := source.(baseSource)
	if !ok {
		return nil, fmt.Errorf("source implementation must embed artifact_source.ArtifactSourceImpl")
	}
	base.RegisterSource(source)

	if err := source.Init(ctx, configData, opts...); err != nil {
		return nil, fmt.Errorf("failed to initialise source: %w", err)
	}
	return source, nil
}

// GetSourceTypes returns the registered source identifiers, sorted
func (b *ArtifactSourceFactory) GetSourceTypes() []string {
	res := maps.Keys(b.artifactSources)
	slices.Sort(res)
	return res
}
