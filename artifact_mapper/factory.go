package artifact_mapper

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Factory is a global ArtifactMapperFactory instance
var Factory = newArtifactMapperFactory()

func init() {
	Factory.RegisterArtifactMappers(NewIdentityMapper)
}

type ArtifactMapperFactory struct {
	artifactMappers map[string]func() Mapper
}

func newArtifactMapperFactory() ArtifactMapperFactory {
	return ArtifactMapperFactory{
		artifactMappers: make(map[string]func() Mapper),
	}
}

func (b *ArtifactMapperFactory) RegisterArtifactMappers(mapperFuncs ...func() Mapper) {
	for _, ctor := range mapperFuncs {
		// create an instance of the mapper to get the identifier
		c := ctor()
		b.artifactMappers[c.Identifier()] = ctor
	}
}

// GetArtifactMapper attempts to instantiate an artifact mapper
// It will fail if the requested mapper type is not registered
func (b *ArtifactMapperFactory) GetArtifactMapper(mapperType string) (Mapper, error) {
	ctor, ok := b.artifactMappers[mapperType]
	if !ok {
		return nil, fmt.Errorf("mapper not registered: %s", mapperType)
	}
	return ctor(), nil
}

// GetArtifactMappers instantiates the named mappers, in order
func (b *ArtifactMapperFactory) GetArtifactMappers(mapperTypes ...string) ([]Mapper, error) {
	res := make([]Mapper, 0, len(mapperTypes))
	for _, t := range mapperTypes {
		m, err := b.GetArtifactMapper(t)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

// GetMapperTypes returns the registered mapper identifiers, sorted
func (b *ArtifactMapperFactory) GetMapperTypes() []string {
	res := maps.Keys(b.artifactMappers)
	slices.Sort(res)
	return res
}
