package artifact_mapper

import (
	"context"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

// Mapper is an interface which provides a method for mapping a scene record
// a collection may be configured to have one or more Mappers, applied in order
// Mappers provided: [IdentityMapper]
type Mapper interface {
	Identifier() string
	// Map converts a record into zero or more records which are passed on to the next mapper in the chain
	Map(context.Context, *types.SceneRecord) ([]*types.SceneRecord, error)
}
