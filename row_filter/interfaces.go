package row_filter

import (
	"context"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

// Filter decides whether a scene record is passed on to the writers
// Filters provided: [CountingFilter], [PropertyFilter]
type Filter interface {
	Identifier() string
	// Filter returns false if the record should be dropped
	Filter(context.Context, *types.SceneRecord) (bool, error)
}
