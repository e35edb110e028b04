package artifact_loader

import (
	"context"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

// Loader decodes a locally available artifact into a scene record
// Loaders provided: [SceneLoader]
type Loader interface {
	Identifier() string
	// Load returns the outcome for the artifact: decoded (with its record), skipped or failed
	// it never returns nil
	Load(context.Context, *types.ArtifactInfo) *types.Outcome
}
