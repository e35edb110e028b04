package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

func TestStatus_Update(t *testing.T) {
	info := types.NewArtifactInfo("file:/opt/gms_sample/a.bsq")
	s := NewStatusEvent("exec")

	for _, e := range []Event{
		NewArtifactDiscoveredEvent("exec", info),
		NewArtifactDiscoveredEvent("exec", info),
		NewArtifactDownloadedEvent("exec", info),
		NewArtifactSkippedEvent("exec", info, types.ReasonUnreadable, nil),
		NewSceneDecodedEvent("exec", &types.SceneRecord{SceneId: "1"}),
		NewErrorEvent("exec", errors.New("boom")),
		NewStartedEvent("exec"),
	} {
		s.Update(e)
	}

	assert.Equal(t, "discovered: 2, downloaded: 1, skipped: 1, decoded: 1, errors: 1", s.String())
}
