package events

import "github.com/turbot/tailpipe-plugin-envi/types"

// SceneDecoded is fired when a scene record has passed all stages and been written
type SceneDecoded struct {
	Base
	ExecutionId string
	Record      *types.SceneRecord
}

func NewSceneDecodedEvent(executionId string, record *types.SceneRecord) *SceneDecoded {
	return &SceneDecoded{
		ExecutionId: executionId,
		Record:      record,
	}
}
