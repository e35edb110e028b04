package events

import (
	"github.com/turbot/tailpipe-plugin-envi/types"
)

type ArtifactDiscovered struct {
	Base
	ExecutionId string
	Info        *types.ArtifactInfo
}

func NewArtifactDiscoveredEvent(executionId string, info *types.ArtifactInfo) *ArtifactDiscovered {
	return &ArtifactDiscovered{
		ExecutionId: executionId,
		Info:        info,
	}
}

// ArtifactDownloaded is fired once the artifact (and its header sidecar) is available locally
type ArtifactDownloaded struct {
	Base
	ExecutionId string
	Info        *types.ArtifactInfo
}

func NewArtifactDownloadedEvent(executionId string, info *types.ArtifactInfo) *ArtifactDownloaded {
	return &ArtifactDownloaded{
		ExecutionId: executionId,
		Info:        info,
	}
}

// ArtifactSkipped is fired when an artifact produces no record: it was unreadable,
// already collected, or its record was rejected by a filter
type ArtifactSkipped struct {
	Base
	ExecutionId string
	Info        *types.ArtifactInfo
	Reason      string
	Err         error
}

func NewArtifactSkippedEvent(executionId string, info *types.ArtifactInfo, reason string, err error) *ArtifactSkipped {
	return &ArtifactSkipped{
		ExecutionId: executionId,
		Info:        info,
		Reason:      reason,
		Err:         err,
	}
}

// ArtifactFailed is fired when an artifact could not be downloaded
type ArtifactFailed struct {
	Base
	ExecutionId string
	Info        *types.ArtifactInfo
	Err         error
}

func NewArtifactFailedEvent(executionId string, info *types.ArtifactInfo, err error) *ArtifactFailed {
	return &ArtifactFailed{
		ExecutionId: executionId,
		Info:        info,
		Err:         err,
	}
}
