package events

import "fmt"

// Status is a running summary of the events raised during a collection
type Status struct {
	Base
	ExecutionId         string
	ArtifactsDiscovered int
	ArtifactsDownloaded int
	ArtifactsSkipped    int
	ScenesDecoded       int
	Errors              int
}

func NewStatusEvent(executionId string) *Status {
	return &Status{
		ExecutionId: executionId,
	}
}

func (r *Status) Update(event Event) {
	switch event.(type) {
	case *ArtifactDiscovered:
		r.ArtifactsDiscovered++
	case *ArtifactDownloaded:
		r.ArtifactsDownloaded++
	case *ArtifactSkipped:
		r.ArtifactsSkipped++
	case *SceneDecoded:
		r.ScenesDecoded++
	case *Error:
		r.Errors++
	}
}

func (r *Status) String() string {
	return fmt.Sprintf("discovered: %d, downloaded: %d, skipped: %d, decoded: %d, errors: %d",
		r.ArtifactsDiscovered, r.ArtifactsDownloaded, r.ArtifactsSkipped, r.ScenesDecoded, r.Errors)
}
