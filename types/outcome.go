package types

import "fmt"

type OutcomeStatus string

const (
	OutcomeDecoded OutcomeStatus = "decoded"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// skip reasons
const (
	ReasonUnreadable       = "unreadable"
	ReasonAlreadyCollected = "already_collected"
	ReasonFiltered         = "filtered"
)

// Outcome is the result of processing a single artifact
type Outcome struct {
	Artifact string        `json:"artifact"`
	Status   OutcomeStatus `json:"status"`
	SceneId  string        `json:"scene_id,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Err      error         `json:"-"`
	// only set for decoded outcomes
	Record *SceneRecord `json:"-"`
}

func NewDecodedOutcome(info *ArtifactInfo, record *SceneRecord) *Outcome {
	return &Outcome{
		Artifact: info.OriginalName,
		Status:   OutcomeDecoded,
		SceneId:  record.SceneId,
		Record:   record,
	}
}

func NewSkippedOutcome(info *ArtifactInfo, reason string, err error) *Outcome {
	return &Outcome{
		Artifact: info.OriginalName,
		Status:   OutcomeSkipped,
		Reason:   reason,
		Err:      err,
	}
}

func NewFailedOutcome(info *ArtifactInfo, err error) *Outcome {
	return &Outcome{
		Artifact: info.OriginalName,
		Status:   OutcomeFailed,
		Err:      err,
	}
}

// WithoutRecord returns a copy of the outcome which does not retain the record
func (o *Outcome) WithoutRecord() *Outcome {
	res := *o
	res.Record = nil
	return &res
}

func (o *Outcome) String() string {
	switch o.Status {
	case OutcomeDecoded:
		return fmt.Sprintf("%s: decoded scene %s", o.Artifact, o.SceneId)
	case OutcomeSkipped:
		if o.Err != nil {
			return fmt.Sprintf("%s: skipped (%s): %s", o.Artifact, o.Reason, o.Err)
		}
		return fmt.Sprintf("%s: skipped (%s)", o.Artifact, o.Reason)
	default:
		return fmt.Sprintf("%s: failed: %s", o.Artifact, o.Err)
	}
}
