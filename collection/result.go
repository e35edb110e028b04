package collection

import (
	"errors"
	"fmt"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

// Result is the summary of a collection
type Result struct {
	ExecutionId string `json:"execution_id"`
	// one outcome per artifact, sorted by artifact name; records are not retained
	Outcomes []*types.Outcome      `json:"outcomes"`
	Counters map[string]int64      `json:"counters"`
	Timing   types.TimingCollection `json:"timing"`
}

func (r *Result) Decoded() []*types.Outcome {
	return r.withStatus(types.OutcomeDecoded)
}

func (r *Result) Skipped() []*types.Outcome {
	return r.withStatus(types.OutcomeSkipped)
}

func (r *Result) Failed() []*types.Outcome {
	return r.withStatus(types.OutcomeFailed)
}

// Err returns the errors of all failed outcomes, joined
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", o.Artifact, o.Err))
	}
	return errors.Join(errs...)
}

func (r *Result) withStatus(status types.OutcomeStatus) []*types.Outcome {
	var res []*types.Outcome
	for _, o := range r.Outcomes {
		if o.Status == status {
			res = append(res, o)
		}
	}
	return res
}
