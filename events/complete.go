package events

import "github.com/turbot/tailpipe-plugin-envi/types"

type Complete struct {
	Base
	ExecutionId string
	RecordCount int
	Counters    map[string]int64
	Timing      types.TimingCollection
	Err         error
}

func NewCompleteEvent(executionId string, recordCount int, counters map[string]int64, timing types.TimingCollection, err error) *Complete {
	return &Complete{
		ExecutionId: executionId,
		RecordCount: recordCount,
		Counters:    counters,
		Timing:      timing,
		Err:         err,
	}
}
