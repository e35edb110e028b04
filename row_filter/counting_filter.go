package row_filter

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const CountingFilterIdentifier = "counting_filter"

// CountingFilter counts the records it sees and accepts all of them
// the count is held in the collection counters, under "<identifier>.seen"
type CountingFilter struct{}

func NewCountingFilter() *CountingFilter {
	return &CountingFilter{}
}

func (f *CountingFilter) Identifier() string {
	return CountingFilterIdentifier
}

func (f *CountingFilter) Filter(ctx context.Context, record *types.SceneRecord) (bool, error) {
	n := context_values.CountersFromContext(ctx).Inc(f.Identifier()+".seen", 1)
	slog.Info("CountingFilter", "scene id", record.SceneId, "count", n)
	return true, nil
}
