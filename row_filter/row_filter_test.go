package row_filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/metrics"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

func TestCountingFilter(t *testing.T) {
	counters := metrics.NewCounters()
	ctx := context_values.WithCounters(context.Background(), counters)

	f := NewCountingFilter()
	for _, id := range []string{"a", "b", "c"} {
		ok, err := f.Filter(ctx, &types.SceneRecord{SceneId: id})
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, int64(3), counters.Get("counting_filter.seen"))
}

func TestPropertyFilter(t *testing.T) {
	tests := []struct {
		name       string
		filters    []string
		properties map[string]string
		want       bool
	}{
		{name: "no filters", properties: map[string]string{"sensor": "BLA"}, want: true},
		{name: "match", filters: []string{"sensor = 'BLA'"}, properties: map[string]string{"sensor": "BLA"}, want: true},
		{name: "mismatch", filters: []string{"sensor = 'BLA'"}, properties: map[string]string{"sensor": "OLI"}, want: false},
		{name: "missing property", filters: []string{"sensor = 'BLA'"}, properties: map[string]string{"path_row": "227064"}, want: true},
		{name: "one of two fails", filters: []string{"sensor = 'BLA'", "path_row = '1'"}, properties: map[string]string{"sensor": "BLA", "path_row": "2"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counters := metrics.NewCounters()
			ctx := context_values.WithCounters(context.Background(), counters)

			f, err := NewPropertyFilter(tt.filters...)
			require.NoError(t, err)
			got, err := f.Filter(ctx, &types.SceneRecord{SceneId: "1", Properties: tt.properties})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			wantRejected := int64(0)
			if !tt.want {
				wantRejected = 1
			}
			assert.Equal(t, wantRejected, counters.Get("property_filter.rejected"))
		})
	}
}

func TestNewPropertyFilter(t *testing.T) {
	f, err := NewPropertyFilter("sensor = 'BLA'", "path_row = '227064'")
	require.NoError(t, err)
	assert.Equal(t, []string{"path_row", "sensor"}, f.Fields())

	_, err = NewPropertyFilter("sensor ==")
	assert.Error(t, err)
}
