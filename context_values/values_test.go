package context_values

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-envi/metrics"
)

func TestExecutionIdFromContext(t *testing.T) {
	_, err := ExecutionIdFromContext(context.Background())
	assert.Error(t, err)

	id := NewExecutionId()
	assert.NotEmpty(t, id)
	assert.NotEqual(t, id, NewExecutionId())

	got, err := ExecutionIdFromContext(WithExecutionId(context.Background(), id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestCountersFromContext(t *testing.T) {
	counters := metrics.NewCounters()
	ctx := WithCounters(context.Background(), counters)
	CountersFromContext(ctx).Inc("seen", 2)
	assert.Equal(t, int64(2), counters.Get("seen"))

	// no counters in the context: a detached registry
	detached := CountersFromContext(context.Background())
	require.NotNil(t, detached)
	detached.Inc("seen", 1)
	assert.Equal(t, int64(2), counters.Get("seen"))
}
