package context_values

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"github.com/turbot/pipe-fittings/contexthelpers"

	"github.com/turbot/tailpipe-plugin-envi/metrics"
)

var (
	contextKeyExecutionId = contexthelpers.ContextKey("execution_id")
)

// NewExecutionId returns a new, sortable, execution id
func NewExecutionId() string {
	return xid.New().String()
}

// WithExecutionId adds the execution id to the context
func WithExecutionId(ctx context.Context, executionId string) context.Context {
	return context.WithValue(ctx, contextKeyExecutionId, executionId)
}

// ExecutionIdFromContext returns the execution id from the context
func ExecutionIdFromContext(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is nil")
	}
	val, ok := ctx.Value(contextKeyExecutionId).(string)
	if !ok {
		return "", fmt.Errorf("no execution id in context")
	}
	return val, nil
}

var contextKeyCounters = contexthelpers.ContextKey("counters")

// WithCounters adds the collection counters to the context
func WithCounters(ctx context.Context, counters *metrics.Counters) context.Context {
	return context.WithValue(ctx, contextKeyCounters, counters)
}

// CountersFromContext returns the collection counters from the context
// if the context has none, a new registry is returned so callers can always count
func CountersFromContext(ctx context.Context) *metrics.Counters {
	if ctx != nil {
		if c, ok := ctx.Value(contextKeyCounters).(*metrics.Counters); ok && c != nil {
			return c
		}
	}
	return metrics.NewCounters()
}
