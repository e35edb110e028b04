package rate_limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "concurrency", def: Definition{Name: "a", MaxConcurrency: 1}},
		{name: "rate", def: Definition{Name: "a", FillRate: 5, BucketSize: 1}},
		{name: "no name", def: Definition{MaxConcurrency: 1}, wantErr: true},
		{name: "no limits", def: Definition{Name: "a"}, wantErr: true},
		{name: "negative concurrency", def: Definition{Name: "a", MaxConcurrency: -1, FillRate: 1, BucketSize: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAPILimiter_MaxConcurrency(t *testing.T) {
	l, err := NewConcurrencyLimiter("test", 2)
	require.NoError(t, err)

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(context.Background()))
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer l.Release()
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, maxActive, int32(2))
}

func TestAPILimiter_WaitCancelled(t *testing.T) {
	l, err := NewConcurrencyLimiter("test", 1)
	require.NoError(t, err)
	require.True(t, l.TryToAcquireSemaphore())
	assert.False(t, l.TryToAcquireSemaphore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))

	l.Release()
	assert.True(t, l.TryToAcquireSemaphore())
}

func TestNewConcurrencyLimiter_Invalid(t *testing.T) {
	_, err := NewConcurrencyLimiter("test", 0)
	assert.Error(t, err)
}
