package loadtest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBurst_RunCountsFailures(t *testing.T) {
	var calls atomic.Int32
	b := NewBurst("burst", 20, 4)

	r := b.Run(context.Background(), func(ctx context.Context, i int) error {
		calls.Add(1)
		if i%5 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	assert.Equal(t, int32(20), calls.Load())
	assert.Equal(t, 20, r.TotalRequests)
	assert.Equal(t, 4, r.FailedRequests)
	assert.Equal(t, 16, r.SuccessRequests)
	assert.Equal(t, 4, r.Errors["boom"])
	assert.LessOrEqual(t, r.MinResponseTime, r.P50)
	assert.LessOrEqual(t, r.P50, r.MaxResponseTime)
}

func TestBurst_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	b := NewBurst("limit", 12, 3)

	b.Run(context.Background(), func(ctx context.Context, i int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestNewBurst_ClampsConcurrency(t *testing.T) {
	assert.Equal(t, 2, NewBurst("x", 2, 10).concurrency)
	assert.Equal(t, 1, NewBurst("x", 5, 0).concurrency)
}

func TestPercentile(t *testing.T) {
	times := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(6), percentile(times, 0.5))
	assert.Equal(t, time.Duration(10), percentile(times, 0.99))
	assert.Equal(t, time.Duration(0), percentile(nil, 0.5))
}
