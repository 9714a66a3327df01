package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWorkerPool_RunsTask(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 2, 8)
	p.Start()
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), Task{Name: "ok", Run: func(ctx context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestWorkerPool_RetriesUntilSuccess(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 8)
	p.RetryDelay = time.Millisecond
	p.Start()
	defer p.Stop()

	var calls int32
	done := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), Task{Name: "flaky", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not retried to success")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWorkerPool_GivesUpAfterMaxRetry(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 8)
	p.RetryDelay = time.Millisecond
	p.MaxRetry = 2
	p.Start()

	var calls int32
	require.NoError(t, p.Submit(context.Background(), Task{Name: "broken", Run: func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("permanent")
	}}))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 2)
	p.Start()
	p.Stop()

	err := p.Submit(context.Background(), Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestWorkerPool_SubmitBlocksWhenQueueFull(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 2)
	p.Start()
	defer p.Stop()

	release := make(chan struct{})
	var ran int32
	errs := make(chan error, 6)
	go func() {
		for i := 0; i < 6; i++ {
			errs <- p.Submit(context.Background(), Task{Name: "slow", Run: func(ctx context.Context) error {
				<-release
				atomic.AddInt32(&ran, 1)
				return nil
			}})
		}
		close(errs)
	}()

	// 1 个在执行，2 个在队列，其余提交方阻塞
	time.Sleep(50 * time.Millisecond)
	close(release)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&ran) == 6 }, 2*time.Second, 5*time.Millisecond)
}

func TestWorkerPool_SubmitHonoursContext(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 2)
	p.Start()

	release := make(chan struct{})
	block := Task{Name: "slow", Run: func(ctx context.Context) error { <-release; return nil }}
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(context.Background(), block))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, block)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.Stop()
}

func TestWorkerPool_StopDrainsQueuedTasks(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 8)
	p.Start()

	release := make(chan struct{})
	var ran int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(context.Background(), Task{Name: "queued", Run: func(ctx context.Context) error {
			<-release
			atomic.AddInt32(&ran, 1)
			return nil
		}}))
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	p.Stop()

	assert.Equal(t, int32(5), atomic.LoadInt32(&ran))
}

func TestWorkerPool_StopRunsPendingRetries(t *testing.T) {
	p := NewWorkerPool(zap.NewNop(), 1, 8)
	p.RetryDelay = time.Hour
	p.Start()

	var calls int32
	require.NoError(t, p.Submit(context.Background(), Task{Name: "flaky", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}}))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	p.Stop()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
