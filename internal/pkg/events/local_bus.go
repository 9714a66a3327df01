package events

import (
	"context"
	"errors"
	"sync"

	"course_commerce/internal/pkg/worker"
	"course_commerce/pkg/metrics"

	"go.uber.org/zap"
)

type subscription struct {
	subscriber string
	handler    Handler
}

// LocalBus 进程内总线
// 配置了 worker 池时每个订阅者作为独立任务异步执行（失败按池策略重试），队列满时发布方阻塞等待；
// pool 为 nil 时同步执行，所有订阅者都会被调用，错误合并返回
type LocalBus struct {
	mu      sync.RWMutex
	subs    map[string][]subscription
	pool    *worker.WorkerPool
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewLocalBus(pool *worker.WorkerPool, logger *zap.Logger, m *metrics.MetricsCollector) *LocalBus {
	return &LocalBus{
		subs:    make(map[string][]subscription),
		pool:    pool,
		logger:  logger.With(zap.String("component", "event_bus")),
		metrics: m,
	}
}

func (b *LocalBus) Subscribe(eventName, subscriber string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], subscription{subscriber: subscriber, handler: h})
}

func (b *LocalBus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[evt.Name()]...)
	b.mu.RUnlock()

	b.metrics.RecordEvent(evt.Name())
	b.logger.Debug("publish event",
		zap.String("event", evt.Name()), zap.String("key", evt.Key()), zap.Int("subscribers", len(subs)))

	// 事件在业务提交后发布，请求取消不应丢弃已确认的事件
	submitCtx := context.WithoutCancel(ctx)

	var errs []error
	for _, s := range subs {
		s := s
		if b.pool == nil {
			if err := b.invoke(ctx, s, evt); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		task := worker.Task{
			Name: evt.Name() + "/" + s.subscriber,
			Run: func(taskCtx context.Context) error {
				return b.invoke(taskCtx, s, evt)
			},
		}
		if err := b.pool.Submit(submitCtx, task); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *LocalBus) invoke(ctx context.Context, s subscription, evt Event) error {
	if err := s.handler(ctx, evt); err != nil {
		b.logger.Warn("subscriber failed",
			zap.String("event", evt.Name()),
			zap.String("key", evt.Key()),
			zap.String("subscriber", s.subscriber),
			zap.Error(err))
		return err
	}
	return nil
}
