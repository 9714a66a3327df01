package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrStopped 池已关闭
var ErrStopped = errors.New("worker pool stopped")

// Task 异步任务
type Task struct {
	Name  string
	Run   func(ctx context.Context) error
	Retry int // 已重试次数
}

type WorkerPool struct {
	TaskQueue   chan Task
	RetryQueue  chan Task // 重试队列
	WorkerNum   int
	MaxRetry    int           // 最大重试次数
	RetryDelay  time.Duration // 第 n 次重试延迟 n*RetryDelay
	TaskTimeout time.Duration

	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	draining   chan struct{} // Stop 时关闭：worker 清空主队列后退出
	retryDrain chan struct{} // worker 全部退出后关闭：重试协程清空重试队列后退出

	workers    sync.WaitGroup
	retrier    sync.WaitGroup
	submitting sync.WaitGroup
	mu         sync.Mutex
	stopped    bool
}

func NewWorkerPool(logger *zap.Logger, workerNum int, bufferSize int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 2 {
		bufferSize = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		TaskQueue:   make(chan Task, bufferSize),
		RetryQueue:  make(chan Task, bufferSize/2),
		WorkerNum:   workerNum,
		MaxRetry:    3, // 最多重试3次
		RetryDelay:  time.Second,
		TaskTimeout: 30 * time.Second,
		logger:      logger.With(zap.String("component", "worker_pool")),
		ctx:         ctx,
		cancel:      cancel,
		draining:    make(chan struct{}),
		retryDrain:  make(chan struct{}),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.workers.Add(1)
		go p.worker(i)
	}

	// 启动重试处理协程
	p.retrier.Add(1)
	go p.retryWorker()

	p.logger.Info("worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止接收新任务，已入队和待重试的任务全部执行完才返回
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	// 已通过 stopped 检查的提交方仍可能阻塞在满队列上，等它们入队
	p.submitting.Wait()
	close(p.draining)
	p.workers.Wait()
	close(p.retryDrain)
	p.retrier.Wait()

	p.cancel()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.workers.Done()

	for {
		select {
		case task := <-p.TaskQueue:
			p.execute(id, task)
		case <-p.draining:
			for {
				select {
				case task := <-p.TaskQueue:
					p.executeInline(task)
				default:
					return
				}
			}
		}
	}
}

func (p *WorkerPool) execute(id int, task Task) {
	err := p.processTask(task)
	if err == nil {
		return
	}

	log := p.logger.With(zap.Int("worker", id), zap.String("task", task.Name), zap.Int("attempt", task.Retry+1))
	log.Warn("task failed", zap.Error(err))

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry >= p.MaxRetry {
		p.logFailedTask(task, err)
		return
	}

	task.Retry++
	select {
	case p.RetryQueue <- task:
	default:
		// 重试队列满时就地重试，不丢任务
		p.retryInline(task)
	}
}

// executeInline 关闭阶段在当前协程内执行并重试
func (p *WorkerPool) executeInline(task Task) {
	err := p.processTask(task)
	if err == nil {
		return
	}
	if task.Retry >= p.MaxRetry {
		p.logFailedTask(task, err)
		return
	}
	task.Retry++
	p.retryInline(task)
}

func (p *WorkerPool) retryInline(task Task) {
	for {
		time.Sleep(time.Duration(task.Retry) * p.RetryDelay)
		err := p.processTask(task)
		if err == nil {
			return
		}
		if task.Retry >= p.MaxRetry {
			p.logFailedTask(task, err)
			return
		}
		task.Retry++
	}
}

func (p *WorkerPool) retryWorker() {
	defer p.retrier.Done()

	for {
		select {
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			case <-p.draining:
				p.executeInline(task)
				continue
			}
			select {
			case p.TaskQueue <- task:
			case <-p.draining:
				p.executeInline(task)
			}
		case <-p.retryDrain:
			// 关闭阶段本协程可能把重试任务送回主队列，worker 已退出，一并清空
			for {
				select {
				case task := <-p.RetryQueue:
					p.executeInline(task)
				case task := <-p.TaskQueue:
					p.executeInline(task)
				default:
					return
				}
			}
		}
	}
}

func (p *WorkerPool) processTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", zap.String("task", task.Name), zap.Any("panic", r))
			err = errors.New("task panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(p.ctx, p.TaskTimeout)
	defer cancel()
	return task.Run(ctx)
}

func (p *WorkerPool) logFailedTask(task Task, err error) {
	p.logger.Error("task failed permanently",
		zap.String("task", task.Name), zap.Int("retries", task.Retry), zap.Error(err))
}

// Submit 提交任务；队列满时阻塞等待（背压），直到入队、ctx 结束或池已停止
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	p.submitting.Add(1)
	p.mu.Unlock()
	defer p.submitting.Done()

	select {
	case p.TaskQueue <- task:
		return nil
	case <-ctx.Done():
		p.logFailedTask(task, ctx.Err())
		return ctx.Err()
	}
}
