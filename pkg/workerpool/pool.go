// Package workerpool 限制并发数的任务池
// 客户端用它并发执行批量操作（例如一次删除多条笔记），同时限制同时在途的请求数
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 当任务队列已满时返回
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 当 Worker Pool 已关闭时返回
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务开始执行前 context 已取消
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 最大并发 worker 数量，默认 4
	MaxWorkers int
	// QueueSize 任务队列大小，默认 64
	QueueSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxWorkers: 4,
		QueueSize:  64,
	}
}

type task struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool 固定数量 worker 的任务池
type Pool struct {
	config Config
	logger *zap.Logger

	taskCh   chan task
	workerWg sync.WaitGroup

	activeCount atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	// mu 保护 closed，发送任务时持读锁，保证不会向已关闭的通道发送
	mu     sync.RWMutex
	closed bool
}

// New 创建 Worker Pool，cfg 为 nil 或字段为零值时使用默认值
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		config: c,
		logger: logger,
		taskCh: make(chan task, c.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < c.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Debug("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.taskCh:
			if !ok {
				return
			}
			p.execute(t)
		}
	}
}

func (p *Pool) execute(t task) {
	p.activeCount.Add(1)
	defer p.activeCount.Add(-1)

	var err error
	if t.ctx.Err() != nil {
		err = ErrTaskCancelled
	} else {
		err = t.fn(t.ctx)
	}
	t.done <- err
}

// enqueue block 为 true 时队列满会等待，否则立即返回 ErrWorkerPoolFull
func (p *Pool) enqueue(ctx context.Context, fn func(context.Context) error, block bool) (chan error, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrWorkerPoolClosed
	}

	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}
	if !block {
		select {
		case p.taskCh <- t:
			return t.done, nil
		default:
			return nil, ErrWorkerPoolFull
		}
	}
	select {
	case p.taskCh <- t:
		return t.done, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, ErrWorkerPoolClosed
	}
}

func (p *Pool) wait(ctx context.Context, done chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrWorkerPoolClosed
	}
}

// Submit 提交任务并等待完成，队列已满时立即返回 ErrWorkerPoolFull
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done, err := p.enqueue(ctx, fn, false)
	if err != nil {
		return err
	}
	return p.wait(ctx, done)
}

// Batch runs fn for every index in [0, n) with at most MaxWorkers in flight
// and returns the per-index errors; a full queue makes Batch wait instead of failing.
// Batch 对 [0, n) 的每个下标执行 fn，最多 MaxWorkers 个并发；返回与下标对应的错误
func (p *Pool) Batch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	dones := make([]chan error, n)
	for i := 0; i < n; i++ {
		i := i
		done, err := p.enqueue(ctx, func(ctx context.Context) error { return fn(ctx, i) }, true)
		if err != nil {
			errs[i] = err
			continue
		}
		dones[i] = done
	}
	for i, done := range dones {
		if done != nil {
			errs[i] = p.wait(ctx, done)
		}
	}
	return errs
}

// ActiveCount 返回当前正在执行的任务数
func (p *Pool) ActiveCount() int64 {
	return p.activeCount.Load()
}

// QueuedCount 返回当前队列中等待的任务数
func (p *Pool) QueuedCount() int {
	return len(p.taskCh)
}

// IsClosed 返回 Worker Pool 是否已关闭
func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown 停止接收任务并等待已排队的任务完成；ctx 到期时取消剩余任务
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.taskCh)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Debug("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, forcing cancellation",
			zap.Int64("activeCount", p.activeCount.Load()),
			zap.Int("queuedCount", len(p.taskCh)))
		return ctx.Err()
	}
}
