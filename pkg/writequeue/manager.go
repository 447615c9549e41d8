// Package writequeue serializes operations that share a key.
// Package writequeue 按 key 串行执行操作：同一 key 的操作严格按提交顺序 (FIFO) 执行，不同 key 之间互不阻塞。
// 客户端用它保证同一条笔记的编辑和删除按用户提交的先后落地，而不是按响应到达的先后。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 当某个 key 的队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 当管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 等待执行结果超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每个 key 的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout 单个操作从提交到完成的最长等待时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout 队列空闲多久后回收 worker，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type op struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// keyQueue 单个 key 的队列和它的 worker
type keyQueue struct {
	key      int64
	ch       chan op
	stop     chan struct{}
	done     chan struct{}
	lastUsed time.Time
	// pending 已入队但尚未执行完的操作数，受 Manager.mu 保护
	pending int
}

// Manager 管理所有 key 的队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[int64]*keyQueue
	closed bool

	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
	cleanupWg   sync.WaitGroup
}

// New creates a manager; nil cfg or zero fields fall back to defaults, nil logger to a nop logger
// New 创建管理器，cfg 为 nil 或字段为零值时使用默认值，logger 为 nil 时使用 nop logger
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[int64]*keyQueue),
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	m.logger.Debug("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))

	return m
}

// Execute runs fn after every earlier operation submitted under the same key has finished
// Execute 在同一 key 之前提交的操作全部完成后执行 fn，并等待其结果
func (m *Manager) Execute(ctx context.Context, key int64, fn func() error) error {
	result := make(chan error, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	q := m.queues[key]
	if q == nil {
		q = &keyQueue{
			key:  key,
			ch:   make(chan op, m.config.QueueCapacity),
			stop: make(chan struct{}),
			done: make(chan struct{}),
		}
		m.queues[key] = q
		go m.worker(q)
	}
	q.lastUsed = time.Now()
	// 入队放在锁内，保证同一 key 的提交顺序就是执行顺序
	select {
	case q.ch <- op{ctx: ctx, fn: fn, result: result}:
		q.pending++
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

func (m *Manager) worker(q *keyQueue) {
	defer close(q.done)
	for {
		select {
		case o := <-q.ch:
			m.run(q, o)
		case <-q.stop:
			m.drain(q)
			return
		}
	}
}

func (m *Manager) run(q *keyQueue, o op) {
	defer func() {
		m.mu.Lock()
		q.pending--
		q.lastUsed = time.Now()
		m.mu.Unlock()
	}()
	// 调用方已放弃等待的操作不再执行
	if err := o.ctx.Err(); err != nil {
		o.result <- err
		return
	}
	o.result <- o.fn()
}

func (m *Manager) drain(q *keyQueue) {
	for {
		select {
		case o := <-q.ch:
			m.run(q, o)
		default:
			return
		}
	}
}

func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup(time.Now())
		}
	}
}

// doCleanup 回收空闲且为空的队列
func (m *Manager) doCleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, q := range m.queues {
		if now.Sub(q.lastUsed) < m.config.IdleTimeout || q.pending > 0 {
			continue
		}
		m.logger.Debug("cleaning up idle write queue", zap.Int64("key", key))
		close(q.stop)
		delete(m.queues, key)
	}
}

// Shutdown stops accepting work, lets queued operations finish, and waits until ctx expires
// Shutdown 停止接收新操作，执行完已排队的操作；ctx 控制最长等待时间
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	queues := make([]*keyQueue, 0, len(m.queues))
	for key, q := range m.queues {
		queues = append(queues, q)
		close(q.stop)
		delete(m.queues, key)
	}
	m.mu.Unlock()

	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		for _, q := range queues {
			<-q.done
		}
		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		m.logger.Debug("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.cancel()
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// QueueCount 当前活跃队列数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// QueuedCount 指定 key 队列中尚未完成的操作数（含正在执行的）
func (m *Manager) QueuedCount(key int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queues[key]; ok {
		return q.pending
	}
	return 0
}

// IsClosed 是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Metrics 写队列指标
type Metrics struct {
	QueueCapacity int
	ActiveQueues  int
	IsClosed      bool
}

// GetMetrics 获取当前指标
func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  len(m.queues),
		IsClosed:      m.closed,
	}
}
