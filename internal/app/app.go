// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-client/internal/api"
	"github.com/haierkeys/fast-note-client/internal/dao"
	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/notify"
	"github.com/haierkeys/fast-note-client/internal/routers"
	"github.com/haierkeys/fast-note-client/internal/service"
	"github.com/haierkeys/fast-note-client/internal/session"
	"github.com/haierkeys/fast-note-client/internal/viewmodel"
	"github.com/haierkeys/fast-note-client/pkg/validator"
	"github.com/haierkeys/fast-note-client/pkg/workerpool"
	"github.com/haierkeys/fast-note-client/pkg/writequeue"

	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	Repo   domain.KVRepository

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 客户端层
	Client    *api.Client
	Session   *session.Store
	Notifier  *notify.Notifier
	Validator *validator.Validator
	Router    *routers.Router

	// Service 层
	UserService service.UserService
	Notes       *viewmodel.NotesViewModel

	unbind    func()
	closeOnce sync.Once
}

// Option 容器可选项
type Option func(*App)

// WithRepository 使用外部提供的本地存储，主要用于测试
func WithRepository(repo domain.KVRepository) Option {
	return func(a *App) {
		a.Repo = repo
	}
}

// WithNotifier 替换默认的 stderr 提示出口
func WithNotifier(n *notify.Notifier) Option {
	return func(a *App) {
		a.Notifier = n
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入，随后从本地存储恢复会话
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
func NewApp(ctx context.Context, cfg *AppConfig, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	// 初始化本地存储
	if a.Repo == nil {
		repo, err := dao.New(cfg.GetDatabaseConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("open session storage: %w", err)
		}
		a.Repo = repo
	}

	// 初始化 API 客户端并恢复 Cookie
	client, err := api.New(cfg.GetClientConfig(), a.Repo, logger)
	if err != nil {
		_ = a.Repo.Close()
		return nil, err
	}
	a.Client = client
	if err := client.Jar().Load(ctx); err != nil {
		logger.Warn("restore cookies failed", zap.Error(err))
	}

	a.Validator, err = validator.New()
	if err != nil {
		_ = a.Repo.Close()
		return nil, fmt.Errorf("init validator: %w", err)
	}

	if a.Notifier == nil {
		a.Notifier = notify.New(nil, logger)
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Session = session.New(a.Repo, logger)
	a.Router = routers.NewRouter()

	svcConfig := &service.ServiceConfig{
		Lang: cfg.App.Lang,
	}
	a.UserService = service.NewUserService(client, client.Jar(), a.Session, a.Validator, logger, svcConfig)

	a.Notes = viewmodel.NewNotesViewModel(client, a.writeQueueMgr, a.Notifier, a.Validator, logger, viewmodel.Config{
		Lang:         cfg.App.Lang,
		FetchTimeout: cfg.GetRequestTimeout(),
	})

	// 恢复会话后再绑定，视图模型只在会话确定后拉取一次
	if err := a.Session.Restore(ctx); err != nil {
		logger.Warn("restore session failed", zap.Error(err))
	}
	a.unbind = a.Notes.Bind(a.Session)

	logger.Info("App container initialized successfully",
		zap.String("baseUrl", client.BaseURL()),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Resolve 按当前会话解析页面路由
func (a *App) Resolve(path string) routers.Result {
	return a.Router.Resolve(a.Session.Snapshot(), path)
}

// Batch 在 Worker Pool 中并发执行 n 个任务，返回每个任务的错误
func (a *App) Batch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	return a.workerPool.Batch(ctx, n, fn)
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：会话订阅 -> Worker Pool -> Write Queue Manager -> Cookie -> 本地存储
// ctx 为 nil 时使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error
	a.closeOnce.Do(func() {
		a.logger.Info("App container shutting down...")

		if a.unbind != nil {
			a.unbind()
		}

		// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}

		// 2. 关闭 Write Queue Manager（排空所有队列）
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}

		// 3. 持久化服务端下发的 Cookie（已退出登录时不再写回）
		if a.Session.IsLoggedIn() {
			if err := a.Client.Jar().Save(ctx); err != nil {
				errs = append(errs, fmt.Errorf("save cookies: %w", err))
			}
		}

		// 4. 关闭本地存储
		if err := a.Repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session storage: %w", err))
		}
	})

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	return nil
}
