package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-client/global"
	internalApp "github.com/haierkeys/fast-note-client/internal/app"
	"github.com/haierkeys/fast-note-client/internal/notify"
	"github.com/haierkeys/fast-note-client/internal/routers"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	"github.com/haierkeys/fast-note-client/pkg/fileurl"
	"github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
)

// Client 单次命令执行期间的运行环境
type Client struct {
	logger *zap.Logger            // Logger // 日志对象
	config *internalApp.AppConfig // App configuration // 应用配置
	app    *internalApp.App       // App Container
}

// findConfig 按顺序查找配置文件，都不存在时写出默认配置
func findConfig(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	realpath, err := internalApp.WriteDefaultConfig("config/config.yaml", configDefault, false)
	if err != nil {
		return "", fmt.Errorf("config file auto create error: %w", err)
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", realpath))
	return realpath, nil
}

// NewClient 加载配置、初始化日志器和应用容器
func NewClient(ctx context.Context) (*Client, error) {
	path, err := findConfig(flags.config)
	if err != nil {
		return nil, err
	}

	appConfig, _, err := internalApp.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.server != "" {
		appConfig.Client.BaseURL = flags.server
	}
	if flags.lang != "" {
		appConfig.App.Lang = flags.lang
	}

	if err := code.SetGlobalDefaultLang(appConfig.App.Lang); err != nil {
		bootstrapLogger.Warn("set language failed", zap.String("lang", appConfig.App.Lang), zap.Error(err))
	}

	lg, err := logger.NewLogger(appConfig.GetLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}
	global.Logger = lg

	if flags.debug {
		global.Dump(appConfig)
	}

	a, err := internalApp.NewApp(ctx, appConfig, lg)
	if err != nil {
		_ = lg.Sync()
		return nil, fmt.Errorf("init app: %w", err)
	}

	return &Client{logger: lg, config: appConfig, app: a}, nil
}

// Close 关闭应用容器并刷新日志
func (c *Client) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
	defer cancel()
	if err := c.app.Shutdown(ctx); err != nil {
		c.logger.Warn("shutdown error", zap.Error(err))
	}
	_ = c.logger.Sync()
}

// guard 按路由守卫检查页面是否可访问；需要登录时打印提示
func (c *Client) guard(path string) error {
	res := c.app.Resolve(path)
	if flags.debug {
		global.Dump(res)
	}
	return checkRoute(c.app.Notifier, res)
}

// checkRoute 把路由结果转换为命令结果，不可渲染时经提示出口提示一次
func checkRoute(n *notify.Notifier, res routers.Result) error {
	switch res.Outcome {
	case routers.Render:
		return nil
	case routers.Redirect:
		err := code.ErrorUnauthorized.Clone()
		n.Error(err)
		n.Info("Run: fast-note-client login --email <email>  (" + res.RedirectTo + ")")
		return err
	}
	// 会话仍在恢复（Pending），不渲染页面
	err := apperrors.NewAppError(code.ErrorNotLoggedIn, nil).WithDetails("route " + res.Path + " is " + res.Outcome.String())
	n.Error(err)
	return err
}

// run 创建运行环境并执行 fn，命令总超时来自 app.default-context-timeout
func run(fn func(ctx context.Context, c *Client) error) error {
	base, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := NewClient(base)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancelTimeout := context.WithTimeout(base, c.config.GetContextTimeout())
	defer cancelTimeout()

	if err := fn(ctx, c); err != nil {
		return errShown{err}
	}
	return nil
}

// errShown 已经通过提示出口展示过的错误，只需设置退出码
type errShown struct{ error }

func (e errShown) Unwrap() error { return e.error }
