// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-client/internal/api"
	"github.com/haierkeys/fast-note-client/internal/dao"
	"github.com/haierkeys/fast-note-client/pkg/fileurl"
	"github.com/haierkeys/fast-note-client/pkg/logger"
	"github.com/haierkeys/fast-note-client/pkg/util"
	"github.com/haierkeys/fast-note-client/pkg/workerpool"
	"github.com/haierkeys/fast-note-client/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File    string        `yaml:"-"` // 配置文件路径，不序列化
	Client  ClientConfig  `yaml:"client"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	App     AppSettings   `yaml:"app"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// ClientConfig 服务端连接配置
type ClientConfig struct {
	// BaseURL 服务端地址
	BaseURL string `yaml:"base-url" default:"http://localhost:5000"`
	// Timeout 单个请求超时，支持格式：30s、1m
	Timeout string `yaml:"timeout" default:"30s"`
	// RateLimit 每秒请求数，0 表示不限流
	RateLimit float64 `yaml:"rate-limit" default:"10"`
	// RateBurst 突发请求数
	RateBurst int64 `yaml:"rate-burst" default:"20"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时输出到 stderr
	File string `yaml:"file" default:"storage/logs/client.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// SessionConfig 本地会话存储配置
type SessionConfig struct {
	// Driver 存储驱动：file / sqlite / mysql / postgres
	Driver string `yaml:"driver" default:"file"`
	// Path file 驱动的目录，或 sqlite 数据库文件路径
	Path string `yaml:"path" default:"storage/session"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Port 端口，postgres 默认 5432
	Port int `yaml:"port"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix" default:"fnc_"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"2"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"4"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// Lang 提示语言：en / zh_cn
	Lang string `yaml:"lang" default:"en"`
	// DefaultContextTimeout 单条命令的总超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// Worker Pool 配置（批量操作的并发数）
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"4"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"64"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 先设置默认值再解析 YAML，文件中显式写出的 false / 空值会保留
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	return c, realpath, nil
}

// WriteDefaultConfig 把内置的默认配置写到 f；文件已存在且 force 为 false 时不覆盖
func WriteDefaultConfig(f string, content string, force bool) (string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return "", err
	}
	if fileurl.IsDir(realpath) {
		return realpath, errors.Errorf("config path is a directory: %s", realpath)
	}
	if fileurl.IsExist(realpath) && !force {
		return realpath, errors.Errorf("config file already exists: %s", realpath)
	}
	if err := fileurl.CreatePath(realpath, os.ModePerm); err != nil {
		return realpath, errors.Wrap(err, "create config dir failed")
	}
	if err := fileurl.WriteFileAtomic(realpath, []byte(content), 0644); err != nil {
		return realpath, errors.Wrap(err, "write config file failed")
	}
	return realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// ResolvePath 相对路径以配置文件所在目录为基准
func (c *AppConfig) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.File == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.File), p)
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.ResolvePath(c.Log.File),
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 获取本地会话存储配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	path := c.Session.Path
	if path != ":memory:" {
		path = c.ResolvePath(path)
	}
	return dao.DatabaseConfig{
		Driver:          c.Session.Driver,
		Path:            path,
		UserName:        c.Session.UserName,
		Password:        c.Session.Password,
		Host:            c.Session.Host,
		Port:            c.Session.Port,
		Name:            c.Session.Name,
		TablePrefix:     c.Session.TablePrefix,
		Charset:         c.Session.Charset,
		ParseTime:       c.Session.ParseTime,
		SSLMode:         c.Session.SSLMode,
		MaxIdleConns:    c.Session.MaxIdleConns,
		MaxOpenConns:    c.Session.MaxOpenConns,
		ConnMaxLifetime: c.Session.ConnMaxLifetime,
	}
}

// GetClientConfig 获取 API 客户端配置
func (c *AppConfig) GetClientConfig() api.Config {
	return api.Config{
		BaseURL:      c.Client.BaseURL,
		Timeout:      c.GetRequestTimeout(),
		RateLimit:    c.Client.RateLimit,
		RateBurst:    c.Client.RateBurst,
		AppName:      Name,
		AppVersion:   Version,
		Lang:         c.App.Lang,
		TraceEnabled: c.Tracer.Enabled,
		TraceHeader:  c.Tracer.Header,
	}
}

// GetRequestTimeout 获取单个请求超时
func (c *AppConfig) GetRequestTimeout() time.Duration {
	if d, err := util.ParseDuration(c.Client.Timeout); err == nil {
		return d
	}
	return 30 * time.Second
}

// GetContextTimeout 获取单条命令的总超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}
	if c.App.WriteQueueIdleTime != "" {
		if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil {
			cfg.IdleTimeout = idleTime
		}
	}

	return cfg
}
