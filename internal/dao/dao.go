// Package dao 实现客户端本地持久化存储（会话、Cookie）
package dao

import (
	"fmt"
	"os"
	"time"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/pkg/fileurl"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"
	"github.com/haierkeys/fast-note-client/pkg/util"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// 存储驱动
const (
	DriverFile     = "file"
	DriverSqlite   = "sqlite"
	DriverMysql    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig 本地存储配置
type DatabaseConfig struct {
	// Driver 存储驱动：file / sqlite / mysql / postgres
	Driver string
	// Path file 驱动的目录，或 sqlite 数据库文件路径
	Path        string
	UserName    string
	Password    string
	Host        string
	Port        int
	Name        string
	TablePrefix string
	Charset     string
	ParseTime   bool
	SSLMode     string
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int
	// ConnMaxLifetime 连接最大生命周期，支持 30m、1h 等格式
	ConnMaxLifetime string
	// Debug 打印 SQL
	Debug bool
}

// New opens the durable key/value store selected by the driver
// New 按驱动打开本地键值存储
func New(c DatabaseConfig, lg *zap.Logger) (domain.KVRepository, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	lg = lg.With(zap.String(pkglogger.FieldDriver, c.Driver))

	switch c.Driver {
	case "", DriverFile:
		return NewFileKVRepository(c.Path, lg)
	case DriverSqlite, DriverMysql, DriverPostgres:
		db, err := NewDBEngineWithConfig(c, lg)
		if err != nil {
			return nil, err
		}
		return NewDBKVRepository(db, c.TablePrefix, lg)
	}
	return nil, fmt.Errorf("unsupported session driver: %s", c.Driver)
}

// NewDBEngineWithConfig 初始化 gorm 连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if c.Driver == DriverSqlite {
		// sqlite 单连接写，避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
	}
	if c.ConnMaxLifetime != "" {
		if d, err := util.ParseDuration(c.ConnMaxLifetime); err == nil {
			sqlDB.SetConnMaxLifetime(d)
		} else {
			lg.Warn("invalid conn-max-lifetime, using default", zap.String("value", c.ConnMaxLifetime), zap.Error(err))
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
	}

	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMysql:
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case DriverPostgres:
		port := c.Port
		if port == 0 {
			port = 5432
		}
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=Local",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
			port,
			sslMode,
		)), nil
	case DriverSqlite:
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", c.Driver)
}
