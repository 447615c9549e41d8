package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/model"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dbKVRepository 基于 gorm 的键值存储，支持 sqlite / mysql / postgres
type dbKVRepository struct {
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

// NewDBKVRepository 创建数据库键值存储并迁移表结构
func NewDBKVRepository(db *gorm.DB, tablePrefix string, lg *zap.Logger) (domain.KVRepository, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	r := &dbKVRepository{
		db:     db,
		table:  tablePrefix + model.TableNameKVEntry,
		logger: lg,
	}
	if err := model.AutoMigrate(db.Table(r.table), "KVEntry"); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", r.table, err)
	}
	return r, nil
}

func (r *dbKVRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// keyEq key 是 mysql 保留字，交给方言负责加引号
func keyEq(key string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

// Get 读取值
func (r *dbKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var m model.KVEntry
	err := r.query(ctx).Where(keyEq(key)).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(m.Value), nil
}

// Set 写入值，存在则覆盖
func (r *dbKVRepository) Set(ctx context.Context, key string, value []byte) error {
	m := model.KVEntry{Key: key, Value: string(value)}
	err := r.query(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		r.logger.Error("kv set failed",
			zap.String(pkglogger.FieldKey, key),
			zap.String(pkglogger.FieldMethod, "dbKVRepository.Set"),
			zap.Error(err))
	}
	return err
}

// Delete 删除键
func (r *dbKVRepository) Delete(ctx context.Context, key string) error {
	return r.query(ctx).Where(keyEq(key)).Delete(&model.KVEntry{}).Error
}

// Keys 列出全部键
func (r *dbKVRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.query(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Pluck("key", &keys).Error
	return keys, err
}

// Close 关闭数据库连接
func (r *dbKVRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
