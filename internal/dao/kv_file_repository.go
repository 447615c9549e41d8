package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/pkg/fileurl"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
)

const fileKVExt = ".json"

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// fileKVRepository 每个键一个文件：<dir>/<key>.json，权限 0600
type fileKVRepository struct {
	dir    string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewFileKVRepository 创建文件键值存储，目录不存在时自动创建
func NewFileKVRepository(dir string, lg *zap.Logger) (domain.KVRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("session path is required for the file driver")
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &fileKVRepository{dir: dir, logger: lg}, nil
}

func (r *fileKVRepository) path(key string) (string, error) {
	if !fileKeyPattern.MatchString(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+fileKVExt), nil
}

// Get 读取值
func (r *fileKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, domain.ErrKeyNotFound
	}
	return data, err
}

// Set 原子写入
func (r *fileKVRepository) Set(ctx context.Context, key string, value []byte) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fileurl.WriteFileAtomic(p, value, 0600); err != nil {
		r.logger.Error("kv set failed",
			zap.String(pkglogger.FieldKey, key),
			zap.String(pkglogger.FieldMethod, "fileKVRepository.Set"),
			zap.Error(err))
		return err
	}
	return nil
}

// Delete 删除键
func (r *fileKVRepository) Delete(ctx context.Context, key string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys 列出全部键
func (r *fileKVRepository) Keys(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileKVExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileKVExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *fileKVRepository) Close() error {
	return nil
}
