package domain

import (
	"context"
	"errors"
)

// 本地持久化存储中使用的键
const (
	// KeyUser 当前登录用户
	KeyUser = "user"
	// KeyCookies API 服务端的会话 Cookie
	KeyCookies = "cookies"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("key not found")

// KVRepository 客户端本地持久化键值存储
type KVRepository interface {
	// Get 读取值，不存在时返回 ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入值，覆盖旧值
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除键，不存在时不报错
	Delete(ctx context.Context, key string) error

	// Keys 列出全部键
	Keys(ctx context.Context) ([]string, error)

	// Close 释放底层资源
	Close() error
}
