package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/haierkeys/fast-note-client/internal/domain"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// storedCookie Cookie 在本地存储中的形式
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Jar is a cookie jar for the API host that can be saved to and loaded from the durable store
// Jar 服务端 Cookie 容器，可保存到本地存储并在下次启动时恢复
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	base   *url.URL
	repo   domain.KVRepository
	logger *zap.Logger
}

// NewJar 创建 Cookie 容器
func NewJar(base *url.URL, repo domain.KVRepository, lg *zap.Logger) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Jar{inner: inner, base: base, repo: repo, logger: lg}, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Load 从本地存储恢复 Cookie，数据不存在或损坏时忽略
func (j *Jar) Load(ctx context.Context) error {
	if j.repo == nil {
		return nil
	}
	data, err := j.repo.Get(ctx, domain.KeyCookies)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored []storedCookie
	if err := sonic.Unmarshal(data, &stored); err != nil {
		j.logger.Warn("discarding malformed cookie store",
			zap.String(pkglogger.FieldKey, domain.KeyCookies),
			zap.Error(err))
		return j.repo.Delete(ctx, domain.KeyCookies)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	j.SetCookies(j.base, cookies)
	return nil
}

// Save 把当前服务端的 Cookie 写入本地存储
func (j *Jar) Save(ctx context.Context) error {
	if j.repo == nil {
		return nil
	}
	cookies := j.Cookies(j.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := sonic.Marshal(stored)
	if err != nil {
		return err
	}
	return j.repo.Set(ctx, domain.KeyCookies, data)
}

// Clear 清空内存中的 Cookie 并删除本地存储
func (j *Jar) Clear(ctx context.Context) error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()

	if j.repo == nil {
		return nil
	}
	return j.repo.Delete(ctx, domain.KeyCookies)
}
