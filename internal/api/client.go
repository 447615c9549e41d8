// Package api 实现笔记服务端 REST 接口的客户端
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/internal/middleware"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config 客户端配置
type Config struct {
	// BaseURL 服务端地址，例如 http://localhost:5000
	BaseURL string
	// Timeout 单个请求超时，<= 0 不限制
	Timeout time.Duration
	// RateLimit 每秒请求数，<= 0 不限流
	RateLimit float64
	RateBurst int64
	// UserAgent 应用名称和版本
	AppName    string
	AppVersion string
	// Lang 发送给服务端的 Accept-Language
	Lang string
	// TraceEnabled 是否附加 Trace ID 请求头
	TraceEnabled bool
	TraceHeader  string
}

// ParseBaseURL 解析并校验服务端地址，只接受 http / https
func (cfg Config) ParseBaseURL() (*url.URL, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}
	return base, nil
}

// Client 笔记服务端客户端
// 所有请求（包括 DELETE）都携带 Cookie
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	jar          *Jar
	traceEnabled bool
	logger       *zap.Logger
}

// New 创建客户端；repo 用于持久化 Cookie，可以为 nil
func New(cfg Config, repo domain.KVRepository, lg *zap.Logger) (*Client, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	base, err := cfg.ParseBaseURL()
	if err != nil {
		return nil, err
	}

	jar, err := NewJar(base, repo, lg)
	if err != nil {
		return nil, err
	}

	transport := middleware.Chain(http.DefaultTransport,
		middleware.Recovery(lg),
		middleware.Trace(cfg.TraceEnabled, cfg.TraceHeader),
		middleware.AppInfo(cfg.AppName, cfg.AppVersion),
		middleware.Lang(cfg.Lang),
		middleware.RateLimiter(middleware.NewBucket(cfg.RateLimit, cfg.RateBurst)),
		middleware.ContextTimeout(cfg.Timeout),
		middleware.AccessLog(lg),
	)

	return &Client{
		baseURL:      base,
		http:         &http.Client{Transport: transport, Jar: jar},
		jar:          jar,
		traceEnabled: cfg.TraceEnabled,
		logger:       lg,
	}, nil
}

// Jar 返回客户端使用的 Cookie 容器
func (c *Client) Jar() *Jar {
	return c.jar
}

// BaseURL 服务端地址
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request; non-2xx responses become AppErrors with the server's
// error text (or the fallback message) and the HTTP status attached
// do 发送请求，非 2xx 响应转换为 AppError：优先使用服务端 error 文本，否则使用 fallback
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any, fallback *code.Code) error {
	traceID := middleware.GetTraceID(ctx)
	if traceID == "" && c.traceEnabled {
		traceID = uuid.NewString()
		ctx = middleware.WithTraceID(ctx, traceID)
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return apperrors.NewAppError(fallback, err).WithTraceID(traceID)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return apperrors.NewAppError(fallback, err).WithTraceID(traceID)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(err, fallback).WithTraceID(traceID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(err, fallback).WithTraceID(traceID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := responseError(resp.StatusCode, data, fallback).WithTraceID(traceID)
		c.logger.Debug("api request failed",
			zap.String(pkglogger.FieldMethod, method),
			zap.String(pkglogger.FieldPath, path),
			zap.Int(pkglogger.FieldStatus, resp.StatusCode),
			zap.Int(pkglogger.FieldCode, appErr.Code),
			zap.String(pkglogger.FieldTraceID, traceID))
		return appErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return apperrors.NewAppError(code.ErrorDecode, err).WithStatus(resp.StatusCode).WithTraceID(traceID)
	}
	return nil
}

func (c *Client) transportError(err error, fallback *code.Code) *apperrors.AppError {
	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return apperrors.NewAppError(code.ErrorTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.NewAppError(fallback, err)
	}
	return apperrors.NewAppError(code.ErrorNetwork, err)
}

// responseError 解析 {error, code} 错误体
// code 为已注册的错误码时使用该错误码，否则使用 fallback
func responseError(status int, data []byte, fallback *code.Code) *apperrors.AppError {
	var body dto.ErrorResponse
	_ = sonic.Unmarshal(data, &body)

	c := fallback
	if body.Code != 0 {
		if known, ok := code.Lookup(body.Code); ok {
			c = known
		}
	}
	appErr := apperrors.NewAppError(c, nil).WithStatus(status)
	if msg := strings.TrimSpace(body.Error); msg != "" {
		appErr = appErr.WithMessage(msg)
	}
	return appErr
}
