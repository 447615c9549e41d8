package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
)

type traceIDKey struct{}

// Trace 为每个请求附加 Trace ID
// 1. context 中已有 Trace ID 时沿用（同一次用户操作内的多次请求共享）
// 2. 否则生成新的 UUID
// 3. 写入请求头，并放入 request.Context 供后续中间件记录日志
func Trace(enabled bool, header string) Middleware {
	if header == "" {
		header = DefaultTraceIDHeader
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !enabled {
				return next.RoundTrip(req)
			}
			traceID := GetTraceID(req.Context())
			if traceID == "" {
				traceID = uuid.NewString()
			}
			r := req.Clone(WithTraceID(req.Context(), traceID))
			r.Header.Set(header, traceID)
			return next.RoundTrip(r)
		})
	}
}

// WithTraceID 把 Trace ID 放入 context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
