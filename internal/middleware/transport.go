// Package middleware 为 API 客户端提供 http.RoundTripper 中间件
package middleware

import "net/http"

// RoundTripperFunc 函数适配为 http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware 包装一个 RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base so that the first middleware is the outermost
// Chain 组装中间件，第一个中间件在最外层，最先处理请求
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}
