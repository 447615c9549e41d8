package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
)

// Recovery turns a panic in an inner transport into an error so one bad request cannot crash the client
// Recovery 把内层 transport 的 panic 转换为错误返回
func Recovery(lg *zap.Logger) Middleware {
	if lg == nil {
		lg = zap.NewNop()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (resp *http.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					lg.Error("Recovered from panic",
						zap.String(logger.FieldMethod, req.Method),
						zap.String(logger.FieldURL, req.URL.String()),
						zap.String("panic_value", fmt.Sprintf("%v", r)),
						zap.String("stack", string(debug.Stack())),
					)
					resp = nil
					err = fmt.Errorf("transport panic: %v", r)
				}
			}()
			return next.RoundTrip(req)
		})
	}
}
