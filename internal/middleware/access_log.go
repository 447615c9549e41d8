package middleware

import (
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
)

// AccessLog 记录每个请求的方法、地址、状态码和耗时
func AccessLog(lg *zap.Logger) Middleware {
	if lg == nil {
		lg = zap.NewNop()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			startTime := time.Now()
			resp, err := next.RoundTrip(req)
			timeCost := time.Since(startTime)

			fields := []zap.Field{
				zap.String(logger.FieldMethod, req.Method),
				zap.String(logger.FieldURL, req.URL.String()),
				zap.Duration(logger.FieldDuration, timeCost),
			}
			if traceID := GetTraceID(req.Context()); traceID != "" {
				fields = append(fields, zap.String(logger.FieldTraceID, traceID))
			}
			if err != nil {
				lg.Warn(req.URL.Path, append(fields, zap.Error(err))...)
				return resp, err
			}
			fields = append(fields, zap.Int(logger.FieldStatus, resp.StatusCode))
			if resp.StatusCode >= http.StatusBadRequest {
				lg.Warn(req.URL.Path, fields...)
			} else {
				lg.Info(req.URL.Path, fields...)
			}
			return resp, nil
		})
	}
}
