package middleware

import (
	"net/http"
	"time"

	"github.com/juju/ratelimit"
)

// NewBucket 创建令牌桶；rate <= 0 表示不限流，返回 nil
func NewBucket(rate float64, burst int64) *ratelimit.Bucket {
	if rate <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return ratelimit.NewBucketWithRate(rate, burst)
}

// RateLimiter waits for a token before each request; a cancelled context aborts the wait
// RateLimiter 每个请求先取令牌，等待期间 context 取消则直接返回
func RateLimiter(bucket *ratelimit.Bucket) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if bucket == nil {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if wait := bucket.Take(1); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-req.Context().Done():
					timer.Stop()
					return nil, req.Context().Err()
				case <-timer.C:
				}
			}
			return next.RoundTrip(req)
		})
	}
}
