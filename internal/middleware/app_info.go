package middleware

import (
	"fmt"
	"net/http"
)

// AppInfo 设置 User-Agent 为 "<name>/<version>"
func AppInfo(name, version string) Middleware {
	ua := fmt.Sprintf("%s/%s", name, version)
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			r := req.Clone(req.Context())
			r.Header.Set("User-Agent", ua)
			return next.RoundTrip(r)
		})
	}
}
