package middleware

import (
	"net/http"
	"strings"

	"github.com/haierkeys/fast-note-client/pkg/code"
)

// Lang 设置 Accept-Language；lang 为空时使用 code 包的全局语言
func Lang(lang string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			l := lang
			if l == "" {
				l = code.GetGlobalDefaultLang()
			}
			if req.Header.Get("Accept-Language") != "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			// zh_cn -> zh-CN
			r.Header.Set("Accept-Language", acceptLanguage(l))
			return next.RoundTrip(r)
		})
	}
}

func acceptLanguage(l string) string {
	l = code.NormalizeLang(l)
	parts := strings.SplitN(l, "_", 2)
	if len(parts) == 2 {
		return parts[0] + "-" + strings.ToUpper(parts[1])
	}
	return l
}
