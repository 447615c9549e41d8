package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang 保存同一条消息的英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

var lng atomic.Value

func init() {
	lng.Store(FALLBACK_LNG)
}

// GetMessage returns the text for the current global language, falling back to English
// GetMessage 返回当前全局语言的文本，缺失时回退英文
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In 返回指定语言的文本
func (l lang) In(language string) string {
	var msg string
	switch NormalizeLang(language) {
	case "zh_cn":
		msg = l.zh_cn
	default:
		msg = l.en
	}
	if msg == "" {
		msg = l.en
	}
	return msg
}

// NormalizeLang maps inputs such as "zh-CN", "zh" or "EN" onto a supported language key
// NormalizeLang 将 "zh-CN"、"zh"、"EN" 等写法归一化为支持的语言键
func NormalizeLang(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	l = strings.ReplaceAll(l, "-", "_")
	switch {
	case l == "zh" || strings.HasPrefix(l, "zh_"):
		return "zh_cn"
	case l == "en" || strings.HasPrefix(l, "en_"):
		return "en"
	}
	return l
}

// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// SetGlobalDefaultLang sets the global language; unknown values reset it to English and return an error
// SetGlobalDefaultLang 设置全局语言，不支持的语言会回退为英文并返回错误
func SetGlobalDefaultLang(language string) error {
	l := NormalizeLang(language)
	for _, s := range supportedLanguages {
		if s == l {
			lng.Store(l)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	return lng.Load().(string)
}
