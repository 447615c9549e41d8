package util

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout 笔记日期格式
const DateLayout = "2006-01-02"

// Today returns the local date as YYYY-MM-DD, used as the default note date
// Today 返回本地日期 YYYY-MM-DD，作为新笔记的默认日期
func Today() string {
	return FormatDate(time.Now())
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
