package util

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail verifies if the email format is correct
// IsValidEmail 验证邮箱格式是否正确
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsBlank 判断字符串去除空白后是否为空
func IsBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return false
	}
	return true
}
