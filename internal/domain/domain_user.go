package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v5"
)

// User 服务端登录接口返回的用户对象
// 只解析客户端关心的字段，其余字段原样保留，写回本地存储时不会丢失
type User struct {
	ID       int64
	Email    string
	Username string
	Token    string

	extra map[string]any
}

var userKnownFields = map[string]struct{}{
	"id": {}, "email": {}, "username": {}, "token": {},
}

// UnmarshalJSON 解析用户 JSON，id 兼容数字和数字字符串
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("user: expected a JSON object")
	}

	var out User
	if v, ok := raw["id"]; ok && v != nil {
		id, err := toInt64(v)
		if err != nil {
			return fmt.Errorf("user: invalid id: %w", err)
		}
		out.ID = id
	}
	out.Email, _ = raw["email"].(string)
	out.Username, _ = raw["username"].(string)
	out.Token, _ = raw["token"].(string)

	for k, v := range raw {
		if _, known := userKnownFields[k]; known {
			continue
		}
		if out.extra == nil {
			out.extra = make(map[string]any)
		}
		out.extra[k] = v
	}
	*u = out
	return nil
}

// MarshalJSON 写回已知字段和保留的未知字段
func (u User) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(u.extra)+4)
	for k, v := range u.extra {
		m[k] = v
	}
	m["id"] = u.ID
	m["email"] = u.Email
	if u.Username != "" {
		m["username"] = u.Username
	}
	if u.Token != "" {
		m["token"] = u.Token
	}
	return sonic.ConfigStd.Marshal(m)
}

// Extra 返回服务端返回的其余字段（副本）
func (u *User) Extra() map[string]any {
	out := make(map[string]any, len(u.extra))
	for k, v := range u.extra {
		out[k] = v
	}
	return out
}

// DisplayName 用于界面展示
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// TokenExpiry reads the exp claim of a JWT token without verifying it; display only
// TokenExpiry 不校验签名读取 JWT 的过期时间，仅用于展示，不影响会话有效性
func (u *User) TokenExpiry() (time.Time, bool) {
	if u.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(u.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ErrInvalidUserID 用户 ID 缺失、非正数或不是整数
var ErrInvalidUserID = errors.New("user: id must be a positive integer")

// Validate 会话只接受带正整数 ID 的用户，ID 为 0 在视图模型中表示未登录
func (u *User) Validate() error {
	if u == nil || u.ID <= 0 {
		return ErrInvalidUserID
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
			return 0, fmt.Errorf("non-integral number %v", n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
