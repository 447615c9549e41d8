package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-client/pkg/code"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Status HTTP 状态码，非 HTTP 错误为 0
	Status int `json:"status,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches both another AppError and a registered *code.Code by numeric code
// Is 支持与 AppError 或注册的 *code.Code 按错误码比较
func (e *AppError) Is(target error) bool {
	switch t := target.(type) {
	case *code.Code:
		return t.Code() == e.Code
	case *AppError:
		return t.Code == e.Code
	}
	return false
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewAppErrorWithMessage 创建带自定义消息的 AppError
func NewAppErrorWithMessage(errorCode int, message string, cause error) *AppError {
	return &AppError{
		Code:      errorCode,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// WithStatus 设置 HTTP 状态码
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// WithMessage replaces the message, keeping the code
// WithMessage 替换消息，保留错误码
func (e *AppError) WithMessage(msg string) *AppError {
	e.Message = msg
	return e
}

// String 带错误码和追踪 ID 的完整描述，用于日志
func (e *AppError) String() string {
	s := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if e.Status != 0 {
		s += fmt.Sprintf(" (http %d)", e.Status)
	}
	if e.TraceID != "" {
		s += " trace=" + e.TraceID
	}
	return s
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 从错误链中获取 AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is reports whether err carries the given code, either as AppError or *code.Code
// Is 判断错误链中是否含有指定错误码
func Is(err error, c *code.Code) bool {
	if err == nil || c == nil {
		return false
	}
	return errors.Is(err, c)
}

// Wrap converts any error into an AppError; existing AppErrors and codes keep their identity
// Wrap 将任意错误转换为 AppError，已有的 AppError 和 Code 保持原错误码
func Wrap(err error, fallback *code.Code) *AppError {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}
	var c *code.Code
	if errors.As(err, &c) {
		return NewAppError(c, err)
	}
	return NewAppError(fallback, err)
}
