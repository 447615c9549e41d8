// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// CredentialsRequest Signup and login request parameters
// 注册和登录请求参数
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"` // User email // 用户邮件
	Password string `json:"password" binding:"required"`    // User password // 用户密码
}

// ErrorResponse Error body returned by the API on a non-2xx status
// 非 2xx 响应的错误体
type ErrorResponse struct {
	Error string `json:"error"` // Human readable message // 错误文本
	Code  int    `json:"code"`  // Structured error code, 0 when absent // 结构化错误码，缺省为 0
}
