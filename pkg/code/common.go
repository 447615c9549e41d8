package code

import "net/http"

var (
	Success       = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessSignup = NewSuss(2, lang{en: "Signup successful! Please log in.", zh_cn: "注册成功！请登录。"})
	SuccessLogin  = NewSuss(3, lang{en: "Login successful", zh_cn: "登录成功"})
	SuccessLogout = NewSuss(4, lang{en: "Logged out", zh_cn: "已退出登录"})
	SuccessCreate = NewSuss(5, lang{en: "Note added", zh_cn: "笔记已添加"})
	SuccessUpdate = NewSuss(6, lang{en: "Note updated", zh_cn: "笔记已更新"})
	SuccessDelete = NewSuss(7, lang{en: "Note deleted", zh_cn: "笔记已删除"})
)

// 通用错误
var (
	ErrorServer          = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorInvalidParams   = NewError(400, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFound        = NewError(404, lang{en: "Not found", zh_cn: "资源不存在"}, http.StatusNotFound)
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorNetwork         = NewError(1001, lang{en: "Network error, the server could not be reached", zh_cn: "网络错误，无法连接服务器"})
	ErrorTimeout         = NewError(1002, lang{en: "Request timed out", zh_cn: "请求超时"}, http.StatusGatewayTimeout)
	ErrorDecode          = NewError(1003, lang{en: "Unexpected response from server", zh_cn: "服务器响应格式错误"})
	ErrorUnauthorized    = NewError(1004, lang{en: "Please log in to add or manage your notes.", zh_cn: "请登录后添加或管理笔记。"}, http.StatusUnauthorized)
)

// 认证
var (
	ErrorLoginFailed       = NewError(2001, lang{en: "Login failed", zh_cn: "登录失败"})
	ErrorSignupFailed      = NewError(2002, lang{en: "Signup failed", zh_cn: "注册失败"})
	ErrorUserAlreadyExists = NewError(2003, lang{en: "User already exists. Please log in.", zh_cn: "用户已存在，请直接登录。"}, http.StatusConflict)
	ErrorNotLoggedIn       = NewError(2004, lang{en: "You are not logged in", zh_cn: "尚未登录"})
)

// 笔记
var (
	ErrorNotesFetchFailed = NewError(3001, lang{en: "Failed to fetch notes", zh_cn: "获取笔记失败"})
	ErrorNoteCreateFailed = NewError(3002, lang{en: "Failed to add new note", zh_cn: "添加笔记失败"})
	ErrorNoteUpdateFailed = NewError(3003, lang{en: "Failed to update note", zh_cn: "更新笔记失败"})
	ErrorNoteDeleteFailed = NewError(3004, lang{en: "Failed to delete note", zh_cn: "删除笔记失败"})
	ErrorNoteNotFound     = NewError(3005, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteFormInvalid  = NewError(3006, lang{en: "Title, content and date are required", zh_cn: "标题、内容和日期为必填项"})
)

// 本地会话存储
var (
	ErrorSessionStore   = NewError(4001, lang{en: "Session storage error", zh_cn: "会话存储错误"})
	ErrorSessionCorrupt = NewError(4002, lang{en: "Stored session is malformed", zh_cn: "本地会话数据已损坏"})
	ErrorQueueBusy      = NewError(4003, lang{en: "Too many pending changes for this note", zh_cn: "该笔记待处理的修改过多"})
)
