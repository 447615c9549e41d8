package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldPath 请求路径或路由路径
	FieldPath = "path"

	// FieldURL 完整请求地址
	FieldURL = "url"

	// FieldStatus HTTP 状态码
	FieldStatus = "status"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldKey 本地存储键
	FieldKey = "key"

	// FieldDriver 本地存储驱动
	FieldDriver = "driver"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldCode 错误码字段
	FieldCode = "code"
)
