package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// HTTP 状态码，0 表示未指定
	httpStatus int
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]*Code{}

var sussCodes = map[int]*Code{}

// NewError registers a failure code
// NewError 注册一个错误码，重复注册直接 panic
func NewError(code int, l lang, httpStatus ...int) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	c := &Code{code: code, status: false, Lang: l}
	if len(httpStatus) > 0 {
		c.httpStatus = httpStatus[0]
	}
	codes[code] = c
	return c
}

// NewSuss registers a success code
// NewSuss 注册一个成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	c := &Code{code: code, status: true, Lang: l}
	sussCodes[code] = c
	return c
}

// Lookup returns the registered error code for a numeric value sent by the server
// Lookup 根据服务端返回的数字查找已注册的错误码
func Lookup(code int) (*Code, bool) {
	c, ok := codes[code]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// LookupStatus maps an HTTP status to a registered error code, if any
// LookupStatus 根据 HTTP 状态码查找已注册的错误码
func LookupStatus(status int) (*Code, bool) {
	if status == 0 {
		return nil, false
	}
	for _, c := range codes {
		if c.httpStatus == status {
			return c.Clone(), true
		}
	}
	return nil, false
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		Lang:       e.Lang,
		httpStatus: e.httpStatus,
		details:    []string{},
	}
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return e.Msg() + ": " + e.details[0]
	}
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// Is 判断两个 Code 是否同一个码
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code
}

// WithData returns a copy carrying data; registered codes stay untouched
// WithData 返回带数据的副本，不修改全局注册的码
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails 返回带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append(c.details, details...)
	return c
}

func (e *Code) StatusCode() int {
	if e.httpStatus != 0 {
		return e.httpStatus
	}
	if e.status {
		return http.StatusOK
	}
	return http.StatusBadRequest
}
