// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/pkg/util"
)

// NoteForm Note form buffer, tags typed as one comma-separated string
// 笔记表单，标签为逗号分隔的字符串
type NoteForm struct {
	Title   string `json:"title" binding:"required"`   // Title // 标题
	Content string `json:"content" binding:"required"` // Content // 内容
	Tags    string `json:"tags"`                       // Comma-separated tags // 逗号分隔的标签
	Date    string `json:"date" binding:"required"`    // YYYY-MM-DD // 日期
}

// NewNoteForm 空表单，日期默认为今天
func NewNoteForm() NoteForm {
	return NoteForm{Date: util.Today()}
}

// NoteFormFrom 由已有笔记预填表单
func NoteFormFrom(n domain.Note) NoteForm {
	return NoteForm{
		Title:   n.Title,
		Content: n.Content,
		Tags:    util.JoinTags(n.Tags),
		Date:    n.Date,
	}
}

// Payload 把表单转换为请求体，标签拆分并去除空白
func (f NoteForm) Payload() NotePayload {
	return NotePayload{
		Title:   f.Title,
		Content: f.Content,
		Tags:    util.SplitTags(f.Tags),
		Date:    f.Date,
	}
}

// NotePayload Note request body for create and update
// 创建和更新笔记的请求体
type NotePayload struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
}
