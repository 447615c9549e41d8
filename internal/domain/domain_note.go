// Package domain 定义领域模型和接口
package domain

import (
	"github.com/haierkeys/fast-note-client/pkg/util"
)

// Note 笔记，ID 由服务端分配
type Note struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
}

// Clone 深拷贝，避免快照之间共享标签切片
func (n Note) Clone() Note {
	if n.Tags != nil {
		tags := make([]string, len(n.Tags))
		copy(tags, n.Tags)
		n.Tags = tags
	}
	return n
}

// TagsText 列表中展示的标签文本，没有标签时返回 "No tags"
func (n Note) TagsText() string {
	if len(n.Tags) == 0 {
		return "No tags"
	}
	return util.JoinTags(n.Tags)
}

// Notes 有序笔记集合，每次变更都生成新切片
type Notes []Note

// Clone 深拷贝整个集合
func (ns Notes) Clone() Notes {
	if ns == nil {
		return Notes{}
	}
	out := make(Notes, len(ns))
	for i, n := range ns {
		out[i] = n.Clone()
	}
	return out
}

// Index 按 ID 查找位置，不存在返回 -1
func (ns Notes) Index(id int64) int {
	for i, n := range ns {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Find 按 ID 查找
func (ns Notes) Find(id int64) (Note, bool) {
	if i := ns.Index(id); i >= 0 {
		return ns[i].Clone(), true
	}
	return Note{}, false
}

// Append 返回追加后的新集合
func (ns Notes) Append(n Note) Notes {
	out := make(Notes, 0, len(ns)+1)
	out = append(out, ns.Clone()...)
	return append(out, n.Clone())
}

// Replace 返回把 ID 相同的条目替换为 n 后的新集合；ID 不存在时内容不变
func (ns Notes) Replace(n Note) Notes {
	out := ns.Clone()
	if i := out.Index(n.ID); i >= 0 {
		out[i] = n.Clone()
	}
	return out
}

// Remove 返回去掉指定 ID 后的新集合
func (ns Notes) Remove(id int64) Notes {
	out := make(Notes, 0, len(ns))
	for _, n := range ns {
		if n.ID == id {
			continue
		}
		out = append(out, n.Clone())
	}
	return out
}
