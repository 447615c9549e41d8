// Package viewmodel 笔记页的视图模型：持有笔记集合、表单、搜索和面板状态
package viewmodel

import (
	"strings"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/pkg/util"

	"golang.org/x/text/cases"
)

// Panels 四个互相独立的显示开关
type Panels struct {
	Search bool
	Form   bool
	List   bool
	Editor bool
}

// Mode 表单模式
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// State is an immutable snapshot of the notes page.
// Every transition builds a new State; published values are never mutated.
// State 笔记页的不可变快照，每次变更都生成新的 State
type State struct {
	UserID int64
	Notes  domain.Notes
	Search string
	Form   dto.NoteForm
	// EditID 正在编辑的笔记，0 表示创建模式
	EditID int64
	Panels Panels
}

// Mode 当前表单模式
func (s State) Mode() Mode {
	if s.EditID != 0 {
		return ModeEdit
	}
	return ModeCreate
}

// Filtered returns the notes whose title, content or space-joined tags contain
// the search text, compared case-insensitively
// Filtered 返回标题、内容或空格拼接的标签中包含搜索词（忽略大小写）的笔记
func (s State) Filtered() domain.Notes {
	return Filter(s.Notes, s.Search)
}

// Filter 每次都从完整集合重新计算，空搜索词返回全部
func Filter(notes domain.Notes, search string) domain.Notes {
	if search == "" {
		return notes.Clone()
	}
	// Caser 有状态，不能跨 goroutine 共享
	fold := cases.Fold()
	q := fold.String(search)

	out := domain.Notes{}
	for _, n := range notes {
		if strings.Contains(fold.String(n.Title), q) ||
			strings.Contains(fold.String(n.Content), q) ||
			strings.Contains(fold.String(util.TagsSearchText(n.Tags)), q) {
			out = append(out, n.Clone())
		}
	}
	return out
}

func (s State) clone() State {
	s.Notes = s.Notes.Clone()
	return s
}
