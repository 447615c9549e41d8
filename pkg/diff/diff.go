package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Stat 文本变更统计（按字符）
type Stat struct {
	Inserted int
	Deleted  int
}

// Changed 是否有变化
func (s Stat) Changed() bool {
	return s.Inserted > 0 || s.Deleted > 0
}

func compute(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	// 语义化清理，避免逐字符碎片
	return dmp.DiffCleanupSemantic(diffs)
}

// Summary 统计 before -> after 新增和删除的字符数
func Summary(before, after string) Stat {
	var st Stat
	for _, d := range compute(before, after) {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			st.Inserted += n
		case diffmatchpatch.DiffDelete:
			st.Deleted += n
		}
	}
	return st
}

// Inline renders the change as plain text, wrapping deletions in [-...-] and insertions in {+...+}
// Inline 以纯文本渲染变更，删除用 [-...-]，新增用 {+...+} 包裹
func Inline(before, after string) string {
	var b strings.Builder
	for _, d := range compute(before, after) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// Colored 终端彩色输出：删除红色，新增绿色
func Colored(before, after string) string {
	dmp := diffmatchpatch.New()
	return dmp.DiffPrettyText(compute(before, after))
}
