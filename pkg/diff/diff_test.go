package diff

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestInline(t *testing.T) {
	assert.Equal(t, "buy {+oat +}milk", Inline("buy milk", "buy oat milk"))
	assert.Equal(t, "same", Inline("same", "same"))
	assert.Equal(t, "[-gone-]", Inline("gone", ""))
}

func TestSummary(t *testing.T) {
	st := Summary("hello", "hello world")
	assert.Equal(t, 6, st.Inserted)
	assert.Equal(t, 0, st.Deleted)
	assert.True(t, st.Changed())

	assert.False(t, Summary("x", "x").Changed())
}

// 去掉标记后，保留删除部分得到 before，保留新增部分得到 after
func TestProperty_InlineReconstructs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("inline output reconstructs both sides", prop.ForAll(
		func(before, after string) bool {
			out := Inline(before, after)
			return strip(out, true) == before && strip(out, false) == after
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// strip 还原文本：keepDeleted 为 true 时还原 before，否则还原 after
func strip(s string, keepDeleted bool) string {
	var b strings.Builder
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, "[-"):
			end := strings.Index(s, "-]")
			if keepDeleted {
				b.WriteString(s[2:end])
			}
			s = s[end+2:]
		case strings.HasPrefix(s, "{+"):
			end := strings.Index(s, "+}")
			if !keepDeleted {
				b.WriteString(s[2:end])
			}
			s = s[end+2:]
		default:
			b.WriteByte(s[0])
			s = s[1:]
		}
	}
	return b.String()
}
