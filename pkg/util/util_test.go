package util

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"mixed spacing", "a, b ,c", []string{"a", "b", "c"}},
		{"single", "work", []string{"work"}},
		{"empty", "", []string{}},
		{"blank segments", " ,a,, ", []string{"a"}},
		{"empty middle segment", "a,,b", []string{"a", "b"}},
		{"inner spaces kept", "to do, later", []string{"to do", "later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.input))
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "a, b", JoinTags([]string{"a", "b"}))
	assert.Equal(t, "", JoinTags(nil))
	assert.Equal(t, "x y", TagsSearchText([]string{"x", "y"}))
}

// 拆分后再拼接再拆分结果不变，且每个标签都没有首尾空白
func TestProperty_SplitTagsRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("split is stable across join", prop.ForAll(
		func(words []string) bool {
			input := strings.Join(words, " , ")
			first := SplitTags(input)
			second := SplitTags(JoinTags(first))
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] || first[i] != strings.TrimSpace(first[i]) || first[i] == "" {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("2d")
	assert.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = ParseDuration("30")
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = ParseDuration("1m30s")
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}

func TestTodayFormat(t *testing.T) {
	today := Today()
	_, err := time.Parse(DateLayout, today)
	assert.NoError(t, err)
	assert.Len(t, today, 10)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.io"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail(""))
	assert.True(t, IsBlank(" \t\n"))
	assert.False(t, IsBlank(" x "))
}
