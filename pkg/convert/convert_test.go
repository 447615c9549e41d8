package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    int64
	Title string
	Tags  []string
}

type recordPatch struct {
	Title string
	Tags  []string
}

func TestOverlay(t *testing.T) {
	base := record{ID: 2, Title: "old", Tags: []string{"a"}}
	patch := recordPatch{Title: "new", Tags: []string{"b", "c"}}

	merged, err := Overlay(base, &patch)
	require.NoError(t, err)

	assert.Equal(t, int64(2), merged.ID)
	assert.Equal(t, "new", merged.Title)
	assert.Equal(t, []string{"b", "c"}, merged.Tags)

	// base 不受影响，且结果不与 patch 共享底层数组
	assert.Equal(t, "old", base.Title)
	assert.Equal(t, []string{"a"}, base.Tags)
	patch.Tags[0] = "z"
	assert.Equal(t, "b", merged.Tags[0])
}

func TestOverlayEmptyValuesReplace(t *testing.T) {
	base := record{ID: 2, Title: "old", Tags: []string{"a", "b"}}

	merged, err := Overlay(base, recordPatch{Title: "", Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), merged.ID)
	assert.Equal(t, "", merged.Title)
	assert.Empty(t, merged.Tags)
	assert.Equal(t, []string{"a", "b"}, base.Tags)
}

func TestStrTo(t *testing.T) {
	id, err := StrTo(" 42 ").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = StrTo("x").Int64()
	assert.Error(t, err)
	assert.Equal(t, 0, StrTo("bad").MustInt())
}
