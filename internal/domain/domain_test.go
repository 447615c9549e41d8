package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPreservesUnknownFields(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"email":"a@b.io","plan":"pro","settings":{"dark":true}}`), &u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "a@b.io", u.Email)
	assert.Equal(t, "pro", u.Extra()["plan"])

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, float64(7), back["id"])
	assert.Equal(t, "pro", back["plan"])
	assert.Equal(t, map[string]any{"dark": true}, back["settings"])
}

func TestUserStringID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"12","email":"x@y.io"}`), &u))
	assert.Equal(t, int64(12), u.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":"abc"}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &u))
	assert.Error(t, json.Unmarshal([]byte(`null`), &u))
}

func TestUserIDMustBeIntegral(t *testing.T) {
	var u User
	assert.Error(t, json.Unmarshal([]byte(`{"id":1.9}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1e300}`), &u))
	require.NoError(t, json.Unmarshal([]byte(`{"id":3.0}`), &u))
	assert.Equal(t, int64(3), u.ID)
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, (&User{ID: 1}).Validate())
	assert.ErrorIs(t, (&User{Email: "a@b.io"}).Validate(), ErrInvalidUserID)
	assert.ErrorIs(t, (&User{ID: -4}).Validate(), ErrInvalidUserID)

	var nilUser *User
	assert.ErrorIs(t, nilUser.Validate(), ErrInvalidUserID)
}

func TestUserTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)

	u := User{ID: 1, Token: token}
	got, ok := u.TokenExpiry()
	assert.True(t, ok)
	assert.True(t, got.Equal(exp))

	u.Token = "not-a-jwt"
	_, ok = u.TokenExpiry()
	assert.False(t, ok)
}

func TestNotesImmutableOps(t *testing.T) {
	base := Notes{
		{ID: 1, Title: "A", Tags: []string{"x"}},
		{ID: 2, Title: "B", Tags: []string{"y"}},
	}

	appended := base.Append(Note{ID: 3, Title: "C"})
	assert.Len(t, base, 2)
	assert.Len(t, appended, 3)

	replaced := base.Replace(Note{ID: 2, Title: "B2", Tags: []string{"z"}})
	assert.Len(t, replaced, 2)
	assert.Equal(t, "B2", replaced[1].Title)
	assert.Equal(t, "B", base[1].Title)

	removed := base.Remove(1)
	assert.Len(t, removed, 1)
	assert.Equal(t, int64(2), removed[0].ID)
	assert.Len(t, base, 2)

	// 克隆不共享标签切片
	clone := base.Clone()
	clone[0].Tags[0] = "changed"
	assert.Equal(t, "x", base[0].Tags[0])

	assert.Equal(t, base, base.Replace(Note{ID: 99}))
	assert.Equal(t, "No tags", Note{}.TagsText())
	assert.Equal(t, "x, y", Note{Tags: []string{"x", "y"}}.TagsText())
}
