package routers

import (
	"testing"

	"github.com/haierkeys/fast-note-client/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestResolvePublic(t *testing.T) {
	r := NewRouter()
	anon := domain.Session{}

	for path, view := range map[string]View{
		"/home":     ViewHome,
		"/":         ViewHome,
		"/login":    ViewLogin,
		"/signup/":  ViewSignup,
		"/nowhere":  ViewHome,
		"":          ViewHome,
		"/login?x=": ViewLogin,
	} {
		res := r.Resolve(anon, path)
		assert.Equal(t, Render, res.Outcome, path)
		assert.Equal(t, view, res.View, path)
	}
}

func TestResolveGuard(t *testing.T) {
	r := NewRouter()
	user := &domain.User{ID: 1}

	res := r.Resolve(domain.Session{Loading: true}, RouteNotes)
	assert.Equal(t, Pending, res.Outcome)

	res = r.Resolve(domain.Session{}, RouteNotes)
	assert.Equal(t, Redirect, res.Outcome)
	assert.Equal(t, RouteLogin, res.RedirectTo)

	res = r.Resolve(domain.Session{User: user}, RouteNotes)
	assert.Equal(t, Render, res.Outcome)
	assert.Equal(t, ViewNotes, res.View)

	res = r.Resolve(domain.Session{User: user}, RouteBlog)
	assert.Equal(t, Render, res.Outcome)
	assert.Equal(t, RouteNotes, res.Path)
}

// 没有用户时笔记视图永远不会被渲染
func TestProperty_NotesNeverRenderWithoutUser(t *testing.T) {
	r := NewRouter()
	known := []string{"/notes", "/blog", "/NOTES/", "/notes?q=1", "/login", "/home"}
	properties := gopter.NewProperties(nil)

	properties.Property("anonymous sessions never render notes", prop.ForAll(
		func(idx int, random string, loading bool) bool {
			path := "/" + random
			if idx < len(known) {
				path = known[idx]
			}
			res := r.Resolve(domain.Session{Loading: loading}, path)
			if res.View != ViewNotes {
				return res.Outcome == Render
			}
			if loading {
				return res.Outcome == Pending
			}
			return res.Outcome == Redirect && res.RedirectTo == RouteLogin
		},
		gen.IntRange(0, 2*len(known)),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestAddOverrides(t *testing.T) {
	r := NewRouter()
	r.Add(Route{Path: RouteHome, View: ViewNotes, Private: true})
	assert.Len(t, r.Routes(), 4)
	assert.Equal(t, Redirect, r.Resolve(domain.Session{}, "/nowhere").Outcome)
	assert.Equal(t, "render", Render.String())
}
