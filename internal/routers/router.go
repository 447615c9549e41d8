// Package routers 把路径解析为视图，并对私有视图做登录守卫
package routers

import (
	"strings"

	"github.com/haierkeys/fast-note-client/internal/domain"
)

// 路由路径
const (
	RouteHome   = "/home"
	RouteLogin  = "/login"
	RouteSignup = "/signup"
	RouteNotes  = "/notes"
	// RouteBlog 早期版本的笔记路径，保留为别名
	RouteBlog = "/blog"
)

// View 视图
type View string

const (
	ViewHome   View = "home"
	ViewLogin  View = "login"
	ViewSignup View = "signup"
	ViewNotes  View = "notes"
)

// Outcome 解析结果类型
type Outcome int

const (
	// Render 渲染视图
	Render Outcome = iota
	// Redirect 跳转到 Result.RedirectTo
	Redirect
	// Pending 会话仍在恢复，什么都不渲染
	Pending
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Result 路径解析结果
type Result struct {
	Outcome    Outcome
	View       View
	Path       string
	RedirectTo string
}

// Route 路由定义
type Route struct {
	Path    string
	View    View
	Private bool
	Aliases []string
}

// Router 路由表
type Router struct {
	routes   []Route
	index    map[string]int
	fallback string
}

// NewRouter 创建默认路由表，未知路径回落到 /home
func NewRouter() *Router {
	r := &Router{index: map[string]int{}, fallback: RouteHome}

	// 公开路由
	r.Add(Route{Path: RouteHome, View: ViewHome, Aliases: []string{"/"}})
	r.Add(Route{Path: RouteLogin, View: ViewLogin})
	r.Add(Route{Path: RouteSignup, View: ViewSignup})

	// 需要登录
	r.Add(Route{Path: RouteNotes, View: ViewNotes, Private: true, Aliases: []string{RouteBlog}})

	return r
}

// Add 注册路由，重复路径覆盖旧定义
func (r *Router) Add(route Route) {
	pos, ok := r.index[route.Path]
	if ok {
		r.routes[pos] = route
	} else {
		pos = len(r.routes)
		r.routes = append(r.routes, route)
	}
	r.index[route.Path] = pos
	for _, alias := range route.Aliases {
		r.index[alias] = pos
	}
}

// Routes 已注册的路由
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Match 查找路由，未知路径返回回落路由
func (r *Router) Match(path string) Route {
	path = normalize(path)
	if pos, ok := r.index[path]; ok {
		return r.routes[pos]
	}
	return r.routes[r.index[r.fallback]]
}

// Resolve applies the auth guard: a private view renders only for a logged-in
// user, redirects to /login without one, and renders nothing while loading
// Resolve 应用登录守卫：会话恢复中返回 Pending，未登录跳转 /login，否则渲染
func (r *Router) Resolve(sess domain.Session, path string) Result {
	route := r.Match(path)
	if !route.Private {
		return Result{Outcome: Render, View: route.View, Path: route.Path}
	}
	if sess.Loading {
		return Result{Outcome: Pending, View: route.View, Path: route.Path}
	}
	if !sess.LoggedIn() {
		return Result{Outcome: Redirect, View: route.View, Path: route.Path, RedirectTo: RouteLogin}
	}
	return Result{Outcome: Render, View: route.View, Path: route.Path}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return strings.ToLower(path)
}
