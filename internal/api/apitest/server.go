// Package apitest 提供模拟笔记服务端的 httptest 服务器，供各层测试使用
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie 模拟服务端下发的会话 Cookie 名称
const SessionCookie = "session"

// Request 服务端收到的一次请求
type Request struct {
	Method    string
	Path      string
	Query     string
	HasCookie bool
	TraceID   string
	Lang      string
	UserAgent string
}

type account struct {
	id       int64
	email    string
	password string
}

type storedNote struct {
	owner int64
	note  domain.Note
}

type failure struct {
	status int
	body   gin.H
}

// Server emulates the notes API: signup, login with a session cookie, and per-user notes CRUD
// Server 模拟笔记服务端：注册、登录（下发会话 Cookie）以及按用户隔离的笔记增删改查
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	before     func(c *gin.Context)
	accounts   map[string]*account
	sessions   map[string]int64
	notes      map[int64]*storedNote
	nextUserID int64
	nextNoteID int64
	failures   map[string]failure
	requests   []Request
}

// NewServer 启动模拟服务端，调用方负责 Close
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		accounts: map[string]*account{},
		sessions: map[string]int64{},
		notes:    map[int64]*storedNote{},
		failures: map[string]failure{},
	}

	r := gin.New()
	r.Use(s.record, s.inject)

	api := r.Group("/api")
	api.POST("/signup", s.signup)
	api.POST("/login", s.login)

	notes := api.Group("/notes", s.auth)
	notes.GET("", s.listNotes)
	notes.POST("", s.createNote)
	notes.PATCH("/:id", s.updateNote)
	notes.DELETE("/:id", s.deleteNote)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser 直接创建账号，返回用户 ID
func (s *Server) AddUser(email, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password)
}

func (s *Server) addUserLocked(email, password string) int64 {
	s.nextUserID++
	s.accounts[email] = &account{id: s.nextUserID, email: email, password: password}
	return s.nextUserID
}

// SeedNotes 为用户写入笔记，ID 为 0 时自动分配
func (s *Server) SeedNotes(userID int64, notes ...domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		if n.ID == 0 {
			s.nextNoteID++
			n.ID = s.nextNoteID
		} else if n.ID > s.nextNoteID {
			s.nextNoteID = n.ID
		}
		s.notes[n.ID] = &storedNote{owner: userID, note: n.Clone()}
	}
}

// Notes 返回用户在服务端的笔记，按 ID 排序
func (s *Server) Notes(userID int64) domain.Notes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notesLocked(userID)
}

func (s *Server) notesLocked(userID int64) domain.Notes {
	out := domain.Notes{}
	for _, sn := range s.notes {
		if sn.owner == userID {
			out = append(out, sn.note.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Fail 让 method + route（gin 路由，如 /api/notes/:id）返回指定状态和错误体；status 为 0 时取消
func (s *Server) Fail(method, route string, status int, body gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method+" "+route)
		return
	}
	s.failures[method+" "+route] = failure{status: status, body: body}
}

// Requests 已收到的请求
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests 统计 method + path 的请求次数
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(c *gin.Context) {
	_, err := c.Cookie(SessionCookie)
	req := Request{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.RawQuery,
		HasCookie: err == nil,
		TraceID:   c.GetHeader("X-Trace-ID"),
		Lang:      c.GetHeader("Accept-Language"),
		UserAgent: c.GetHeader("User-Agent"),
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	c.Next()
}

// SetBefore 设置每个请求处理前的回调，可用于注入延迟
func (s *Server) SetBefore(fn func(c *gin.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = fn
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	before := s.before
	s.mu.Unlock()
	if before != nil {
		before(c)
	}
	s.mu.Lock()
	f, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if ok {
		if f.body == nil {
			c.AbortWithStatus(f.status)
			return
		}
		c.AbortWithStatusJSON(f.status, f.body)
		return
	}
	c.Next()
}

func (s *Server) signup(c *gin.Context) {
	var params dto.CredentialsRequest
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code.ErrorInvalidParams.Code()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[params.Email]; ok {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists", "code": code.ErrorUserAlreadyExists.Code()})
		return
	}
	id := s.addUserLocked(params.Email, params.Password)
	c.JSON(http.StatusCreated, gin.H{"id": id, "email": params.Email})
}

func (s *Server) login(c *gin.Context) {
	var params dto.CredentialsRequest
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[params.Email]
	if !ok || a.password != params.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	token := uuid.NewString()
	s.sessions[token] = a.id
	c.SetCookie(SessionCookie, token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"id": a.id, "email": a.email, "username": a.email, "token": token})
}

func (s *Server) auth(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	s.mu.Lock()
	uid, ok := s.sessions[token]
	s.mu.Unlock()
	if err != nil || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": code.ErrorUnauthorized.Code()})
		return
	}
	c.Set("uid", uid)
	c.Next()
}

func (s *Server) listNotes(c *gin.Context) {
	uid, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || uid != c.GetInt64("uid") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	c.JSON(http.StatusOK, s.Notes(uid))
}

func (s *Server) createNote(c *gin.Context) {
	var p dto.NotePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.nextNoteID++
	n := domain.Note{ID: s.nextNoteID, Title: p.Title, Content: p.Content, Tags: p.Tags, Date: p.Date}
	s.notes[n.ID] = &storedNote{owner: c.GetInt64("uid"), note: n}
	s.mu.Unlock()
	c.JSON(http.StatusCreated, n)
}

func (s *Server) lookup(c *gin.Context) (*storedNote, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note id"})
		return nil, false
	}
	sn, ok := s.notes[id]
	if !ok || sn.owner != c.GetInt64("uid") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found", "code": code.ErrorNoteNotFound.Code()})
		return nil, false
	}
	return sn, true
}

func (s *Server) updateNote(c *gin.Context) {
	var p dto.NotePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.lookup(c)
	if !ok {
		return
	}
	sn.note = domain.Note{ID: sn.note.ID, Title: p.Title, Content: p.Content, Tags: p.Tags, Date: p.Date}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteNote(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.lookup(c)
	if !ok {
		return
	}
	delete(s.notes, sn.note.ID)
	c.Status(http.StatusNoContent)
}
