package viewmodel

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/pkg/broadcast"
	"github.com/haierkeys/fast-note-client/pkg/code"
	"github.com/haierkeys/fast-note-client/pkg/convert"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"
	"github.com/haierkeys/fast-note-client/pkg/validator"
	"github.com/haierkeys/fast-note-client/pkg/writequeue"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NotesClient 笔记接口
type NotesClient interface {
	ListNotes(ctx context.Context, userID int64) (domain.Notes, error)
	CreateNote(ctx context.Context, payload *dto.NotePayload) (domain.Note, error)
	UpdateNote(ctx context.Context, id int64, payload *dto.NotePayload) error
	DeleteNote(ctx context.Context, id int64) error
}

// Notifier 用户可见的提示出口
type Notifier interface {
	Error(err error)
}

// SessionSource 会话来源
type SessionSource interface {
	Snapshot() domain.Session
	Subscribe(fn func(domain.Session)) (cancel func())
}

// Config 视图模型配置
type Config struct {
	// Lang 表单校验提示语言
	Lang string
	// FetchTimeout 会话变更触发的自动拉取超时
	FetchTimeout time.Duration
}

// 表单字段名
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTags    = "tags"
	FieldDate    = "date"
)

// NotesViewModel owns the notes collection and the form/search/panel state.
// Mutations of the same note run in submission order through the write queue.
// NotesViewModel 持有笔记集合和页面状态；同一笔记的修改经写队列按提交顺序执行
type NotesViewModel struct {
	client    NotesClient
	queue     *writequeue.Manager
	notifier  Notifier
	validator *validator.Validator
	logger    *zap.Logger
	config    Config

	mu    sync.Mutex
	state State

	// pubMu 保证订阅者按状态变更顺序收到快照
	pubMu     sync.Mutex
	listeners broadcast.Hub[State]

	sf        singleflight.Group
	createSeq atomic.Int64
}

type nopNotifier struct{}

func (nopNotifier) Error(error) {}

// NewNotesViewModel 创建视图模型，queue 为 nil 时直接执行修改
func NewNotesViewModel(client NotesClient, queue *writequeue.Manager, notifier Notifier, v *validator.Validator, lg *zap.Logger, cfg Config) *NotesViewModel {
	if lg == nil {
		lg = zap.NewNop()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &NotesViewModel{
		client:    client,
		queue:     queue,
		notifier:  notifier,
		validator: v,
		logger:    lg,
		config:    cfg,
		state: State{
			Notes: domain.Notes{},
			Form:  dto.NewNoteForm(),
		},
	}
}

// State 当前快照
func (vm *NotesViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state.clone()
}

// Filtered 当前搜索词过滤后的笔记
func (vm *NotesViewModel) Filtered() domain.Notes {
	return vm.State().Filtered()
}

// Subscribe 注册状态变更回调，回调中不能再修改视图模型
func (vm *NotesViewModel) Subscribe(fn func(State)) (cancel func()) {
	return vm.listeners.Subscribe(func(s State) {
		fn(s.clone())
	})
}

// update 在锁内计算新状态并按顺序发布
func (vm *NotesViewModel) update(fn func(s State) State) State {
	vm.pubMu.Lock()
	defer vm.pubMu.Unlock()

	vm.mu.Lock()
	next := fn(vm.state.clone())
	vm.state = next
	vm.mu.Unlock()

	vm.listeners.Emit(next)
	return next.clone()
}

// ---------------- Panels ----------------

// ToggleSearch 显示/隐藏搜索框
func (vm *NotesViewModel) ToggleSearch() State {
	return vm.update(func(s State) State { s.Panels.Search = !s.Panels.Search; return s })
}

// ToggleForm 显示/隐藏表单
func (vm *NotesViewModel) ToggleForm() State {
	return vm.update(func(s State) State { s.Panels.Form = !s.Panels.Form; return s })
}

// ToggleList 显示/隐藏笔记列表
func (vm *NotesViewModel) ToggleList() State {
	return vm.update(func(s State) State { s.Panels.List = !s.Panels.List; return s })
}

// ToggleEditor 显示/隐藏编辑器
func (vm *NotesViewModel) ToggleEditor() State {
	return vm.update(func(s State) State { s.Panels.Editor = !s.Panels.Editor; return s })
}

// ---------------- Form & search ----------------

// SetSearch 更新搜索词
func (vm *NotesViewModel) SetSearch(q string) State {
	return vm.update(func(s State) State { s.Search = q; return s })
}

// SetField 更新表单字段：title / content / tags / date
func (vm *NotesViewModel) SetField(name, value string) (State, error) {
	switch name {
	case FieldTitle, FieldContent, FieldTags, FieldDate:
	default:
		return vm.State(), apperrors.NewAppError(code.ErrorInvalidParams, nil).WithDetails("unknown field " + strconv.Quote(name))
	}
	return vm.update(func(s State) State {
		switch name {
		case FieldTitle:
			s.Form.Title = value
		case FieldContent:
			s.Form.Content = value
		case FieldTags:
			s.Form.Tags = value
		case FieldDate:
			s.Form.Date = value
		}
		return s
	}), nil
}

// BeginEdit 进入编辑模式：用笔记预填表单并显示表单
func (vm *NotesViewModel) BeginEdit(id int64) (State, error) {
	var err error
	s := vm.update(func(s State) State {
		n, ok := s.Notes.Find(id)
		if !ok {
			err = apperrors.NewAppError(code.ErrorNoteNotFound, nil).WithDetails("id " + strconv.FormatInt(id, 10))
			return s
		}
		s.Form = dto.NoteFormFrom(n)
		s.EditID = id
		s.Panels.Form = true
		return s
	})
	return s, err
}

// CancelEdit 退出编辑模式并清空表单
func (vm *NotesViewModel) CancelEdit() State {
	return vm.update(resetForm)
}

func resetForm(s State) State {
	s.Form = dto.NewNoteForm()
	s.EditID = 0
	return s
}

// ---------------- Mutations ----------------

// Submit 提交表单：创建模式 POST 并追加服务端返回的笔记，编辑模式 PATCH 并用合并后的笔记替换
// 成功后清空表单并隐藏表单；失败时状态不变并提示一次
func (vm *NotesViewModel) Submit(ctx context.Context) (State, error) {
	snap := vm.State()
	if err := vm.validateForm(snap.Form); err != nil {
		vm.notifier.Error(err)
		return snap, err
	}
	payload := snap.Form.Payload()

	if snap.Mode() == ModeEdit {
		return vm.edit(ctx, snap.EditID, payload)
	}
	return vm.create(ctx, payload)
}

func (vm *NotesViewModel) validateForm(form dto.NoteForm) error {
	if vm.validator == nil {
		return nil
	}
	err := vm.validator.Validate(vm.config.Lang, form)
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return apperrors.NewAppError(code.ErrorNoteFormInvalid, err).WithDetails(c.Details()...)
	}
	return apperrors.NewAppError(code.ErrorNoteFormInvalid, err)
}

func (vm *NotesViewModel) create(ctx context.Context, payload dto.NotePayload) (State, error) {
	// 创建操作使用独立的负数 key，互不阻塞
	key := -vm.createSeq.Add(1)
	var out State
	err := vm.execute(ctx, key, func() error {
		note, err := vm.client.CreateNote(ctx, &payload)
		if err != nil {
			return err
		}
		out = vm.update(func(s State) State {
			s.Notes = s.Notes.Append(note)
			s = resetForm(s)
			s.Panels.Form = false
			return s
		})
		vm.logger.Info("note created", zap.Int64(pkglogger.FieldNoteID, note.ID))
		return nil
	})
	return vm.finish(out, err, code.ErrorNoteCreateFailed, "create", 0)
}

func (vm *NotesViewModel) edit(ctx context.Context, id int64, payload dto.NotePayload) (State, error) {
	var out State
	err := vm.execute(ctx, id, func() error {
		if err := vm.client.UpdateNote(ctx, id, &payload); err != nil {
			return err
		}
		var mergeErr error
		out = vm.update(func(s State) State {
			old, ok := s.Notes.Find(id)
			if !ok {
				return s
			}
			// 服务端不返回更新后的笔记，本地合并：旧笔记叠加本次提交的字段
			merged, err := convert.Overlay(old, payload)
			if err != nil {
				mergeErr = err
				return s
			}
			merged.ID = id
			s.Notes = s.Notes.Replace(merged)
			if s.EditID == id {
				s = resetForm(s)
				s.Panels.Form = false
			}
			return s
		})
		return mergeErr
	})
	return vm.finish(out, err, code.ErrorNoteUpdateFailed, "edit", id)
}

// Delete 删除笔记，成功后从集合中移除，不做确认
func (vm *NotesViewModel) Delete(ctx context.Context, id int64) (State, error) {
	var out State
	err := vm.execute(ctx, id, func() error {
		if err := vm.client.DeleteNote(ctx, id); err != nil {
			return err
		}
		out = vm.update(func(s State) State {
			s.Notes = s.Notes.Remove(id)
			if s.EditID == id {
				s = resetForm(s)
			}
			return s
		})
		return nil
	})
	return vm.finish(out, err, code.ErrorNoteDeleteFailed, "delete", id)
}

func (vm *NotesViewModel) execute(ctx context.Context, key int64, fn func() error) error {
	if vm.queue == nil {
		return fn()
	}
	err := vm.queue.Execute(ctx, key, fn)
	switch {
	case errors.Is(err, writequeue.ErrWriteQueueFull), errors.Is(err, writequeue.ErrWriteQueueClosed):
		return apperrors.NewAppError(code.ErrorQueueBusy, err)
	case errors.Is(err, writequeue.ErrWriteTimeout):
		return apperrors.NewAppError(code.ErrorTimeout, err)
	}
	return err
}

func (vm *NotesViewModel) finish(out State, err error, fallback *code.Code, action string, id int64) (State, error) {
	if err == nil {
		return out, nil
	}
	appErr := apperrors.Wrap(err, fallback)
	vm.logger.Warn("note mutation failed",
		zap.String(pkglogger.FieldAction, action),
		zap.Int64(pkglogger.FieldNoteID, id),
		zap.Int(pkglogger.FieldCode, appErr.Code),
		zap.Error(err))
	vm.notifier.Error(appErr)
	return vm.State(), appErr
}

// ---------------- Fetch ----------------

// Fetch 拉取当前用户的全部笔记并整体替换集合；同一用户的并发拉取合并为一次请求
func (vm *NotesViewModel) Fetch(ctx context.Context) (State, error) {
	uid := vm.State().UserID
	if uid == 0 {
		return vm.State(), apperrors.NewAppError(code.ErrorNotLoggedIn, nil)
	}

	v, err, _ := vm.sf.Do(strconv.FormatInt(uid, 10), func() (any, error) {
		return vm.client.ListNotes(ctx, uid)
	})
	if err != nil {
		appErr := apperrors.Wrap(err, code.ErrorNotesFetchFailed)
		vm.logger.Warn("fetch notes failed", zap.Int64(pkglogger.FieldUID, uid), zap.Error(err))
		vm.notifier.Error(appErr)
		return vm.State(), appErr
	}
	notes := v.(domain.Notes)

	return vm.update(func(s State) State {
		// 拉取期间切换了用户，丢弃旧结果
		if s.UserID != uid {
			return s
		}
		s.Notes = notes.Clone()
		return s
	}), nil
}

// Bind follows the session: each change of user clears the collection and
// fetches the new user's notes once; logout leaves it empty.
// Bind 跟随会话：用户变化时清空集合并拉取一次新用户的笔记，退出登录后集合为空
func (vm *NotesViewModel) Bind(src SessionSource) (cancel func()) {
	cancel = src.Subscribe(vm.onSession)
	vm.onSession(src.Snapshot())
	return cancel
}

func (vm *NotesViewModel) onSession(sess domain.Session) {
	if sess.Loading {
		return
	}
	uid := sess.UserID()

	changed := false
	vm.update(func(s State) State {
		if s.UserID == uid {
			return s
		}
		changed = true
		s.UserID = uid
		s.Notes = domain.Notes{}
		s = resetForm(s)
		return s
	})
	if !changed || uid == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), vm.config.FetchTimeout)
	defer cancel()
	_, _ = vm.Fetch(ctx)
}
