// Package session 维护当前登录用户，并持久化到本地存储
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/pkg/broadcast"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Store owns the current session. It is created with Loading set and is
// expected to be restored exactly once before use.
// Store 持有当前会话，创建时 Loading 为 true，使用前先调用一次 Restore
type Store struct {
	repo   domain.KVRepository
	logger *zap.Logger

	mu      sync.RWMutex
	session domain.Session

	// pubMu 保证回调按发布顺序执行，回调中不能再修改会话
	pubMu     sync.Mutex
	listeners broadcast.Hub[domain.Session]
}

// New 创建会话存储
func New(repo domain.KVRepository, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{
		repo:    repo,
		logger:  lg,
		session: domain.Session{Loading: true},
	}
}

// Restore 从本地存储恢复用户
// 数据不存在或已损坏（包括缺少有效 ID）时视为未登录（损坏的数据会被删除）；无论结果如何 Loading 都会变为 false
func (s *Store) Restore(ctx context.Context) error {
	user, err := s.load(ctx)
	s.publish(domain.Session{User: user, Loading: false})
	return err
}

func (s *Store) load(ctx context.Context) (*domain.User, error) {
	data, err := s.repo.Get(ctx, domain.KeyUser)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewAppError(code.ErrorSessionStore, err)
	}

	user := &domain.User{}
	err = sonic.Unmarshal(data, user)
	if err == nil {
		err = user.Validate()
	}
	if err != nil {
		s.logger.Warn("stored session is malformed, treating as logged out",
			zap.String(pkglogger.FieldKey, domain.KeyUser),
			zap.Int(pkglogger.FieldCode, code.ErrorSessionCorrupt.Code()),
			zap.Error(err))
		if derr := s.repo.Delete(ctx, domain.KeyUser); derr != nil {
			s.logger.Warn("failed to remove malformed session", zap.Error(derr))
		}
		return nil, nil
	}
	return user, nil
}

// Login 发布用户并写入本地存储；写入失败时内存中的用户仍然生效，错误返回给调用方
func (s *Store) Login(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return apperrors.NewAppError(code.ErrorInvalidParams, err).WithDetails(err.Error())
	}
	u := *user
	s.publish(domain.Session{User: &u, Loading: false})

	data, err := sonic.Marshal(&u)
	if err != nil {
		return apperrors.NewAppError(code.ErrorSessionStore, err)
	}
	if err := s.repo.Set(ctx, domain.KeyUser, data); err != nil {
		s.logger.Error("failed to persist session",
			zap.Int64(pkglogger.FieldUID, u.ID),
			zap.Error(err))
		return apperrors.NewAppError(code.ErrorSessionStore, err)
	}
	return nil
}

// Logout 清除内存中的用户并删除本地存储
func (s *Store) Logout(ctx context.Context) error {
	s.publish(domain.Session{User: nil, Loading: false})
	if err := s.repo.Delete(ctx, domain.KeyUser); err != nil {
		return apperrors.NewAppError(code.ErrorSessionStore, err)
	}
	return nil
}

// IsLoggedIn 是否有已发布的用户
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil
}

// Snapshot 当前会话的副本
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// Subscribe 注册会话变更回调，返回取消函数；回调中不能再调用 Login / Logout
func (s *Store) Subscribe(fn func(domain.Session)) (cancel func()) {
	return s.listeners.Subscribe(func(sess domain.Session) {
		fn(copySession(sess))
	})
}

func (s *Store) publish(next domain.Session) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()

	s.listeners.Emit(next)
}

func copySession(in domain.Session) domain.Session {
	if in.User != nil {
		u := *in.User
		in.User = &u
	}
	return in
}
