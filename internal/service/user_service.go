package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/internal/routers"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"
	"github.com/haierkeys/fast-note-client/pkg/validator"

	"go.uber.org/zap"
)

// AuthClient 服务端认证接口
type AuthClient interface {
	Signup(ctx context.Context, params *dto.CredentialsRequest) error
	Login(ctx context.Context, params *dto.CredentialsRequest) (*domain.User, error)
}

// CookieJar 可持久化的 Cookie 容器
type CookieJar interface {
	Save(ctx context.Context) error
	Clear(ctx context.Context) error
}

// SessionStore 会话存储
type SessionStore interface {
	Login(ctx context.Context, user *domain.User) error
	Logout(ctx context.Context) error
}

// UserService 定义用户业务服务接口
type UserService interface {
	// Signup 用户注册，成功后返回登录页路由
	Signup(ctx context.Context, params *dto.CredentialsRequest) (string, error)

	// Login 用户登录，成功后返回笔记页路由
	Login(ctx context.Context, params *dto.CredentialsRequest) (string, error)

	// Logout 退出登录，返回登录页路由
	Logout(ctx context.Context) (string, error)
}

// userService 实现 UserService 接口
type userService struct {
	client    AuthClient
	jar       CookieJar
	session   SessionStore
	validator *validator.Validator
	logger    *zap.Logger
	config    *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(client AuthClient, jar CookieJar, session SessionStore, v *validator.Validator, logger *zap.Logger, config *ServiceConfig) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &ServiceConfig{}
	}
	return &userService{
		client:    client,
		jar:       jar,
		session:   session,
		validator: v,
		logger:    logger,
		config:    config,
	}
}

func (s *userService) validate(params *dto.CredentialsRequest) error {
	if params == nil {
		return apperrors.NewAppError(code.ErrorInvalidParams, nil)
	}
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(s.config.Lang, params); err != nil {
		return apperrors.Wrap(err, code.ErrorInvalidParams)
	}
	return nil
}

// Signup 用户注册
// 用户已存在通过结构化错误码或 HTTP 409 识别，不匹配错误文本
func (s *userService) Signup(ctx context.Context, params *dto.CredentialsRequest) (string, error) {
	if err := s.validate(params); err != nil {
		return "", err
	}

	err := s.client.Signup(ctx, params)
	if err == nil {
		return routers.RouteLogin, nil
	}
	if isUserExists(err) {
		appErr := apperrors.NewAppError(code.ErrorUserAlreadyExists, err)
		if orig := apperrors.GetAppError(err); orig != nil {
			appErr = appErr.WithStatus(orig.Status).WithTraceID(orig.TraceID)
		}
		return "", appErr
	}
	s.logger.Warn("signup failed", zap.Error(err))
	return "", apperrors.Wrap(err, code.ErrorSignupFailed)
}

func isUserExists(err error) bool {
	if apperrors.Is(err, code.ErrorUserAlreadyExists) {
		return true
	}
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return false
	}
	c, ok := code.LookupStatus(appErr.Status)
	return ok && c.Is(code.ErrorUserAlreadyExists)
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.CredentialsRequest) (string, error) {
	if err := s.validate(params); err != nil {
		return "", err
	}

	user, err := s.client.Login(ctx, params)
	if err != nil {
		s.logger.Warn("login failed", zap.Error(err))
		return "", apperrors.Wrap(err, code.ErrorLoginFailed)
	}

	if err := s.session.Login(ctx, user); err != nil {
		return "", err
	}
	if s.jar != nil {
		if err := s.jar.Save(ctx); err != nil {
			s.logger.Warn("failed to persist cookies", zap.Int64(pkglogger.FieldUID, user.ID), zap.Error(err))
		}
	}
	s.logger.Info("login", zap.Int64(pkglogger.FieldUID, user.ID))
	return routers.RouteNotes, nil
}

// Logout 退出登录
func (s *userService) Logout(ctx context.Context) (string, error) {
	err := s.session.Logout(ctx)
	if s.jar != nil {
		err = errors.Join(err, s.jar.Clear(ctx))
	}
	return routers.RouteLogin, err
}
