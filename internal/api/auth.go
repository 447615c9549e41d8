package api

import (
	"context"
	"net/http"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
)

const (
	pathSignup = "/api/signup"
	pathLogin  = "/api/login"
	pathNotes  = "/api/notes"
)

// Signup POST /api/signup，成功时响应体被忽略
func (c *Client) Signup(ctx context.Context, params *dto.CredentialsRequest) error {
	return c.do(ctx, http.MethodPost, pathSignup, nil, params, nil, code.ErrorSignupFailed)
}

// Login POST /api/login，返回服务端的用户对象，会话 Cookie 由 Jar 接收
func (c *Client) Login(ctx context.Context, params *dto.CredentialsRequest) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodPost, pathLogin, nil, params, user, code.ErrorLoginFailed); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.NewAppError(code.ErrorDecode, err).WithDetails("login response has no usable user id")
	}
	return user, nil
}
