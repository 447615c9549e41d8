package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/haierkeys/fast-note-client/pkg/code"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorIsCode(t *testing.T) {
	err := NewAppError(code.ErrorUserAlreadyExists, nil).WithStatus(http.StatusConflict)
	wrapped := fmt.Errorf("signup: %w", err)

	assert.True(t, Is(wrapped, code.ErrorUserAlreadyExists))
	assert.False(t, Is(wrapped, code.ErrorLoginFailed))
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusConflict, GetAppError(wrapped).Status)
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	appErr := Wrap(cause, code.ErrorNetwork)
	assert.Equal(t, code.ErrorNetwork.Code(), appErr.Code)
	assert.ErrorIs(t, appErr, cause)

	assert.Nil(t, Wrap(nil, code.ErrorNetwork))

	fromCode := Wrap(code.ErrorNoteNotFound, code.ErrorServer)
	assert.Equal(t, code.ErrorNoteNotFound.Code(), fromCode.Code)

	same := Wrap(appErr, code.ErrorServer)
	assert.Same(t, appErr, same)
}

func TestString(t *testing.T) {
	e := NewAppErrorWithMessage(3004, "Failed to delete note", nil).WithStatus(500).WithTraceID("abc")
	assert.Equal(t, "[3004] Failed to delete note (http 500) trace=abc", e.String())
}
