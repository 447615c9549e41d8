package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf, nil)

	n.Error(apperrors.NewAppError(code.ErrorNoteDeleteFailed, nil))
	n.Error(errors.New("plain"))
	n.Error(nil)
	n.Success(code.SuccessSignup)
	n.Info("No notes available.")

	assert.Equal(t, "Error: Failed to delete note\nError: plain\nSignup successful! Please log in.\nNo notes available.\n", buf.String())
}

func TestNotifierDetails(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf, nil)
	n.Error(apperrors.NewAppError(code.ErrorNoteFormInvalid, nil).WithDetails("title is a required field"))
	assert.Equal(t, "Error: Title, content and date are required: title is a required field\n", buf.String())
}
