package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/pkg/code"
)

func notePath(id int64) string {
	return pathNotes + "/" + strconv.FormatInt(id, 10)
}

// ListNotes GET /api/notes?user_id=ID
func (c *Client) ListNotes(ctx context.Context, userID int64) (domain.Notes, error) {
	query := url.Values{"user_id": []string{strconv.FormatInt(userID, 10)}}
	var notes domain.Notes
	if err := c.do(ctx, http.MethodGet, pathNotes, query, nil, &notes, code.ErrorNotesFetchFailed); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = domain.Notes{}
	}
	return notes, nil
}

// CreateNote POST /api/notes，返回带服务端 ID 的笔记
func (c *Client) CreateNote(ctx context.Context, payload *dto.NotePayload) (domain.Note, error) {
	var note domain.Note
	if err := c.do(ctx, http.MethodPost, pathNotes, nil, payload, &note, code.ErrorNoteCreateFailed); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// UpdateNote PATCH /api/notes/:id，响应体被忽略
func (c *Client) UpdateNote(ctx context.Context, id int64, payload *dto.NotePayload) error {
	return c.do(ctx, http.MethodPatch, notePath(id), nil, payload, nil, code.ErrorNoteUpdateFailed)
}

// DeleteNote DELETE /api/notes/:id
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, notePath(id), nil, nil, nil, code.ErrorNoteDeleteFailed)
}
