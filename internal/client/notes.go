package client

import (
	"context"

	notesentities "tagnote/internal/notes/domain/entities"
)

// Имена операций хранилища заметок.
const (
	OpGetNotes       = "getNotes"
	OpGetNotesByTags = "getNotesByTags"
	OpGetNote        = "getNote"
	OpGetUserTags    = "getUserTags"
	OpCreateNote     = "createNote"
	OpUpdateNote     = "updateNote"
	OpDeleteNote     = "deleteNote"
)

// NotesClient клиент хранилища заметок.
type NotesClient struct {
	tokens  TokenSource
	backend NotesBackend
}

// NewNotesClient создает клиент, вызывающий хранилище с токенами из tokens.
func NewNotesClient(tokens TokenSource, backend NotesBackend) *NotesClient {
	return &NotesClient{tokens: tokens, backend: backend}
}

func (c *NotesClient) token(ctx context.Context, op string) (string, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", Wrap(op, err)
	}
	return token, nil
}

// GetNotes возвращает страницу заметок userID, от новых к старым.
// Нулевые page и pageSize означают значения по умолчанию.
func (c *NotesClient) GetNotes(ctx context.Context, userID string, page, pageSize int) (*NotesPage, error) {
	return c.list(ctx, OpGetNotes, userID, nil, page, pageSize)
}

// GetNotesByTags как GetNotes, но оставляет заметки, у которых есть хотя бы один из tags.
// Пустой tags равносилен GetNotes.
func (c *NotesClient) GetNotesByTags(ctx context.Context, userID string, tags []string, page, pageSize int) (*NotesPage, error) {
	if len(tags) == 0 {
		return c.GetNotes(ctx, userID, page, pageSize)
	}
	return c.list(ctx, OpGetNotesByTags, userID, tags, page, pageSize)
}

func (c *NotesClient) list(ctx context.Context, op, userID string, tags []string, page, pageSize int) (*NotesPage, error) {
	token, err := c.token(ctx, op)
	if err != nil {
		return nil, err
	}

	filter := notesentities.ListFilter{Page: page, PageSize: pageSize, Tags: tags}
	result, err := c.backend.ListNotes(ctx, token, userID, filter)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return pageFromEntity(result), nil
}

// GetNote возвращает заметку по идентификатору.
func (c *NotesClient) GetNote(ctx context.Context, noteID string) (*Note, error) {
	token, err := c.token(ctx, OpGetNote)
	if err != nil {
		return nil, err
	}

	note, err := c.backend.GetNote(ctx, token, noteID)
	if err != nil {
		return nil, fail(ctx, OpGetNote, err)
	}
	return noteFromEntity(note), nil
}

// GetUserTags возвращает различные теги заметок userID по возрастанию.
// При ошибке возвращается пустой, но не nil, срез вместе с ошибкой.
func (c *NotesClient) GetUserTags(ctx context.Context, userID string) ([]string, error) {
	token, err := c.token(ctx, OpGetUserTags)
	if err != nil {
		return []string{}, err
	}

	tags, err := c.backend.UserTags(ctx, token, userID)
	if err != nil {
		return []string{}, fail(ctx, OpGetUserTags, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// CreateNote создает заметку и возвращает сохраненную строку.
func (c *NotesClient) CreateNote(ctx context.Context, note NewNote) (*Note, error) {
	token, err := c.token(ctx, OpCreateNote)
	if err != nil {
		return nil, err
	}

	created, err := c.backend.CreateNote(ctx, token, notesentities.Note{
		UserID:  note.UserID,
		Title:   note.Title,
		Content: note.Content,
		Tags:    note.Tags,
	})
	if err != nil {
		return nil, fail(ctx, OpCreateNote, err)
	}
	return noteFromEntity(created), nil
}

// UpdateNote изменяет заданные поля заметки и возвращает сохраненную строку.
func (c *NotesClient) UpdateNote(ctx context.Context, noteID string, changes NoteChanges) (*Note, error) {
	token, err := c.token(ctx, OpUpdateNote)
	if err != nil {
		return nil, err
	}

	updated, err := c.backend.UpdateNote(ctx, token, noteID, notesentities.NoteUpdate{
		Title:   changes.Title,
		Content: changes.Content,
		Tags:    changes.Tags,
	})
	if err != nil {
		return nil, fail(ctx, OpUpdateNote, err)
	}
	return noteFromEntity(updated), nil
}

// DeleteNote удаляет заметку.
func (c *NotesClient) DeleteNote(ctx context.Context, noteID string) error {
	token, err := c.token(ctx, OpDeleteNote)
	if err != nil {
		return err
	}

	if err := c.backend.DeleteNote(ctx, token, noteID); err != nil {
		return fail(ctx, OpDeleteNote, err)
	}
	return nil
}
