// Package app реализует сценарии хранилища заметок.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tagnote/internal/cache"
	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/internal/notes/ports/services"
	"tagnote/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = errors.New("note not found")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrInvalidParams = errors.New("invalid parameters")
)

// Значения по умолчанию для пагинации.
const (
	DefaultPageSize = 3
	MaxPageSize     = 100
)

const (
	tagsCacheKeyPrefix = "tags:"

	msgTokenRejected    = "access token rejected"
	msgForeignOwner     = "request for foreign notes returns nothing"
	msgTagsCacheHit     = "user tags served from cache"
	msgTagsCacheFailed  = "user tags cache unavailable"
	msgTagsCacheCleared = "failed to invalidate user tags cache"
)

// Options настройки NoteUseCase.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	TagsTTL         time.Duration
}

// NoteUseCase бизнес-логика заметок. Каждая операция выполняется от имени владельца access токена.
type NoteUseCase struct {
	noteRepo     repositories.NoteRepository
	tokenService services.TokenService
	tagsCache    cache.Cache
	opts         Options
}

// NewNoteUseCase создает новый экземпляр NoteUseCase. tagsCache может быть nil.
func NewNoteUseCase(noteRepo repositories.NoteRepository, tokenService services.TokenService, tagsCache cache.Cache, opts Options) *NoteUseCase {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = MaxPageSize
	}
	return &NoteUseCase{
		noteRepo:     noteRepo,
		tokenService: tokenService,
		tagsCache:    tagsCache,
		opts:         opts,
	}
}

func (uc *NoteUseCase) caller(ctx context.Context, token string) (string, error) {
	userID, err := uc.tokenService.ValidateAccessToken(ctx, token)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgTokenRejected, zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return userID, nil
}

func (uc *NoteUseCase) normalizeFilter(filter entities.ListFilter) (entities.ListFilter, error) {
	if filter.Page < 0 || filter.PageSize < 0 {
		return filter, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrInvalidPage)
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = uc.opts.DefaultPageSize
	}
	if filter.PageSize > uc.opts.MaxPageSize {
		filter.PageSize = uc.opts.MaxPageSize
	}
	if maxPage := entities.MaxPage(filter.PageSize); filter.Page > maxPage {
		filter.Page = maxPage
	}
	if len(filter.Tags) == 0 {
		filter.Tags = nil
	}
	return filter, nil
}

// ListNotes возвращает страницу заметок userID. Заметки другого пользователя не видны:
// для них возвращается пустая страница.
func (uc *NoteUseCase) ListNotes(ctx context.Context, token, userID string, filter entities.ListFilter) (*entities.NotePage, error) {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return nil, err
	}

	filter, err = uc.normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	page := &entities.NotePage{Notes: []*entities.Note{}, Page: filter.Page, PageSize: filter.PageSize}
	if userID != callerID {
		logger.Log(ctx).Debug(ctx, msgForeignOwner, zap.String("callerID", callerID), zap.String("userID", userID))
		return page, nil
	}

	notes, total, err := uc.noteRepo.List(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	page.Notes = notes
	page.Total = total
	return page, nil
}

// GetNote возвращает заметку владельца токена.
func (uc *NoteUseCase) GetNote(ctx context.Context, token, noteID string) (*entities.Note, error) {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return nil, err
	}
	if !validID(noteID) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, entities.ErrNoteNotFound)
	}

	note, err := uc.noteRepo.GetByID(ctx, callerID, noteID)
	if err != nil {
		return nil, wrapRepoError("failed to get note", err)
	}
	return note, nil
}

// UserTags возвращает отсортированный список различных тегов userID.
func (uc *NoteUseCase) UserTags(ctx context.Context, token, userID string) ([]string, error) {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID != callerID {
		return []string{}, nil
	}

	log := logger.Log(ctx).With(zap.String("method", "UserTags"), zap.String("userID", callerID))

	if uc.tagsCache != nil {
		var cached []string
		found, err := cache.GetJSON(ctx, uc.tagsCache, tagsCacheKeyPrefix+callerID, &cached)
		switch {
		case err != nil:
			log.Warn(ctx, msgTagsCacheFailed, zap.Error(err))
		case found:
			log.Debug(ctx, msgTagsCacheHit)
			if cached == nil {
				cached = []string{}
			}
			return cached, nil
		}
	}

	raw, err := uc.noteRepo.UserTags(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	tags := entities.DistinctTags(raw)

	if uc.tagsCache != nil {
		if err := cache.SetJSON(ctx, uc.tagsCache, tagsCacheKeyPrefix+callerID, tags, uc.opts.TagsTTL); err != nil {
			log.Warn(ctx, msgTagsCacheFailed, zap.Error(err))
		}
	}

	return tags, nil
}

// CreateNote создает заметку. note.UserID должен совпадать с владельцем токена;
// пустой UserID заменяется владельцем токена.
func (uc *NoteUseCase) CreateNote(ctx context.Context, token string, note entities.Note) (*entities.Note, error) {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return nil, err
	}

	if note.UserID == "" {
		note.UserID = callerID
	}
	if note.UserID != callerID {
		return nil, fmt.Errorf("%w: note owner differs from caller", ErrUnauthorized)
	}
	if strings.TrimSpace(note.Title) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyTitle)
	}
	if strings.TrimSpace(note.Content) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyContent)
	}
	note.ID = ""

	created, err := uc.noteRepo.Create(ctx, &note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	uc.invalidateTags(ctx, callerID)
	return created, nil
}

// UpdateNote изменяет заданные поля заметки владельца токена и возвращает сохраненную строку.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, token, noteID string, update entities.NoteUpdate) (*entities.Note, error) {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyUpdate)
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyTitle)
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyContent)
	}
	if !validID(noteID) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, entities.ErrNoteNotFound)
	}

	note, err := uc.noteRepo.Update(ctx, callerID, noteID, update)
	if err != nil {
		return nil, wrapRepoError("failed to update note", err)
	}

	uc.invalidateTags(ctx, callerID)
	return note, nil
}

// DeleteNote удаляет заметку владельца токена.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, token, noteID string) error {
	callerID, err := uc.caller(ctx, token)
	if err != nil {
		return err
	}
	if !validID(noteID) {
		return fmt.Errorf("%w: %w", ErrNotFound, entities.ErrNoteNotFound)
	}

	if err := uc.noteRepo.Delete(ctx, callerID, noteID); err != nil {
		return wrapRepoError("failed to delete note", err)
	}

	uc.invalidateTags(ctx, callerID)
	return nil
}

func (uc *NoteUseCase) invalidateTags(ctx context.Context, userID string) {
	if uc.tagsCache == nil {
		return
	}
	if err := uc.tagsCache.Delete(ctx, tagsCacheKeyPrefix+userID); err != nil {
		logger.Log(ctx).Warn(ctx, msgTagsCacheCleared, zap.String("userID", userID), zap.Error(err))
	}
}

func wrapRepoError(op string, err error) error {
	if errors.Is(err, entities.ErrNoteNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
