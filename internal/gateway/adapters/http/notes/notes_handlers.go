// Package notes содержит HTTP-обработчики JSON API заметок.
package notes

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"tagnote/internal/client"
	"tagnote/internal/gateway/adapters/http/response"
	"tagnote/internal/gateway/app/dto"
	"tagnote/internal/gateway/app/http/middleware"
	"tagnote/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"
	LogHandlerUserTags   = "handling user tags request"

	ErrMsgInvalidPagination = "invalid pagination parameters"
)

// NotesAPI операции хранилища заметок.
type NotesAPI interface {
	GetNotesByTags(ctx context.Context, userID string, tags []string, page, pageSize int) (*client.NotesPage, error)
	GetNote(ctx context.Context, noteID string) (*client.Note, error)
	GetUserTags(ctx context.Context, userID string) ([]string, error)
	CreateNote(ctx context.Context, note client.NewNote) (*client.Note, error)
	UpdateNote(ctx context.Context, noteID string, changes client.NoteChanges) (*client.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesFor func(token string) NotesAPI
}

// NewHandler создает новый экземпляр обработчика. notesFor возвращает клиент
// хранилища для access токена запроса.
func NewHandler(notesFor func(token string) NotesAPI) *Handler {
	return &Handler{notesFor: notesFor}
}

func (h *Handler) begin(ctx fiber.Ctx, msg string) (context.Context, NotesAPI, *client.User) {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, msg)
	return requestCtx, h.notesFor(middleware.AccessTokenFrom(ctx)), middleware.UserFrom(ctx)
}

// ListNotes возвращает страницу заметок. Параметры: page, page_size, tags=a,b.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx, api, user := h.begin(ctx, LogHandlerListNotes)

	page, err := queryInt(ctx, "page")
	if err != nil {
		return response.BadRequest(ctx, ErrMsgInvalidPagination)
	}
	pageSize, err := queryInt(ctx, "page_size")
	if err != nil {
		return response.BadRequest(ctx, ErrMsgInvalidPagination)
	}

	result, err := api.GetNotesByTags(requestCtx, user.ID, splitTags(ctx.Query("tags")), page, pageSize)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, result)
}

// GetNote возвращает заметку.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx, api, _ := h.begin(ctx, LogHandlerGetNote)

	note, err := api.GetNote(requestCtx, ctx.Params("id"))
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, note)
}

// CreateNote создает заметку.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx, api, user := h.begin(ctx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	note, err := api.CreateNote(requestCtx, client.NewNote{
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusCreated, note)
}

// UpdateNote изменяет переданные поля заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx, api, _ := h.begin(ctx, LogHandlerUpdateNote)

	var changes client.NoteChanges
	if err := ctx.Bind().Body(&changes); err != nil {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	note, err := api.UpdateNote(requestCtx, ctx.Params("id"), changes)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, note)
}

// DeleteNote удаляет заметку.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx, api, _ := h.begin(ctx, LogHandlerDeleteNote)

	if err := api.DeleteNote(requestCtx, ctx.Params("id")); err != nil {
		return response.Error(ctx, err)
	}
	return response.NoContent(ctx)
}

// UserTags возвращает различные теги пользователя.
func (h *Handler) UserTags(ctx fiber.Ctx) error {
	requestCtx, api, user := h.begin(ctx, LogHandlerUserTags)

	tags, err := api.GetUserTags(requestCtx, user.ID)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, dto.TagsResponse{Tags: tags})
}

func queryInt(ctx fiber.Ctx, key string) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
