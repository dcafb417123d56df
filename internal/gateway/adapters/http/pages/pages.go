// Package pages содержит обработчики HTML страниц: вход и регистрация, страница заметок.
// Формы работают по схеме POST, затем 303 на GET; состояние форм хранится в браузерной сессии.
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/gateway/app/http/middleware"
	"tagnote/internal/profile"
	"tagnote/internal/session"
	"tagnote/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Маршруты страниц.
const (
	PathLanding = "/"
	PathProfile = "/profile"
)

// Константы ошибок и сообщений для логирования.
const (
	ErrParseTemplates  = "failed to parse page templates"
	ErrRenderTemplate  = "failed to render page"
	ErrNoBrowserEntry  = "browser session is missing"
	LogSignOutFailed   = "sign out failed"
	LogRedirectToLogin = "unauthenticated page request"
)

// Handler обработчик HTML страниц.
type Handler struct {
	templates *template.Template
}

// NewHandler разбирает встроенные шаблоны страниц.
func NewHandler() (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseTemplates, err)
	}
	return &Handler{templates: tmpl}, nil
}

func (h *Handler) render(ctx fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%s %s: %w", ErrRenderTemplate, name, err)
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

func redirect(ctx fiber.Ctx, path string) error {
	return ctx.Redirect().Status(fiber.StatusSeeOther).To(path)
}

func entryFrom(ctx fiber.Ctx) (*session.Entry, error) {
	entry, ok := middleware.EntryFrom(ctx)
	if !ok {
		return nil, fiber.NewError(fiber.StatusInternalServerError, ErrNoBrowserEntry)
	}
	return entry, nil
}

// Landing показывает форму входа или перенаправляет на страницу заметок.
func (h *Handler) Landing(ctx fiber.Ctx) error {
	entry, err := entryFrom(ctx)
	if err != nil {
		return err
	}
	if state, _ := entry.Session.Snapshot(); state == session.StateAuthenticated {
		return redirect(ctx, PathProfile)
	}
	return h.render(ctx, "landing", entry.Form.View())
}

// Submit отправляет форму входа или регистрации.
func (h *Handler) Submit(ctx fiber.Ctx) error {
	entry, err := entryFrom(ctx)
	if err != nil {
		return err
	}
	if entry.Form.Submit(ctx.Context(), ctx.FormValue("email"), ctx.FormValue("password")) {
		return redirect(ctx, PathProfile)
	}
	return redirect(ctx, PathLanding)
}

// Toggle переключает режим формы.
func (h *Handler) Toggle(ctx fiber.Ctx) error {
	entry, err := entryFrom(ctx)
	if err != nil {
		return err
	}
	entry.Form.Toggle()
	return redirect(ctx, PathLanding)
}

// SignOut завершает сессию пользователя.
func (h *Handler) SignOut(ctx fiber.Ctx) error {
	entry, err := entryFrom(ctx)
	if err != nil {
		return err
	}

	requestCtx := ctx.Context()
	if err := entry.Session.SignOut(requestCtx); err != nil {
		logger.Log(requestCtx).Warn(requestCtx, LogSignOutFailed, zap.Error(err))
	}
	entry.ResetProfile()
	return redirect(ctx, PathLanding)
}

// withPage выполняет fn со страницей заметок текущего пользователя. Без пользователя
// запрос перенаправляется на форму входа.
func withPage(ctx fiber.Ctx, fn func(context.Context, *profile.Page) error) error {
	entry, err := entryFrom(ctx)
	if err != nil {
		return err
	}

	requestCtx := ctx.Context()
	state, user := entry.Session.Snapshot()
	if state != session.StateAuthenticated || user == nil {
		logger.Log(requestCtx).Debug(requestCtx, LogRedirectToLogin, zap.String("path", ctx.Path()))
		return redirect(ctx, PathLanding)
	}

	page, created := entry.Profile(user)
	if created {
		page.Refresh(requestCtx)
	}
	return fn(requestCtx, page)
}

func backToProfile(ctx fiber.Ctx) error {
	return redirect(ctx, PathProfile)
}

// Profile показывает страницу заметок. Параметр page переключает страницу списка.
func (h *Handler) Profile(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		if raw := ctx.Query("page"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n != page.View().Page {
				page.SetPage(requestCtx, n)
			}
		}
		return h.render(ctx, "profile", page.View())
	})
}

// CreateNote создает заметку из формы.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		page.Create(requestCtx, ctx.FormValue("title"), ctx.FormValue("content"), ctx.FormValue("tags"))
		return backToProfile(ctx)
	})
}

// StartEdit открывает заметку на редактирование.
func (h *Handler) StartEdit(ctx fiber.Ctx) error {
	return withPage(ctx, func(_ context.Context, page *profile.Page) error {
		page.StartEdit(ctx.Params("id"))
		return backToProfile(ctx)
	})
}

// SaveEdit сохраняет редактируемую заметку.
func (h *Handler) SaveEdit(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		page.SaveEdit(requestCtx, ctx.Params("id"), ctx.FormValue("title"), ctx.FormValue("content"), ctx.FormValue("tags"))
		return backToProfile(ctx)
	})
}

// CancelEdit выходит из режима редактирования.
func (h *Handler) CancelEdit(ctx fiber.Ctx) error {
	return withPage(ctx, func(_ context.Context, page *profile.Page) error {
		page.CancelEdit()
		return backToProfile(ctx)
	})
}

// ConfirmDelete показывает подтверждение удаления.
func (h *Handler) ConfirmDelete(ctx fiber.Ctx) error {
	return withPage(ctx, func(_ context.Context, page *profile.Page) error {
		id := ctx.Params("id")
		if !page.RequestDelete(id) {
			return backToProfile(ctx)
		}
		for _, note := range page.View().Notes {
			if note.ID == id {
				return h.render(ctx, "delete", note)
			}
		}
		return backToProfile(ctx)
	})
}

// Delete удаляет заметку, если отправлено confirm=yes.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		page.Delete(requestCtx, ctx.Params("id"), ctx.FormValue("confirm") == "yes")
		return backToProfile(ctx)
	})
}

// ToggleTag добавляет тег в фильтр или убирает его.
func (h *Handler) ToggleTag(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		page.ToggleTag(requestCtx, ctx.FormValue("tag"))
		return backToProfile(ctx)
	})
}

// ClearFilters очищает фильтр по тегам.
func (h *Handler) ClearFilters(ctx fiber.Ctx) error {
	return withPage(ctx, func(requestCtx context.Context, page *profile.Page) error {
		page.ClearFilters(requestCtx)
		return backToProfile(ctx)
	})
}
