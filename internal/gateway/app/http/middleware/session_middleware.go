package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"tagnote/internal/session"
)

// LocalsEntry ключ fiber.Locals для браузерной сессии.
const LocalsEntry = "session_entry"

// SessionOptions настройки cookie браузерной сессии.
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// NewSessionMiddleware находит или создает браузерную сессию по cookie. Идентификатор,
// который сервер не выдавал, заменяется новым.
func NewSessionMiddleware(manager *session.Manager, opts SessionOptions) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := utils.CopyString(ctx.Cookies(opts.CookieName))
		if !manager.Known(ctx.Context(), id) {
			id = manager.NewID()
			ctx.Cookie(&fiber.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				Secure:   opts.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		ctx.Locals(LocalsEntry, manager.Get(ctx.Context(), id))
		return ctx.Next()
	}
}

// EntryFrom возвращает браузерную сессию запроса.
func EntryFrom(ctx fiber.Ctx) (*session.Entry, bool) {
	entry, ok := ctx.Locals(LocalsEntry).(*session.Entry)
	return entry, ok
}
