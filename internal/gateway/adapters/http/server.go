package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// ServerOptions таймауты HTTP сервера.
type ServerOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp создает приложение fiber. Значения из запроса (cookie, поля форм, параметры
// пути) копируются и остаются валидными после завершения обработчика.
func NewApp(opts ServerOptions) *fiber.App {
	return fiber.New(fiber.Config{
		Immutable:    true,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
}
