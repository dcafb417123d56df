// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"tagnote/pkg/logger"
)

// HeaderRequestID заголовок идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware кладет в контекст запроса logger и идентификатор запроса.
// Идентификатор берется из заголовка X-Request-ID или генерируется.
func NewRequestIDMiddleware(log *logger.Logger) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx.Set(HeaderRequestID, requestID)

		requestCtx := ctx.Context()
		if log != nil {
			requestCtx = logger.NewContext(requestCtx, log)
		}
		ctx.SetContext(logger.NewRequestIDContext(requestCtx, requestID))

		return ctx.Next()
	}
}
