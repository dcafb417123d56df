package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogServerPanic         = "server panic"
	LogPanicResponseFailed = "failed to send error response after panic"

	MsgInternalError = "Internal Server Error"
)

// NewRecoveryMiddleware создает новое промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				if sendErr := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": MsgInternalError,
				}); sendErr != nil {
					log.Error(requestCtx, LogPanicResponseFailed, zap.Error(sendErr))
				}
				err = nil
			}
		}()

		return ctx.Next()
	}
}
