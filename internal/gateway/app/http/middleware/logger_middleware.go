package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
)

// NewLoggerMiddleware создает новое промежуточное ПО для логирования HTTP запросов.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Debug(requestCtx, LogRequestStarted)

		err := ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Error(requestCtx, LogRequestFailed, append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, LogRequestCompleted, fields...)
		return nil
	}
}
