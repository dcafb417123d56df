// Package response формирует ответы JSON API.
package response

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/internal/gateway/app/dto"
	"tagnote/pkg/logger"
)

// Константы сообщений.
const (
	MsgUnexpected         = "An unexpected error occurred"
	MsgInvalidRequestBody = "invalid request body"
	MsgRouteNotFound      = "Route not found"

	LogUnexpectedError = "unexpected API error"
)

// StatusFor возвращает HTTP статус для класса ошибки.
func StatusFor(kind client.Kind) int {
	switch kind {
	case client.KindValidation:
		return fiber.StatusBadRequest
	case client.KindUnauthorized:
		return fiber.StatusUnauthorized
	case client.KindNotFound:
		return fiber.StatusNotFound
	case client.KindConflict:
		return fiber.StatusConflict
	case client.KindRemote:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Error отправляет ошибку в виде {"error": message}. Сообщения транспортных ошибок
// не раскрываются клиенту.
func Error(ctx fiber.Ctx, err error) error {
	kind := client.KindOf(err)
	message := err.Error()
	if kind == client.KindTransport {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Error(requestCtx, LogUnexpectedError, zap.Error(err))
		message = MsgUnexpected
	}
	return JSON(ctx, StatusFor(kind), dto.ErrorResponse{Error: message})
}

// BadRequest отправляет 400 с сообщением message.
func BadRequest(ctx fiber.Ctx, message string) error {
	return JSON(ctx, fiber.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// JSON отправляет тело body со статусом status.
func JSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// NoContent отправляет 204.
func NoContent(ctx fiber.Ctx) error {
	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
