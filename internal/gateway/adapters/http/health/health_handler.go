// Package health содержит HTTP-обработчик проверки готовности.
package health

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"tagnote/internal/gateway/adapters/http/response"
	"tagnote/internal/health"
)

// ReportSource выполняет проверки зависимостей.
type ReportSource interface {
	Check(ctx context.Context) health.Report
}

// Handler обработчик /healthz.
type Handler struct {
	checker ReportSource
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(checker ReportSource) *Handler {
	return &Handler{checker: checker}
}

// Check возвращает отчет проверок: 200, если все зависимости доступны, иначе 503.
func (h *Handler) Check(ctx fiber.Ctx) error {
	report := h.checker.Check(ctx.Context())
	status := fiber.StatusOK
	if !report.Healthy {
		status = fiber.StatusServiceUnavailable
	}
	return response.JSON(ctx, status, report)
}
