// Package auth содержит HTTP-обработчики JSON API аутентификации.
package auth

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/internal/gateway/adapters/http/response"
	"tagnote/internal/gateway/app/dto"
	"tagnote/internal/gateway/app/http/middleware"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSignUp  = "handling sign up request"
	LogHandlerSignIn  = "handling sign in request"
	LogHandlerRefresh = "handling refresh request"
	LogHandlerSignOut = "handling sign out request"
)

// TokenAPI операции аутентификации без состояния.
type TokenAPI interface {
	SignUp(ctx context.Context, email, password string) (*client.Tokens, error)
	SignIn(ctx context.Context, email, password string) (*client.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*client.Tokens, error)
	SignOut(ctx context.Context, refreshToken string) error
}

// Handler обработчик HTTP-запросов аутентификации.
type Handler struct {
	tokens TokenAPI
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(tokens TokenAPI) *Handler {
	return &Handler{tokens: tokens}
}

func (h *Handler) credentials(ctx fiber.Ctx, op string) (context.Context, *dto.CredentialsRequest, bool) {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, op)

	var req dto.CredentialsRequest
	if err := ctx.Bind().Body(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, response.MsgInvalidRequestBody, zap.Error(err))
		return requestCtx, nil, false
	}
	return requestCtx, &req, true
}

// SignUp регистрирует пользователя.
func (h *Handler) SignUp(ctx fiber.Ctx) error {
	requestCtx, req, ok := h.credentials(ctx, LogHandlerSignUp)
	if !ok {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	tokens, err := h.tokens.SignUp(requestCtx, req.Email, req.Password)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusCreated, tokens)
}

// SignIn выполняет вход.
func (h *Handler) SignIn(ctx fiber.Ctx) error {
	requestCtx, req, ok := h.credentials(ctx, LogHandlerSignIn)
	if !ok {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	tokens, err := h.tokens.SignIn(requestCtx, req.Email, req.Password)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, tokens)
}

// Refresh обновляет пару токенов.
func (h *Handler) Refresh(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRefresh)

	var req dto.RefreshRequest
	if err := ctx.Bind().Body(&req); err != nil || req.RefreshToken == "" {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	tokens, err := h.tokens.Refresh(requestCtx, req.RefreshToken)
	if err != nil {
		return response.Error(ctx, err)
	}
	return response.JSON(ctx, fiber.StatusOK, tokens)
}

// SignOut отзывает refresh токен.
func (h *Handler) SignOut(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerSignOut)

	var req dto.RefreshRequest
	if err := ctx.Bind().Body(&req); err != nil || req.RefreshToken == "" {
		return response.BadRequest(ctx, response.MsgInvalidRequestBody)
	}

	if err := h.tokens.SignOut(requestCtx, req.RefreshToken); err != nil {
		return response.Error(ctx, err)
	}
	return response.NoContent(ctx)
}

// GetUser возвращает владельца access токена.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	return response.JSON(ctx, fiber.StatusOK, middleware.UserFrom(ctx))
}
