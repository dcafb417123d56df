package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
)

// Ключи fiber.Locals для аутентифицированных API запросов.
const (
	LocalsAccessToken = "access_token"
	LocalsUser        = "user"
)

// TokenVerifier проверяет access токен.
type TokenVerifier interface {
	User(ctx context.Context, accessToken string) (*client.User, error)
}

// NewAuthMiddleware проверяет Bearer токен и сохраняет токен и его владельца в Locals.
func NewAuthMiddleware(verifier TokenVerifier, onError func(fiber.Ctx, error) error) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrorNoAuthHeader})
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrorInvalidTokenFormat})
		}

		user, err := verifier.User(requestCtx, token)
		if err != nil {
			return onError(ctx, err)
		}

		ctx.Locals(LocalsAccessToken, token)
		ctx.Locals(LocalsUser, user)
		return ctx.Next()
	}
}

// AccessTokenFrom возвращает access токен запроса.
func AccessTokenFrom(ctx fiber.Ctx) string {
	token, _ := ctx.Locals(LocalsAccessToken).(string)
	return token
}

// UserFrom возвращает владельца access токена запроса.
func UserFrom(ctx fiber.Ctx) *client.User {
	user, _ := ctx.Locals(LocalsUser).(*client.User)
	return user
}
