package services

import (
	"context"
	"time"
)

// TokenService определяет операции с JWT.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID string) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error)

	// ValidateAccessToken возвращает ID пользователя из действительного access токена.
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
