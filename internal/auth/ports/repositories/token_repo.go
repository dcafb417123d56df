// Package repositories определяет порты хранения домена аутентификации.
package repositories

import (
	"context"

	"tagnote/internal/auth/domain/services"
)

// TokenRepository определяет операции хранения refresh-токенов.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error

	FindByToken(ctx context.Context, token string) (*services.RefreshToken, error)

	RevokeToken(ctx context.Context, token string) error

	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
