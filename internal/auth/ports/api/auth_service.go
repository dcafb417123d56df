// Package api определяет входной порт провайдера аутентификации.
package api

import (
	"context"

	"tagnote/internal/auth/domain/entities"
	"tagnote/internal/auth/domain/services"
)

// AuthUseCase определяет операции провайдера аутентификации.
type AuthUseCase interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)

	SignIn(ctx context.Context, email, password string) (*services.Session, error)

	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)

	SignOut(ctx context.Context, refreshToken string) error

	GetUser(ctx context.Context, accessToken string) (*entities.User, error)

	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
