// Package services содержит значения и ошибки домена аутентификации.
package services

import (
	"errors"
	"time"

	"tagnote/internal/auth/domain/entities"
)

// Ошибки домена аутентификации. Тексты показываются пользователю как есть.
var (
	ErrInvalidCredentials    = errors.New("Invalid login credentials")
	ErrEmailAlreadyExists    = errors.New("User already registered")
	ErrInvalidRefreshToken   = errors.New("Invalid Refresh Token: Refresh Token Not Found")
	ErrRevokedRefreshToken   = errors.New("Invalid Refresh Token: Already Used")
	ErrExpiredRefreshToken   = errors.New("Invalid Refresh Token: Expired")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// Session результат успешной аутентификации.
type Session struct {
	User         entities.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RefreshToken представляет сохраненный refresh-токен.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	IsRevoked bool
}
