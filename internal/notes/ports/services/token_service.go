// Package services определяет порты внешних сервисов домена заметок.
package services

import "context"

// TokenService проверяет access токены провайдера аутентификации.
type TokenService interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
