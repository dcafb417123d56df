package services

import (
	"time"

	"tagnote/internal/auth/ports/services"
)

// ServiceFactory создает сервисы паролей и токенов.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    *ServiceJWT
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(
	jwtSecretKey string,
	accessTokenTTL, refreshTokenTTL time.Duration,
	bcryptCost int,
) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(jwtSecretKey, accessTokenTTL, refreshTokenTTL),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() *ServiceJWT {
	return f.tokenService
}
