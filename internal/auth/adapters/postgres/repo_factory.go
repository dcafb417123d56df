package postgres

import (
	"tagnote/internal/auth/ports/repositories"
	"tagnote/pkg/db/postgres"
)

// RepositoryFactory создает репозитории домена аутентификации.
type RepositoryFactory struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool postgres.PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:  NewUserRepository(pool),
		tokenRepo: NewTokenRepository(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// TokenRepository возвращает репозиторий токенов.
func (f *RepositoryFactory) TokenRepository() repositories.TokenRepository {
	return f.tokenRepo
}
