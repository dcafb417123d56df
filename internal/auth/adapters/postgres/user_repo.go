// Package postgres реализует хранилища домена аутентификации на Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tagnote/internal/auth/domain/entities"
	"tagnote/internal/auth/domain/services"
	"tagnote/internal/auth/ports/repositories"
	"tagnote/pkg/db/postgres"
	"tagnote/pkg/logger"
)

const (
	queryFindUserByID = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	queryFindUserByEmail = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	queryCreateUser = `
        INSERT INTO users (id, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, email, password_hash, created_at, updated_at
    `
)

// UserRepository реализует repositories.UserRepository для Postgres.
type UserRepository struct {
	pool postgres.PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool postgres.PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindUserByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindUserByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}

// Create создает нового пользователя. Если ID не задан, он генерируется.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}

	created, err := scanUser(r.pool.QueryRow(ctx, queryCreateUser, id, user.Email, user.PasswordHash))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			log.Debug(ctx, "email already registered", zap.String("email", user.Email))
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}
