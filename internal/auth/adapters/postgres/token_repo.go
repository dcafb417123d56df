package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tagnote/internal/auth/domain/services"
	"tagnote/internal/auth/ports/repositories"
	"tagnote/pkg/db/postgres"
	"tagnote/pkg/logger"
)

const (
	queryFindToken = `
        SELECT id, user_id, token, expires_at, created_at, is_revoked
        FROM refresh_tokens
        WHERE token = $1
    `
	queryStoreToken = `
        INSERT INTO refresh_tokens (id, user_id, token, expires_at, is_revoked)
        VALUES ($1, $2, $3, $4, $5)
    `
	queryRevokeToken = `
        UPDATE refresh_tokens
        SET is_revoked = true
        WHERE token = $1 AND is_revoked = false
    `
	queryCleanupTokens = `
        DELETE FROM refresh_tokens
        WHERE expires_at < NOW() OR is_revoked = true
    `
)

// TokenRepository реализует repositories.TokenRepository для Postgres.
type TokenRepository struct {
	pool postgres.PgxPoolInterface
}

// NewTokenRepository создает новый экземпляр репозитория токенов.
func NewTokenRepository(pool postgres.PgxPoolInterface) repositories.TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByToken находит токен по его значению.
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*services.RefreshToken, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "FindByToken"))

	var refreshToken services.RefreshToken
	err := r.pool.QueryRow(ctx, queryFindToken, token).Scan(
		&refreshToken.ID,
		&refreshToken.UserID,
		&refreshToken.Token,
		&refreshToken.ExpiresAt,
		&refreshToken.CreatedAt,
		&refreshToken.IsRevoked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "token not found")
			return nil, services.ErrInvalidRefreshToken
		}
		log.Error(ctx, "error finding refresh token", zap.Error(err))
		return nil, fmt.Errorf("error querying refresh token: %w", err)
	}

	return &refreshToken, nil
}

// StoreRefreshToken сохраняет новый refresh токен.
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "StoreRefreshToken"))

	id := token.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := r.pool.Exec(ctx, queryStoreToken,
		id,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.IsRevoked,
	); err != nil {
		log.Error(ctx, "error storing refresh token", zap.Error(err))
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// RevokeToken отзывает действующий refresh токен.
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "RevokeToken"))

	result, err := r.pool.Exec(ctx, queryRevokeToken, token)
	if err != nil {
		log.Error(ctx, "error revoking refresh token", zap.Error(err))
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "token not found for revocation")
		return services.ErrInvalidRefreshToken
	}

	return nil
}

// CleanupExpiredTokens удаляет просроченные и отозванные токены.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "CleanupExpiredTokens"))

	result, err := r.pool.Exec(ctx, queryCleanupTokens)
	if err != nil {
		log.Error(ctx, "error cleaning up expired tokens", zap.Error(err))
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}

	log.Info(ctx, "expired tokens cleaned up", zap.Int64("removed_count", result.RowsAffected()))
	return result.RowsAffected(), nil
}
