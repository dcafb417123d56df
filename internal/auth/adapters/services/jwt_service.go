// Package services содержит реализации сервисов токенов и паролей.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tagnote/internal/auth/domain/services"
	svc "tagnote/internal/auth/ports/services"
	"tagnote/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateToken       = "generateToken"
	methodValidateAccessToken = "ValidateAccessToken"
	msgGeneratingToken        = "generating token"
	msgValidatingToken        = "validating token"
	msgTokenGenerated         = "token generated successfully"
	msgTokenValidated         = "token validated successfully"
	msgInvalidToken           = "invalid token format"
	msgTokenExpired           = "token has expired"
	msgEmptySecret            = "empty secret key provided"
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken       = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
	errCtxValidatingToken = "validating token"
)

// ErrInvalidAlgorithm ошибка неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims адаптирует доменные claims к библиотеке JWT.
type Claims struct {
	UserID string             `json:"user_id"`
	Type   services.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует svc.TokenService с подписью HS256.
type ServiceJWT struct {
	config services.JWTConfig
	now    func() time.Time
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration) *ServiceJWT {
	return &ServiceJWT{
		config: services.JWTConfig{
			SecretKey:       []byte(secretKey),
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
		},
		now: time.Now,
	}
}

var _ svc.TokenService = (*ServiceJWT)(nil)

func domainToJWTClaims(claims services.JWTClaims) Claims {
	return Claims{
		UserID: claims.UserID,
		Type:   claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			Subject:   claims.UserID,
		},
	}
}

// GenerateAccessToken генерирует JWT токен доступа.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID string) (string, time.Time, error) {
	return s.generateToken(ctx, userID, services.TokenTypeAccess, s.config.AccessTokenTTL)
}

// GenerateRefreshToken генерирует refresh токен с уникальным идентификатором.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	return s.generateToken(ctx, userID, services.TokenTypeRefresh, s.config.RefreshTokenTTL)
}

func (s *ServiceJWT) generateToken(ctx context.Context, userID string, typ services.TokenType, ttl time.Duration) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateToken),
		zap.String("type", string(typ)),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := s.now()
	expiresAt := now.Add(ttl)

	jwtClaims := domainToJWTClaims(services.JWTClaims{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims).SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// ValidateAccessToken проверяет access токен и возвращает ID пользователя.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateAccessToken))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.config.SecretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return "", fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != services.TokenTypeAccess {
		log.Debug(ctx, msgInvalidToken)
		return "", fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	if claims.UserID == "" {
		log.Debug(ctx, "user_id claim is empty")
		return "", fmt.Errorf("%s: %w: empty user_id", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.UserID))
	return claims.UserID, nil
}
