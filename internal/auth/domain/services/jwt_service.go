package services

import (
	"errors"
	"time"
)

// Ошибки JWT.
var (
	ErrInvalidJWTToken    = errors.New("Invalid JWT: unable to parse or verify signature")
	ErrExpiredJWTToken    = errors.New("JWT expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// TokenType различает access и refresh токены.
type TokenType string

// Типы токенов.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JWTConfig содержит настройки для JWT сервиса.
type JWTConfig struct {
	SecretKey       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// JWTClaims доменное представление claims токена.
type JWTClaims struct {
	ID        string
	UserID    string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}
