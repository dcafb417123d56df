// Package entities содержит сущности домена аутентификации.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("Unable to validate email address: invalid format")
	ErrPasswordTooShort = errors.New("Password should be at least 6 characters")
	ErrPasswordTooWeak  = errors.New("Password should contain at least one letter and one digit")
	ErrUserNotFound     = errors.New("User not found")
)

// User представляет пользователя.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
