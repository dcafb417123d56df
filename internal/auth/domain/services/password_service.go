package services

import (
	"errors"
)

// Ошибки паролей.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// MinPasswordLength минимальная длина пароля.
const MinPasswordLength = 6
