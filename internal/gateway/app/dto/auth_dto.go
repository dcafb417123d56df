// Package dto содержит тела запросов и ответов JSON API.
package dto

// CredentialsRequest данные для входа и регистрации.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest содержит refresh токен.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
