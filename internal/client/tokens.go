package client

import (
	"context"

	"tagnote/internal/resilience"
)

// TokenSource источник access токена для вызовов хранилища заметок.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken заранее известный access токен, например из заголовка Authorization.
type StaticToken string

// AccessToken возвращает токен.
func (t StaticToken) AccessToken(_ context.Context) (string, error) {
	if t == "" {
		return "", &Error{Op: OpAccessToken, Kind: KindUnauthorized, Message: MsgSessionMissing}
	}
	return string(t), nil
}

// TokenClient клиент провайдера аутентификации без состояния: токены хранит вызывающий.
type TokenClient struct {
	backend AuthBackend
	breaker *resilience.CircuitBreaker
}

// NewTokenClient создает TokenClient. breaker может быть nil.
func NewTokenClient(backend AuthBackend, breaker *resilience.CircuitBreaker) *TokenClient {
	return &TokenClient{backend: backend, breaker: breaker}
}

// SignUp регистрирует пользователя.
func (c *TokenClient) SignUp(ctx context.Context, email, password string) (*Tokens, error) {
	session, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		return nil, fail(ctx, OpSignUp, err)
	}
	return tokensFromSession(session), nil
}

// SignIn выполняет вход.
func (c *TokenClient) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	session, err := c.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, fail(ctx, OpSignIn, err)
	}
	return tokensFromSession(session), nil
}

// Refresh обменивает refresh токен на новую пару токенов.
func (c *TokenClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	var tokens *Tokens
	call := func() error {
		session, err := c.backend.Refresh(ctx, refreshToken)
		if err != nil {
			return err
		}
		tokens = tokensFromSession(session)
		return nil
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, fail(ctx, OpRefresh, err)
	}
	return tokens, nil
}

// SignOut отзывает refresh токен.
func (c *TokenClient) SignOut(ctx context.Context, refreshToken string) error {
	if err := c.backend.SignOut(ctx, refreshToken); err != nil {
		return fail(ctx, OpSignOut, err)
	}
	return nil
}

// User возвращает владельца access токена.
func (c *TokenClient) User(ctx context.Context, accessToken string) (*User, error) {
	user, err := c.backend.GetUser(ctx, accessToken)
	if err != nil {
		return nil, fail(ctx, OpCurrentUser, err)
	}
	return userFromEntity(user), nil
}
