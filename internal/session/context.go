// Package session хранит состояние аутентификации браузерной сессии и реестр таких сессий.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/pkg/logger"
)

// State состояние сессии.
type State int

// Состояния сессии.
const (
	StateUnresolved State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Константы для логирования.
const (
	LogCurrentUserFailed = "failed to resolve current user"
)

// Auth операции провайдера аутентификации, которыми пользуется сессия.
type Auth interface {
	CurrentUser(ctx context.Context) (*client.User, error)
	SignIn(ctx context.Context, email, password string) (*client.User, error)
	SignUp(ctx context.Context, email, password string) (*client.User, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(cb func(client.Event)) func()
}

// Context состояние аутентификации одной браузерной сессии. Пользователь меняется
// только по уведомлениям провайдера; SignIn, SignUp и SignOut лишь делегируют вызов.
type Context struct {
	auth        Auth
	unsubscribe func()
	closeOnce   sync.Once

	mu      sync.RWMutex
	state   State
	user    *client.User
	version uint64
}

// Mount подписывается на изменения сессии и затем один раз запрашивает текущего
// пользователя. Уведомление, пришедшее до ответа на запрос, имеет приоритет.
func Mount(ctx context.Context, auth Auth) *Context {
	s := &Context{auth: auth, state: StateUnresolved}
	s.unsubscribe = auth.OnAuthStateChange(s.handle)

	s.mu.RLock()
	version := s.version
	s.mu.RUnlock()

	user, err := auth.CurrentUser(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogCurrentUserFailed, zap.Error(err))
		user = nil
	}

	s.mu.Lock()
	if s.version == version {
		s.apply(user)
	}
	s.mu.Unlock()

	return s
}

func (s *Context) handle(event client.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	if event.Type == client.EventSignedOut {
		s.apply(nil)
		return
	}
	s.apply(event.User)
}

func (s *Context) apply(user *client.User) {
	if user == nil {
		s.state = StateUnauthenticated
		s.user = nil
		return
	}
	u := *user
	s.state = StateAuthenticated
	s.user = &u
}

// Snapshot возвращает согласованную пару состояния и пользователя.
func (s *Context) Snapshot() (State, *client.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return s.state, nil
	}
	u := *s.user
	return s.state, &u
}

// Loading сообщает, что текущий пользователь еще не определен.
func (s *Context) Loading() bool {
	state, _ := s.Snapshot()
	return state == StateUnresolved
}

// User возвращает текущего пользователя или nil.
func (s *Context) User() *client.User {
	_, user := s.Snapshot()
	return user
}

// SignIn делегирует вход провайдеру.
func (s *Context) SignIn(ctx context.Context, email, password string) (*client.User, error) {
	return s.auth.SignIn(ctx, email, password)
}

// SignUp делегирует регистрацию провайдеру.
func (s *Context) SignUp(ctx context.Context, email, password string) (*client.User, error) {
	return s.auth.SignUp(ctx, email, password)
}

// SignOut делегирует выход провайдеру.
func (s *Context) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

// Close отписывается от уведомлений. Повторные вызовы ничего не делают.
func (s *Context) Close() {
	s.closeOnce.Do(s.unsubscribe)
}
