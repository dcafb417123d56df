package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	authservices "tagnote/internal/auth/domain/services"
	"tagnote/internal/resilience"
	"tagnote/pkg/logger"
)

// Имена операций.
const (
	OpSignUp      = "signUp"
	OpSignIn      = "signIn"
	OpSignOut     = "signOut"
	OpRefresh     = "refreshSession"
	OpCurrentUser = "getCurrentUser"
	OpAccessToken = "getAccessToken"
)

// Константы для логирования.
const (
	LogSessionLoadFailed   = "failed to load persisted session"
	LogSessionSaveFailed   = "failed to persist session"
	LogSessionDeleteFailed = "failed to delete persisted session"
	LogRefreshFallback     = "token refresh failed, using current access token"
	LogSessionRefreshed    = "session refreshed"
)

// DefaultRefreshMargin интервал до истечения access токена, в котором он обновляется.
const DefaultRefreshMargin = time.Minute

// EventType тип изменения состояния аутентификации.
type EventType string

// Типы событий.
const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event изменение состояния аутентификации. User == nil для EventSignedOut.
type Event struct {
	Type EventType
	User *User
}

// AuthOptions настройки AuthClient.
type AuthOptions struct {
	// Store хранилище сессий; nil отключает сохранение.
	Store SessionStore
	// Breaker защищает обновление токенов; может быть nil.
	Breaker       *resilience.CircuitBreaker
	RefreshMargin time.Duration
	Now           func() time.Time
}

// AuthClient клиент провайдера аутентификации для одной браузерной сессии.
// Безопасен для конкурентного использования.
type AuthClient struct {
	key     string
	backend AuthBackend
	store   SessionStore
	breaker *resilience.CircuitBreaker
	margin  time.Duration
	now     func() time.Time

	mu      sync.Mutex
	loaded  bool
	session *StoredSession

	refreshMu sync.Mutex

	listenersMu sync.Mutex
	listeners   map[uint64]func(Event)
	nextID      uint64
}

// NewAuthClient создает клиент для браузерной сессии key.
func NewAuthClient(key string, backend AuthBackend, opts AuthOptions) *AuthClient {
	if opts.RefreshMargin <= 0 {
		opts.RefreshMargin = DefaultRefreshMargin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthClient{
		key:       key,
		backend:   backend,
		store:     opts.Store,
		breaker:   opts.Breaker,
		margin:    opts.RefreshMargin,
		now:       opts.Now,
		listeners: make(map[uint64]func(Event)),
	}
}

// Key возвращает ключ браузерной сессии.
func (c *AuthClient) Key() string {
	return c.key
}

// SignUp регистрирует пользователя и сразу открывает для него сессию.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	session, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		return nil, fail(ctx, OpSignUp, err)
	}
	return c.signedIn(ctx, session), nil
}

// SignIn открывает сессию по email и паролю.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*User, error) {
	session, err := c.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, fail(ctx, OpSignIn, err)
	}
	return c.signedIn(ctx, session), nil
}

func (c *AuthClient) signedIn(ctx context.Context, session *authservices.Session) *User {
	stored := storedFromSession(session)
	c.setSession(ctx, stored)
	user := stored.User
	c.emit(Event{Type: EventSignedIn, User: &user})
	return &user
}

// SignOut завершает сессию. Локальное состояние очищается в любом случае;
// отказ провайдера из-за уже недействительной сессии ошибкой не считается.
func (c *AuthClient) SignOut(ctx context.Context) error {
	session := c.current(ctx)
	if session == nil {
		return nil
	}

	err := c.backend.SignOut(ctx, session.RefreshToken)
	c.end(ctx)

	if err != nil {
		e := fail(ctx, OpSignOut, err)
		if e.Kind == KindUnauthorized {
			return nil
		}
		return e
	}
	return nil
}

// CurrentUser возвращает пользователя сессии или nil, если сессии нет.
// Сессия, отвергнутая провайдером, завершается.
func (c *AuthClient) CurrentUser(ctx context.Context) (*User, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		if IsKind(err, KindUnauthorized) {
			return nil, nil
		}
		return nil, err
	}

	user, err := c.backend.GetUser(ctx, token)
	if err != nil {
		e := fail(ctx, OpCurrentUser, err)
		if e.Kind == KindUnauthorized {
			c.end(ctx)
			return nil, nil
		}
		return nil, e
	}
	return userFromEntity(user), nil
}

// AccessToken возвращает действующий access токен, при необходимости обновляя сессию.
func (c *AuthClient) AccessToken(ctx context.Context) (string, error) {
	session := c.current(ctx)
	if session == nil {
		return "", &Error{Op: OpAccessToken, Kind: KindUnauthorized, Message: MsgSessionMissing}
	}
	if c.fresh(session) {
		return session.AccessToken, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	session = c.current(ctx)
	if session == nil {
		return "", &Error{Op: OpAccessToken, Kind: KindUnauthorized, Message: MsgSessionMissing}
	}
	if c.fresh(session) {
		return session.AccessToken, nil
	}

	var refreshed *authservices.Session
	call := func() error {
		var err error
		refreshed, err = c.backend.Refresh(ctx, session.RefreshToken)
		return err
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
	} else {
		err = call()
	}
	if err != nil {
		e := fail(ctx, OpRefresh, err)
		if e.Kind == KindUnauthorized {
			c.end(ctx)
			return "", e
		}
		if c.now().Before(session.ExpiresAt) {
			logger.Log(ctx).Debug(ctx, LogRefreshFallback, zap.String("message", e.Message))
			return session.AccessToken, nil
		}
		return "", e
	}

	stored := storedFromSession(refreshed)
	c.setSession(ctx, stored)
	logger.Log(ctx).Debug(ctx, LogSessionRefreshed, zap.String("userID", stored.User.ID))

	user := stored.User
	c.emit(Event{Type: EventTokenRefreshed, User: &user})
	return stored.AccessToken, nil
}

// OnAuthStateChange регистрирует обработчик изменений сессии. Возвращает функцию отписки;
// повторный вызов отписки ничего не делает. Обработчики вызываются вне блокировок клиента.
func (c *AuthClient) OnAuthStateChange(cb func(Event)) func() {
	c.listenersMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = cb
	c.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			delete(c.listeners, id)
			c.listenersMu.Unlock()
		})
	}
}

func (c *AuthClient) emit(event Event) {
	c.listenersMu.Lock()
	listeners := make([]func(Event), 0, len(c.listeners))
	for _, cb := range c.listeners {
		listeners = append(listeners, cb)
	}
	c.listenersMu.Unlock()

	for _, cb := range listeners {
		cb(event)
	}
}

func (c *AuthClient) fresh(session *StoredSession) bool {
	return c.now().Add(c.margin).Before(session.ExpiresAt)
}

func (c *AuthClient) current(ctx context.Context) *StoredSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if c.store != nil {
			stored, err := c.store.Load(ctx, c.key)
			if err != nil {
				logger.Log(ctx).Warn(ctx, LogSessionLoadFailed, zap.Error(err))
				return nil
			}
			c.session = stored
		}
		c.loaded = true
	}

	if c.session == nil {
		return nil
	}
	session := *c.session
	return &session
}

func (c *AuthClient) setSession(ctx context.Context, session *StoredSession) {
	c.mu.Lock()
	c.session = session
	c.loaded = true
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, c.key, session); err != nil {
			logger.Log(ctx).Warn(ctx, LogSessionSaveFailed, zap.Error(err))
		}
	}
}

// end очищает сессию и уведомляет подписчиков, если сессия была.
func (c *AuthClient) end(ctx context.Context) {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	c.loaded = true
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(ctx, c.key); err != nil {
			logger.Log(ctx).Warn(ctx, LogSessionDeleteFailed, zap.Error(err))
		}
	}
	if had {
		c.emit(Event{Type: EventSignedOut})
	}
}

func storedFromSession(s *authservices.Session) *StoredSession {
	tokens := tokensFromSession(s)
	return &StoredSession{
		User:         tokens.User,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}
}
