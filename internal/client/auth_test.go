package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authentities "tagnote/internal/auth/domain/entities"
	authservices "tagnote/internal/auth/domain/services"
	"tagnote/internal/cache"
	"tagnote/internal/client"
	"tagnote/internal/resilience"
	"tagnote/pkg/logger"
)

const (
	userID    = "11111111-1111-1111-1111-111111111111"
	userEmail = "a@b.com"
	browserID = "sid-1"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), log)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newSession(access, refresh string, expiresAt time.Time) *authservices.Session {
	return &authservices.Session{
		User:         authentities.User{ID: userID, Email: userEmail},
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}
}

type recorder struct {
	mu     sync.Mutex
	events []client.Event
}

func (r *recorder) record(e client.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []client.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]client.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newStore(t *testing.T) client.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return client.NewCacheSessionStore(cache.NewRedisCache(rdb, "test:", time.Hour), time.Hour)
}

type authFixture struct {
	backend *mockAuthBackend
	store   client.SessionStore
	clock   *testClock
	breaker *resilience.CircuitBreaker
	events  *recorder
	auth    *client.AuthClient
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		backend: new(mockAuthBackend),
		store:   newStore(t),
		clock:   &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		events:  &recorder{},
	}
	f.breaker = resilience.NewCircuitBreaker("auth", resilience.CircuitBreakerConfig{
		ErrorThreshold: 1,
		Timeout:        time.Hour,
		IsFailure:      client.IsBackendFailure,
	}).WithClock(f.clock.now)
	f.auth = f.newClient()
	f.auth.OnAuthStateChange(f.events.record)
	return f
}

func (f *authFixture) newClient() *client.AuthClient {
	return client.NewAuthClient(browserID, f.backend, client.AuthOptions{
		Store:         f.store,
		Breaker:       f.breaker,
		RefreshMargin: time.Minute,
		Now:           f.clock.now,
	})
}

func (f *authFixture) signIn(t *testing.T, ctx context.Context, expiresIn time.Duration) {
	t.Helper()
	f.backend.On("SignIn", mock.Anything, userEmail, "secret1").
		Return(newSession("access-1", "refresh-1", f.clock.now().Add(expiresIn)), nil).Once()
	_, err := f.auth.SignIn(ctx, userEmail, "secret1")
	require.NoError(t, err)
}

func TestAuthClientSignIn(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)

	f.signIn(t, ctx, 15*time.Minute)

	assert.Equal(t, []client.EventType{client.EventSignedIn}, f.events.types())
	assert.Equal(t, userEmail, f.events.events[0].User.Email)

	token, err := f.auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	f.backend.AssertExpectations(t)
}

func TestAuthClientSignInFailure(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.backend.On("SignIn", mock.Anything, userEmail, "wrong").Return(nil, authservices.ErrInvalidCredentials)

	user, err := f.auth.SignIn(ctx, userEmail, "wrong")

	assert.Nil(t, user)
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindUnauthorized))
	assert.Equal(t, "Invalid login credentials", err.Error())
	assert.Empty(t, f.events.types())
}

func TestAuthClientPersistsSession(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)

	restored := f.newClient()
	token, err := restored.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
}

func TestAuthClientRefreshesNearExpiry(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)

	f.clock.advance(14*time.Minute + 30*time.Second)
	f.backend.On("Refresh", mock.Anything, "refresh-1").
		Return(newSession("access-2", "refresh-2", f.clock.now().Add(15*time.Minute)), nil).Once()

	token, err := f.auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	assert.Equal(t, []client.EventType{client.EventSignedIn, client.EventTokenRefreshed}, f.events.types())

	token, err = f.auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	f.backend.AssertExpectations(t)
}

func TestAuthClientRejectedRefreshSignsOut(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, time.Minute)

	f.clock.advance(2 * time.Minute)
	f.backend.On("Refresh", mock.Anything, "refresh-1").Return(nil, authservices.ErrRevokedRefreshToken).Once()

	_, err := f.auth.AccessToken(ctx)
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindUnauthorized))
	assert.Equal(t, []client.EventType{client.EventSignedIn, client.EventSignedOut}, f.events.types())
	assert.Equal(t, resilience.StateClosed, f.breaker.GetState())

	stored, err := f.store.Load(ctx, browserID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthClientTransportFailureKeepsSession(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)

	f.clock.advance(14*time.Minute + 30*time.Second)
	f.backend.On("Refresh", mock.Anything, "refresh-1").Return(nil, errors.New("connection refused")).Once()

	token, err := f.auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, resilience.StateOpen, f.breaker.GetState())

	f.clock.advance(time.Minute)
	_, err = f.auth.AccessToken(ctx)
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindTransport))
	assert.Equal(t, client.MsgServiceUnavailable, err.Error())
	assert.Equal(t, []client.EventType{client.EventSignedIn}, f.events.types())
	f.backend.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestAuthClientSignOut(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)
	f.backend.On("SignOut", mock.Anything, "refresh-1").Return(authservices.ErrInvalidRefreshToken).Once()

	require.NoError(t, f.auth.SignOut(ctx))
	assert.Equal(t, []client.EventType{client.EventSignedIn, client.EventSignedOut}, f.events.types())

	_, err := f.auth.AccessToken(ctx)
	assert.True(t, client.IsKind(err, client.KindUnauthorized))

	require.NoError(t, f.auth.SignOut(ctx))
	f.backend.AssertNumberOfCalls(t, "SignOut", 1)
}

func TestAuthClientSignOutTransportError(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)
	f.backend.On("SignOut", mock.Anything, "refresh-1").Return(errors.New("timeout")).Once()

	err := f.auth.SignOut(ctx)
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindTransport))
	assert.Equal(t, []client.EventType{client.EventSignedIn, client.EventSignedOut}, f.events.types())
}

func TestAuthClientCurrentUser(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)

	user, err := f.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	f.signIn(t, ctx, 15*time.Minute)
	f.backend.On("GetUser", mock.Anything, "access-1").
		Return(&authentities.User{ID: userID, Email: userEmail}, nil).Once()

	user, err = f.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, &client.User{ID: userID, Email: userEmail}, user)
}

func TestAuthClientCurrentUserRejected(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	f.signIn(t, ctx, 15*time.Minute)
	f.backend.On("GetUser", mock.Anything, "access-1").Return(nil, authentities.ErrUserNotFound).Once()

	user, err := f.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, []client.EventType{client.EventSignedIn, client.EventSignedOut}, f.events.types())
}

func TestAuthClientUnsubscribe(t *testing.T) {
	ctx := testContext(t)
	f := newAuthFixture(t)
	other := &recorder{}
	unsubscribe := f.auth.OnAuthStateChange(other.record)

	unsubscribe()
	unsubscribe()
	f.signIn(t, ctx, 15*time.Minute)

	assert.Empty(t, other.types())
	assert.Equal(t, []client.EventType{client.EventSignedIn}, f.events.types())
}

func TestTokenClient(t *testing.T) {
	ctx := testContext(t)
	backend := new(mockAuthBackend)
	tokens := client.NewTokenClient(backend, nil)
	expires := time.Now().Add(time.Hour)

	backend.On("SignUp", mock.Anything, userEmail, "secret1").Return(newSession("a", "r", expires), nil)
	backend.On("Refresh", mock.Anything, "r").Return(newSession("a2", "r2", expires), nil)
	backend.On("GetUser", mock.Anything, "a2").Return(&authentities.User{ID: userID, Email: userEmail}, nil)
	backend.On("SignOut", mock.Anything, "r2").Return(nil)

	issued, err := tokens.SignUp(ctx, userEmail, "secret1")
	require.NoError(t, err)
	assert.Equal(t, "r", issued.RefreshToken)

	refreshed, err := tokens.Refresh(ctx, issued.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "a2", refreshed.AccessToken)

	user, err := tokens.User(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	require.NoError(t, tokens.SignOut(ctx, refreshed.RefreshToken))
	backend.AssertExpectations(t)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := client.NewMemorySessionStore()

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, "k", &client.StoredSession{AccessToken: "a"}))
	got, err = store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)

	require.NoError(t, store.Delete(ctx, "k"))
	got, err = store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
