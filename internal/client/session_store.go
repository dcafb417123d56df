package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tagnote/internal/cache"
)

const sessionKeyPrefix = "session:"

// StoredSession состояние сессии, сохраняемое между перезапусками.
type StoredSession struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionStore хранилище сессий. Load для отсутствующей сессии возвращает nil, nil.
type SessionStore interface {
	Load(ctx context.Context, key string) (*StoredSession, error)
	Save(ctx context.Context, key string, session *StoredSession) error
	Delete(ctx context.Context, key string) error
}

// CacheSessionStore хранит сессии в кэше.
type CacheSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheSessionStore создает хранилище сессий поверх кэша.
func NewCacheSessionStore(c cache.Cache, ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{cache: c, ttl: ttl}
}

// Load загружает сессию.
func (s *CacheSessionStore) Load(ctx context.Context, key string) (*StoredSession, error) {
	var session StoredSession
	found, err := cache.GetJSON(ctx, s.cache, sessionKeyPrefix+key, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

// Save сохраняет сессию.
func (s *CacheSessionStore) Save(ctx context.Context, key string, session *StoredSession) error {
	if err := cache.SetJSON(ctx, s.cache, sessionKeyPrefix+key, session, s.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete удаляет сессию.
func (s *CacheSessionStore) Delete(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemorySessionStore хранит сессии в памяти процесса.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]StoredSession
}

// NewMemorySessionStore создает пустое хранилище.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]StoredSession)}
}

// Load загружает сессию.
func (s *MemorySessionStore) Load(_ context.Context, key string) (*StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// Save сохраняет сессию.
func (s *MemorySessionStore) Save(_ context.Context, key string, session *StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = *session
	return nil
}

// Delete удаляет сессию.
func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}
