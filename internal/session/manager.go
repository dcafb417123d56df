package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tagnote/internal/authform"
	"tagnote/internal/client"
	"tagnote/internal/profile"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogSessionCreated  = "browser session created"
	LogSessionsExpired = "idle browser sessions expired"
	LogJanitorStopped  = "session janitor stopped"
	LogStoreLookup     = "failed to look up persisted session"
)

// Значения по умолчанию.
const (
	DefaultIdleTTL         = 30 * time.Minute
	DefaultJanitorInterval = time.Minute
)

// ClientFactory создает клиентов браузерных сессий.
type ClientFactory interface {
	New(key string) *client.Client
}

// Entry состояние одной браузерной сессии.
type Entry struct {
	ID      string
	Session *Context
	Client  *client.Client
	Form    *authform.Form

	pageSize int

	mu       sync.Mutex
	page     *profile.Page
	lastSeen time.Time
}

// Profile возвращает страницу заметок пользователя user. Страница создается заново,
// если ее еще нет или пользователь сменился; created сообщает об этом.
func (e *Entry) Profile(user *client.User) (page *profile.Page, created bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page != nil && e.page.UserID() == user.ID {
		return e.page, false
	}
	e.page = profile.New(e.Client.Notes, user.ID, e.pageSize)
	return e.page, true
}

// ResetProfile забывает страницу заметок, например после выхода.
func (e *Entry) ResetProfile() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page = nil
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = now
}

func (e *Entry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastSeen)
}

// Options настройки Manager. Store, если задан, позволяет признать идентификатор
// сессии, сохраненной до перезапуска.
type Options struct {
	IdleTTL         time.Duration
	JanitorInterval time.Duration
	PageSize        int
	Store           client.SessionStore
	Now             func() time.Time
}

// Manager реестр браузерных сессий по идентификатору из cookie.
type Manager struct {
	factory ClientFactory
	opts    Options

	mu      sync.Mutex
	entries map[string]*Entry
	closed  bool

	startOnce sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewManager создает реестр.
func NewManager(factory ClientFactory, opts Options) *Manager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = DefaultJanitorInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		factory: factory,
		opts:    opts,
		entries: make(map[string]*Entry),
		stop:    make(chan struct{}),
	}
}

// NewID возвращает новый идентификатор браузерной сессии.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Known сообщает, что id выдан этим сервером: сессия есть в реестре или в хранилище.
func (m *Manager) Known(ctx context.Context, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	if _, ok := m.Lookup(id); ok {
		return true
	}
	if m.opts.Store == nil {
		return false
	}
	stored, err := m.opts.Store.Load(ctx, id)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogStoreLookup, zap.Error(err))
		return false
	}
	return stored != nil
}

// Get возвращает сессию id, создавая и монтируя ее при первом обращении.
func (m *Manager) Get(ctx context.Context, id string) *Entry {
	now := m.opts.Now()

	m.mu.Lock()
	if e, ok := m.entries[id]; ok {
		m.mu.Unlock()
		e.touch(now)
		return e
	}
	m.mu.Unlock()

	c := m.factory.New(id)
	sess := Mount(ctx, c.Auth)
	e := &Entry{
		ID:       id,
		Session:  sess,
		Client:   c,
		Form:     authform.New(sess),
		pageSize: m.opts.PageSize,
		lastSeen: now,
	}

	m.mu.Lock()
	if existing, ok := m.entries[id]; ok {
		m.mu.Unlock()
		sess.Close()
		existing.touch(now)
		return existing
	}
	if m.closed {
		m.mu.Unlock()
		sess.Close()
		return e
	}
	m.entries[id] = e
	m.mu.Unlock()

	state, _ := sess.Snapshot()
	logger.Log(ctx).Debug(ctx, LogSessionCreated, zap.Stringer("state", state))
	return e
}

// Lookup возвращает существующую сессию id.
func (m *Manager) Lookup(id string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

// Remove удаляет сессию id и освобождает ее подписку.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if ok {
		e.Session.Close()
	}
}

// Len возвращает количество сессий.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep удаляет сессии, простаивающие дольше IdleTTL, и возвращает их количество.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.opts.Now()

	m.mu.Lock()
	var expired []*Entry
	for id, e := range m.entries {
		if e.idleSince(now) >= m.opts.IdleTTL {
			expired = append(expired, e)
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()

	for _, e := range expired {
		e.Session.Close()
	}
	if len(expired) > 0 {
		logger.Log(ctx).Debug(ctx, LogSessionsExpired, zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Start запускает периодическую очистку простаивающих сессий.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.wg.Add(1)
		go m.janitor(ctx)
	})
}

func (m *Manager) janitor(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.opts.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log(ctx).Debug(ctx, LogJanitorStopped)
			return
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Close останавливает очистку и закрывает все сессии.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()

		m.mu.Lock()
		entries := m.entries
		m.entries = make(map[string]*Entry)
		m.closed = true
		m.mu.Unlock()

		for _, e := range entries {
			e.Session.Close()
		}
	})
}
