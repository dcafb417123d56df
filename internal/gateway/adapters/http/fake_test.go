package http_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	authentities "tagnote/internal/auth/domain/entities"
	authservices "tagnote/internal/auth/domain/services"
	notesentities "tagnote/internal/notes/domain/entities"
)

// memoryBackend провайдер аутентификации и хранилище заметок в памяти.
type memoryBackend struct {
	mu        sync.Mutex
	seq       int
	passwords map[string]string
	users     map[string]authentities.User
	access    map[string]string
	refresh   map[string]string
	notes     []*notesentities.Note
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		passwords: make(map[string]string),
		users:     make(map[string]authentities.User),
		access:    make(map[string]string),
		refresh:   make(map[string]string),
	}
}

func (b *memoryBackend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

func (b *memoryBackend) issue(user authentities.User) *authservices.Session {
	access, refresh := b.nextID("access"), b.nextID("refresh")
	b.access[access] = user.ID
	b.refresh[refresh] = user.ID
	return &authservices.Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func (b *memoryBackend) SignUp(_ context.Context, email, password string) (*authservices.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.passwords[email]; ok {
		return nil, authservices.ErrEmailAlreadyExists
	}
	user := authentities.User{ID: b.nextID("user"), Email: email}
	b.passwords[email] = password
	b.users[user.ID] = user
	return b.issue(user), nil
}

func (b *memoryBackend) SignIn(_ context.Context, email, password string) (*authservices.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if stored, ok := b.passwords[email]; !ok || stored != password {
		return nil, authservices.ErrInvalidCredentials
	}
	for _, user := range b.users {
		if user.Email == email {
			return b.issue(user), nil
		}
	}
	return nil, authservices.ErrInvalidCredentials
}

func (b *memoryBackend) Refresh(_ context.Context, refreshToken string) (*authservices.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.refresh[refreshToken]
	if !ok {
		return nil, authservices.ErrInvalidRefreshToken
	}
	delete(b.refresh, refreshToken)
	return b.issue(b.users[userID]), nil
}

func (b *memoryBackend) SignOut(_ context.Context, refreshToken string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.refresh[refreshToken]; !ok {
		return authservices.ErrInvalidRefreshToken
	}
	delete(b.refresh, refreshToken)
	return nil
}

func (b *memoryBackend) GetUser(_ context.Context, accessToken string) (*authentities.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.access[accessToken]
	if !ok {
		return nil, authservices.ErrInvalidJWTToken
	}
	user := b.users[userID]
	return &user, nil
}

func (b *memoryBackend) caller(token string) (string, error) {
	userID, ok := b.access[token]
	if !ok {
		return "", authservices.ErrInvalidJWTToken
	}
	return userID, nil
}

func (b *memoryBackend) ListNotes(_ context.Context, token, userID string, f notesentities.ListFilter) (*notesentities.NotePage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return nil, err
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = 3
	}

	var matched []*notesentities.Note
	for i := len(b.notes) - 1; i >= 0; i-- {
		n := b.notes[i]
		if n.UserID != caller || n.UserID != userID {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(n.Tags, func(t string) bool { return slices.Contains(f.Tags, t) }) {
			continue
		}
		matched = append(matched, n)
	}

	page := &notesentities.NotePage{Total: len(matched), Page: f.Page, PageSize: f.PageSize}
	start := min(f.Offset(), len(matched))
	end := min(start+f.PageSize, len(matched))
	page.Notes = matched[start:end]
	return page, nil
}

func (b *memoryBackend) find(caller, noteID string) (int, error) {
	idx := slices.IndexFunc(b.notes, func(n *notesentities.Note) bool {
		return n.ID == noteID && n.UserID == caller
	})
	if idx < 0 {
		return -1, notesentities.ErrNoteNotFound
	}
	return idx, nil
}

func (b *memoryBackend) GetNote(_ context.Context, token, noteID string) (*notesentities.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return nil, err
	}
	idx, err := b.find(caller, noteID)
	if err != nil {
		return nil, err
	}
	return b.notes[idx], nil
}

func (b *memoryBackend) UserTags(_ context.Context, token, userID string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, n := range b.notes {
		if n.UserID == caller && n.UserID == userID {
			all = append(all, n.Tags...)
		}
	}
	return notesentities.DistinctTags(all), nil
}

func (b *memoryBackend) CreateNote(_ context.Context, token string, note notesentities.Note) (*notesentities.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return nil, err
	}
	if note.Title == "" {
		return nil, notesentities.ErrEmptyTitle
	}
	note.ID = b.nextID("note")
	note.UserID = caller
	note.CreatedAt = time.Now()
	b.notes = append(b.notes, &note)
	return &note, nil
}

func (b *memoryBackend) UpdateNote(_ context.Context, token, noteID string, update notesentities.NoteUpdate) (*notesentities.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return nil, err
	}
	idx, err := b.find(caller, noteID)
	if err != nil {
		return nil, err
	}
	updated := *b.notes[idx]
	if update.Title != nil {
		updated.Title = *update.Title
	}
	if update.Content != nil {
		updated.Content = *update.Content
	}
	if update.Tags != nil {
		updated.Tags = *update.Tags
	}
	now := updated.CreatedAt.Add(time.Hour)
	updated.UpdatedAt = &now
	b.notes[idx] = &updated
	return &updated, nil
}

func (b *memoryBackend) DeleteNote(_ context.Context, token, noteID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	caller, err := b.caller(token)
	if err != nil {
		return err
	}
	idx, err := b.find(caller, noteID)
	if err != nil {
		return err
	}
	b.notes = slices.Delete(b.notes, idx, idx+1)
	return nil
}
