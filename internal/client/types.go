// Package client реализует слой доступа к данным: клиент провайдера аутентификации
// и клиент хранилища заметок, которыми пользуется веб-интерфейс.
package client

import (
	"context"
	"time"

	authentities "tagnote/internal/auth/domain/entities"
	authservices "tagnote/internal/auth/domain/services"
	notesentities "tagnote/internal/notes/domain/entities"
)

// AuthBackend провайдер аутентификации.
type AuthBackend interface {
	SignUp(ctx context.Context, email, password string) (*authservices.Session, error)
	SignIn(ctx context.Context, email, password string) (*authservices.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*authservices.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, accessToken string) (*authentities.User, error)
}

// NotesBackend хранилище заметок. Каждая операция выполняется от имени владельца токена.
type NotesBackend interface {
	ListNotes(ctx context.Context, token, userID string, filter notesentities.ListFilter) (*notesentities.NotePage, error)
	GetNote(ctx context.Context, token, noteID string) (*notesentities.Note, error)
	UserTags(ctx context.Context, token, userID string) ([]string, error)
	CreateNote(ctx context.Context, token string, note notesentities.Note) (*notesentities.Note, error)
	UpdateNote(ctx context.Context, token, noteID string, update notesentities.NoteUpdate) (*notesentities.Note, error)
	DeleteNote(ctx context.Context, token, noteID string) error
}

// User аутентифицированный пользователь.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Note заметка. Tags == nil означает отсутствие тегов.
type Note struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Edited сообщает, что заметка изменялась после создания.
func (n *Note) Edited() bool {
	return n.UpdatedAt != nil && !n.UpdatedAt.Equal(n.CreatedAt)
}

// NotesPage страница заметок и общее количество заметок по тому же фильтру.
type NotesPage struct {
	Notes    []*Note `json:"notes"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// NewNote данные создаваемой заметки.
type NewNote struct {
	UserID  string
	Title   string
	Content string
	Tags    []string
}

// NoteChanges частичное изменение заметки; nil поле не изменяется.
type NoteChanges struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// Tokens токены сессии, выданные провайдером.
type Tokens struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func userFromEntity(u *authentities.User) *User {
	return &User{ID: u.ID, Email: u.Email}
}

func tokensFromSession(s *authservices.Session) *Tokens {
	return &Tokens{
		User:         *userFromEntity(&s.User),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}
}

func noteFromEntity(n *notesentities.Note) *Note {
	return &Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func pageFromEntity(p *notesentities.NotePage) *NotesPage {
	notes := make([]*Note, 0, len(p.Notes))
	for _, n := range p.Notes {
		notes = append(notes, noteFromEntity(n))
	}
	return &NotesPage{Notes: notes, Total: p.Total, Page: p.Page, PageSize: p.PageSize}
}
