// Package entities содержит сущности домена заметок.
package entities

import (
	"errors"
	"math"
	"time"
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound = errors.New("Note not found")
	ErrEmptyTitle   = errors.New("Note title must not be empty")
	ErrEmptyContent = errors.New("Note content must not be empty")
	ErrEmptyUpdate  = errors.New("Nothing to update")
	ErrInvalidPage  = errors.New("Page and page size must not be negative")
)

// Note заметка пользователя. Tags == nil означает отсутствие тегов.
// UpdatedAt == nil, пока заметка ни разу не редактировалась.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NoteUpdate частичное изменение заметки; nil поле не изменяется.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// IsEmpty сообщает, что изменение не затрагивает ни одного поля.
func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil
}

// ListFilter параметры выборки страницы заметок.
type ListFilter struct {
	Page     int
	PageSize int
	Tags     []string
}

// Offset возвращает смещение первой записи страницы.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// MaxPage наибольший номер страницы, смещение которой представимо в int.
func MaxPage(pageSize int) int {
	if pageSize <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / pageSize
}

// NotePage страница заметок с общим количеством по тому же фильтру.
type NotePage struct {
	Notes    []*Note
	Total    int
	Page     int
	PageSize int
}
