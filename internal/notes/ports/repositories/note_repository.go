// Package repositories определяет порты хранения заметок.
package repositories

import (
	"context"

	"tagnote/internal/notes/domain/entities"
)

// NoteRepository определяет операции хранения заметок. Все операции ограничены владельцем userID.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, userID, noteID string) (*entities.Note, error)
	List(ctx context.Context, userID string, filter entities.ListFilter) ([]*entities.Note, int, error)
	UserTags(ctx context.Context, userID string) ([]string, error)
	Update(ctx context.Context, userID, noteID string, update entities.NoteUpdate) (*entities.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}
