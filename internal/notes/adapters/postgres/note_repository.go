// Package postgres реализует хранилище заметок на Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/pkg/db/postgres"
	"tagnote/pkg/logger"
)

const noteColumns = "id, user_id, title, content, tags, created_at, updated_at"

const (
	queryInsertNote = `
        INSERT INTO notes (id, user_id, title, content, tags)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + noteColumns
	queryGetNote = `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE id = $1 AND user_id = $2`
	queryCountNotes       = `SELECT COUNT(*) FROM notes WHERE user_id = $1`
	queryCountTaggedNotes = `SELECT COUNT(*) FROM notes WHERE user_id = $1 AND tags && $2::text[]`
	queryListNotes        = `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	queryListTaggedNotes = `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE user_id = $1 AND tags && $2::text[]
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`
	queryUserTags = `
        SELECT tags
        FROM notes
        WHERE user_id = $1 AND tags IS NOT NULL`
	queryDeleteNote = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
)

// NoteRepository реализует repositories.NoteRepository.
type NoteRepository struct {
	pool postgres.PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool postgres.PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.Tags,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(note.Tags) == 0 {
		note.Tags = nil
	}
	return &note, nil
}

// storedTags пустой набор тегов хранится как NULL.
func storedTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// Create сохраняет новую заметку и возвращает сохраненную строку.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID))

	id := note.ID
	if id == "" {
		id = uuid.NewString()
	}

	created, err := scanNote(r.pool.QueryRow(ctx, queryInsertNote,
		id, note.UserID, note.Title, note.Content, storedTags(note.Tags)))
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return created, nil
}

// GetByID получает заметку владельца по ID.
func (r *NoteRepository) GetByID(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))

	note, err := scanNote(r.pool.QueryRow(ctx, queryGetNote, noteID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// List возвращает страницу заметок владельца, новые первыми, и общее количество по фильтру.
// Непустой filter.Tags оставляет только заметки, имеющие хотя бы один из тегов.
func (r *NoteRepository) List(ctx context.Context, userID string, filter entities.ListFilter) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes",
		zap.String("userID", userID),
		zap.Int("page", filter.Page),
		zap.Int("pageSize", filter.PageSize),
		zap.Strings("tags", filter.Tags))

	var (
		totalCount int
		err        error
		rows       pgx.Rows
	)

	if len(filter.Tags) == 0 {
		err = r.pool.QueryRow(ctx, queryCountNotes, userID).Scan(&totalCount)
	} else {
		err = r.pool.QueryRow(ctx, queryCountTaggedNotes, userID, filter.Tags).Scan(&totalCount)
	}
	if err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	if len(filter.Tags) == 0 {
		rows, err = r.pool.Query(ctx, queryListNotes, userID, filter.PageSize, filter.Offset())
	} else {
		rows, err = r.pool.Query(ctx, queryListTaggedNotes, userID, filter.Tags, filter.PageSize, filter.Offset())
	}
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0, filter.PageSize)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, totalCount, nil
}

// UserTags возвращает все теги всех заметок владельца без обработки.
func (r *NoteRepository) UserTags(ctx context.Context, userID string) ([]string, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.UserTags"))

	rows, err := r.pool.Query(ctx, queryUserTags, userID)
	if err != nil {
		log.Error(ctx, "failed to query tags", zap.Error(err))
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var noteTags []string
		if err := rows.Scan(&noteTags); err != nil {
			log.Error(ctx, "failed to scan tags", zap.Error(err))
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		tags = append(tags, noteTags...)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tags, nil
}

// Update изменяет заданные поля заметки и возвращает обновленную строку.
func (r *NoteRepository) Update(ctx context.Context, userID, noteID string, update entities.NoteUpdate) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", noteID))

	if update.IsEmpty() {
		return nil, entities.ErrEmptyUpdate
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	next := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if update.Title != nil {
		next("title", *update.Title)
	}
	if update.Content != nil {
		next("content", *update.Content)
	}
	if update.Tags != nil {
		next("tags", storedTags(*update.Tags))
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, noteID, userID)
	query := "UPDATE notes SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND user_id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + noteColumns

	note, err := scanNote(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned by user")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// Delete удаляет заметку владельца.
func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx, queryDeleteNote, noteID, userID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}

	return nil
}
