package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tagnote/internal/cache"
	"tagnote/internal/notes/app"
	"tagnote/internal/notes/domain/entities"
	"tagnote/pkg/logger"
)

const (
	ownerID = "11111111-1111-1111-1111-111111111111"
	otherID = "22222222-2222-2222-2222-222222222222"
	noteID  = "33333333-3333-3333-3333-333333333333"
)

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, userID, id string) (*entities.Note, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) List(ctx context.Context, userID string, filter entities.ListFilter) ([]*entities.Note, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) UserTags(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockNoteRepository) Update(ctx context.Context, userID, id string, update entities.NoteUpdate) (*entities.Note, error) {
	args := m.Called(ctx, userID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type stubTokens map[string]string

func (s stubTokens) ValidateAccessToken(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

var tokens = stubTokens{"owner-token": ownerID}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func newTagsCache(t *testing.T) (*miniredis.Miniredis, cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewRedisCache(client, "test:", time.Minute)
}

func TestListNotes(t *testing.T) {
	ctx := testContext(t)

	t.Run("Значения по умолчанию", func(t *testing.T) {
		repo := new(mockNoteRepository)
		notes := []*entities.Note{{ID: noteID, UserID: ownerID}}
		repo.On("List", mock.Anything, ownerID, entities.ListFilter{Page: 1, PageSize: 3}).Return(notes, 7, nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{})
		page, err := uc.ListNotes(ctx, "owner-token", ownerID, entities.ListFilter{Tags: []string{}})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 3, page.PageSize)
		assert.Len(t, page.Notes, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Размер страницы ограничен", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("List", mock.Anything, ownerID, entities.ListFilter{Page: 2, PageSize: 10, Tags: []string{"a"}}).
			Return([]*entities.Note{}, 0, nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{MaxPageSize: 10})
		_, err := uc.ListNotes(ctx, "owner-token", ownerID, entities.ListFilter{Page: 2, PageSize: 500, Tags: []string{"a"}})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Номер страницы ограничен смещением", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("List", mock.Anything, ownerID, mock.MatchedBy(func(f entities.ListFilter) bool {
			return f.PageSize == 10 && f.Page == entities.MaxPage(10) && f.Offset() > 0
		})).Return([]*entities.Note{}, 4, nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{MaxPageSize: 10})
		page, err := uc.ListNotes(ctx, "owner-token", ownerID, entities.ListFilter{Page: math.MaxInt, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.Equal(t, 4, page.Total)
		repo.AssertExpectations(t)
	})

	t.Run("Чужие заметки не видны", func(t *testing.T) {
		repo := new(mockNoteRepository)

		uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{})
		page, err := uc.ListNotes(ctx, "owner-token", otherID, entities.ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.NotNil(t, page.Notes)
		assert.Zero(t, page.Total)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Отрицательная страница", func(t *testing.T) {
		uc := app.NewNoteUseCase(new(mockNoteRepository), tokens, nil, app.Options{})
		_, err := uc.ListNotes(ctx, "owner-token", ownerID, entities.ListFilter{Page: -1})
		require.ErrorIs(t, err, app.ErrInvalidParams)
	})

	t.Run("Неверный токен", func(t *testing.T) {
		uc := app.NewNoteUseCase(new(mockNoteRepository), tokens, nil, app.Options{})
		_, err := uc.ListNotes(ctx, "bad", ownerID, entities.ListFilter{})
		require.ErrorIs(t, err, app.ErrUnauthorized)
	})
}

func TestCreateNote(t *testing.T) {
	ctx := testContext(t)

	t.Run("Создание сбрасывает кэш тегов", func(t *testing.T) {
		mr, tagsCache := newTagsCache(t)
		require.NoError(t, mr.Set("test:tags:"+ownerID, `["old"]`))

		repo := new(mockNoteRepository)
		created := &entities.Note{ID: noteID, UserID: ownerID, Title: "T", Content: "C", Tags: []string{"a"}}
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.UserID == ownerID && n.Title == "T" && n.ID == ""
		})).Return(created, nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, tagsCache, app.Options{})
		note, err := uc.CreateNote(ctx, "owner-token", entities.Note{ID: "ignored", Title: "T", Content: "C", Tags: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, noteID, note.ID)
		assert.False(t, mr.Exists("test:tags:"+ownerID))
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		note    entities.Note
		wantErr error
	}{
		{name: "Чужой владелец", note: entities.Note{UserID: otherID, Title: "T", Content: "C"}, wantErr: app.ErrUnauthorized},
		{name: "Пустой заголовок", note: entities.Note{Title: "  ", Content: "C"}, wantErr: entities.ErrEmptyTitle},
		{name: "Пустой текст", note: entities.Note{Title: "T", Content: ""}, wantErr: entities.ErrEmptyContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{})
			_, err := uc.CreateNote(ctx, "owner-token", tt.note)
			require.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateAndDeleteNote(t *testing.T) {
	ctx := testContext(t)
	title := "New"
	empty := " "

	repo := new(mockNoteRepository)
	updated := &entities.Note{ID: noteID, UserID: ownerID, Title: "New"}
	repo.On("Update", mock.Anything, ownerID, noteID, entities.NoteUpdate{Title: &title}).Return(updated, nil).Once()
	repo.On("Delete", mock.Anything, ownerID, noteID).Return(entities.ErrNoteNotFound).Once()

	uc := app.NewNoteUseCase(repo, tokens, nil, app.Options{})

	note, err := uc.UpdateNote(ctx, "owner-token", noteID, entities.NoteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", note.Title)

	_, err = uc.UpdateNote(ctx, "owner-token", noteID, entities.NoteUpdate{Title: &empty})
	require.ErrorIs(t, err, entities.ErrEmptyTitle)

	_, err = uc.UpdateNote(ctx, "owner-token", noteID, entities.NoteUpdate{})
	require.ErrorIs(t, err, app.ErrInvalidParams)

	_, err = uc.UpdateNote(ctx, "owner-token", "not-a-uuid", entities.NoteUpdate{Title: &title})
	require.ErrorIs(t, err, app.ErrNotFound)

	err = uc.DeleteNote(ctx, "owner-token", noteID)
	require.ErrorIs(t, err, app.ErrNotFound)

	repo.AssertExpectations(t)
}

func TestUserTags(t *testing.T) {
	ctx := testContext(t)

	t.Run("Кэширование и нормализация", func(t *testing.T) {
		mr, tagsCache := newTagsCache(t)
		repo := new(mockNoteRepository)
		repo.On("UserTags", mock.Anything, ownerID).Return([]string{"work", "home", "work", " "}, nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, tagsCache, app.Options{TagsTTL: time.Minute})

		tags, err := uc.UserTags(ctx, "owner-token", ownerID)
		require.NoError(t, err)
		assert.Equal(t, []string{"home", "work"}, tags)
		assert.True(t, mr.Exists("test:tags:"+ownerID))

		tags, err = uc.UserTags(ctx, "owner-token", ownerID)
		require.NoError(t, err)
		assert.Equal(t, []string{"home", "work"}, tags)

		repo.AssertExpectations(t)
	})

	t.Run("Недоступный кэш не ломает запрос", func(t *testing.T) {
		mr, tagsCache := newTagsCache(t)
		mr.Close()
		repo := new(mockNoteRepository)
		repo.On("UserTags", mock.Anything, ownerID).Return([]string(nil), nil).Once()

		uc := app.NewNoteUseCase(repo, tokens, tagsCache, app.Options{})
		tags, err := uc.UserTags(ctx, "owner-token", ownerID)
		require.NoError(t, err)
		assert.Equal(t, []string{}, tags)
	})

	t.Run("Чужие теги", func(t *testing.T) {
		uc := app.NewNoteUseCase(new(mockNoteRepository), tokens, nil, app.Options{})
		tags, err := uc.UserTags(ctx, "owner-token", otherID)
		require.NoError(t, err)
		assert.Equal(t, []string{}, tags)
	})
}
