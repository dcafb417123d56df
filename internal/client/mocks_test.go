package client_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authentities "tagnote/internal/auth/domain/entities"
	authservices "tagnote/internal/auth/domain/services"
	notesentities "tagnote/internal/notes/domain/entities"
)

type mockAuthBackend struct {
	mock.Mock
}

func (m *mockAuthBackend) SignUp(ctx context.Context, email, password string) (*authservices.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.Session), args.Error(1)
}

func (m *mockAuthBackend) SignIn(ctx context.Context, email, password string) (*authservices.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.Session), args.Error(1)
}

func (m *mockAuthBackend) Refresh(ctx context.Context, refreshToken string) (*authservices.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.Session), args.Error(1)
}

func (m *mockAuthBackend) SignOut(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthBackend) GetUser(ctx context.Context, accessToken string) (*authentities.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentities.User), args.Error(1)
}

type mockNotesBackend struct {
	mock.Mock
}

func (m *mockNotesBackend) ListNotes(ctx context.Context, token, userID string, filter notesentities.ListFilter) (*notesentities.NotePage, error) {
	args := m.Called(ctx, token, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesentities.NotePage), args.Error(1)
}

func (m *mockNotesBackend) GetNote(ctx context.Context, token, noteID string) (*notesentities.Note, error) {
	args := m.Called(ctx, token, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesentities.Note), args.Error(1)
}

func (m *mockNotesBackend) UserTags(ctx context.Context, token, userID string) ([]string, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockNotesBackend) CreateNote(ctx context.Context, token string, note notesentities.Note) (*notesentities.Note, error) {
	args := m.Called(ctx, token, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesentities.Note), args.Error(1)
}

func (m *mockNotesBackend) UpdateNote(ctx context.Context, token, noteID string, update notesentities.NoteUpdate) (*notesentities.Note, error) {
	args := m.Called(ctx, token, noteID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesentities.Note), args.Error(1)
}

func (m *mockNotesBackend) DeleteNote(ctx context.Context, token, noteID string) error {
	return m.Called(ctx, token, noteID).Error(0)
}
