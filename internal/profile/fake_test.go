package profile_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"tagnote/internal/client"
	notesentities "tagnote/internal/notes/domain/entities"
)

var errNotFound = client.Wrap(client.OpDeleteNote, notesentities.ErrNoteNotFound)

// fakeNotes хранилище заметок в памяти с семантикой хранилища: порядок от новых
// к старым, фильтр по пересечению тегов, пагинация со смещением.
type fakeNotes struct {
	mu     sync.Mutex
	notes  []*client.Note
	nextID int
	clock  time.Time
	fail   map[string]error
	calls  []string
	before func(op string)
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), fail: map[string]error{}}
}

func (f *fakeNotes) enter(op string) error {
	if f.before != nil {
		f.before(op)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeNotes) seed(title string, tags ...string) *client.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(title, "content", tags)
}

func (f *fakeNotes) insert(title, content string, tags []string) *client.Note {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	n := &client.Note{
		ID:        fmt.Sprintf("note-%d", f.nextID),
		UserID:    "user",
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: f.clock,
	}
	f.notes = append([]*client.Note{n}, f.notes...)
	return n
}

func (f *fakeNotes) list(tags []string, page, pageSize int) *client.NotesPage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*client.Note
	for _, n := range f.notes {
		if len(tags) == 0 || slices.ContainsFunc(n.Tags, func(t string) bool { return slices.Contains(tags, t) }) {
			cp := *n
			matched = append(matched, &cp)
		}
	}
	from := min((page-1)*pageSize, len(matched))
	to := min(from+pageSize, len(matched))
	return &client.NotesPage{Notes: matched[from:to], Total: len(matched), Page: page, PageSize: pageSize}
}

func (f *fakeNotes) GetNotes(_ context.Context, _ string, page, pageSize int) (*client.NotesPage, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	return f.list(nil, page, pageSize), nil
}

func (f *fakeNotes) GetNotesByTags(_ context.Context, _ string, tags []string, page, pageSize int) (*client.NotesPage, error) {
	if err := f.enter("listByTags"); err != nil {
		return nil, err
	}
	return f.list(tags, page, pageSize), nil
}

func (f *fakeNotes) GetUserTags(_ context.Context, _ string) ([]string, error) {
	if err := f.enter("tags"); err != nil {
		return []string{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, n := range f.notes {
		for _, t := range n.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeNotes) CreateNote(_ context.Context, note client.NewNote) (*client.Note, error) {
	if err := f.enter("create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.insert(note.Title, note.Content, note.Tags)
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) UpdateNote(_ context.Context, noteID string, changes client.NoteChanges) (*client.Note, error) {
	if err := f.enter("update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.ID != noteID {
			continue
		}
		if changes.Title != nil {
			n.Title = *changes.Title
		}
		if changes.Content != nil {
			n.Content = *changes.Content
		}
		if changes.Tags != nil {
			n.Tags = *changes.Tags
		}
		f.clock = f.clock.Add(time.Hour)
		updated := f.clock
		n.UpdatedAt = &updated
		cp := *n
		return &cp, nil
	}
	return nil, client.Wrap(client.OpUpdateNote, notesentities.ErrNoteNotFound)
}

func (f *fakeNotes) DeleteNote(_ context.Context, noteID string) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := slices.IndexFunc(f.notes, func(n *client.Note) bool { return n.ID == noteID })
	if idx < 0 {
		return errNotFound
	}
	f.notes = slices.Delete(f.notes, idx, idx+1)
	return nil
}

var errTransport = errors.New("connection reset")
