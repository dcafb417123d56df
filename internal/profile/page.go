// Package profile содержит состояние страницы заметок: список, пагинацию, фильтр по тегам,
// формы создания и редактирования.
package profile

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/pkg/logger"
)

// DefaultPageSize размер страницы по умолчанию.
const DefaultPageSize = 3

// Сообщения страницы.
const (
	MsgFillTitleAndContent = "Please fill in both title and content"

	PrefixLoadNotes  = "Failed to load notes: "
	PrefixCreateNote = "Failed to create note: "
	PrefixUpdateNote = "Failed to update note: "
	PrefixDeleteNote = "Failed to delete note: "
	PrefixLoadTags   = "Failed to load tags: "

	unexpectedPrefix = "An unexpected error occurred while "

	LogStaleResponse = "stale notes response discarded"
	LogPageFailed    = "notes page operation failed"
)

// NotesAPI операции хранилища заметок, которыми пользуется страница.
type NotesAPI interface {
	GetNotes(ctx context.Context, userID string, page, pageSize int) (*client.NotesPage, error)
	GetNotesByTags(ctx context.Context, userID string, tags []string, page, pageSize int) (*client.NotesPage, error)
	GetUserTags(ctx context.Context, userID string) ([]string, error)
	CreateNote(ctx context.Context, note client.NewNote) (*client.Note, error)
	UpdateNote(ctx context.Context, noteID string, changes client.NoteChanges) (*client.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}

type operation struct {
	prefix string
	action string
}

var (
	opLoadNotes  = operation{PrefixLoadNotes, "loading notes"}
	opCreateNote = operation{PrefixCreateNote, "creating note"}
	opUpdateNote = operation{PrefixUpdateNote, "updating note"}
	opDeleteNote = operation{PrefixDeleteNote, "deleting note"}
	opLoadTags   = operation{PrefixLoadTags, "loading tags"}
)

// Page состояние страницы заметок одного пользователя. Безопасна для конкурентного использования.
type Page struct {
	api      NotesAPI
	userID   string
	pageSize int

	mu           sync.Mutex
	notes        []*client.Note
	total        int
	page         int
	notesLoading bool
	submitting   bool
	updating     bool
	errMsg       string

	title     string
	content   string
	tagsInput string

	editingID   string
	editTitle   string
	editContent string
	editTags    string

	pendingDelete string

	selected  []string
	available []string

	seq uint64
}

// New создает страницу пользователя userID. pageSize <= 0 означает DefaultPageSize.
func New(api NotesAPI, userID string, pageSize int) *Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Page{
		api:          api,
		userID:       userID,
		pageSize:     pageSize,
		page:         1,
		notesLoading: true,
		notes:        []*client.Note{},
		available:    []string{},
	}
}

// UserID возвращает владельца страницы.
func (p *Page) UserID() string {
	return p.userID
}

func (p *Page) failure(ctx context.Context, op operation, err error) string {
	if client.IsKind(err, client.KindTransport) {
		logger.Log(ctx).Error(ctx, LogPageFailed, zap.String("action", op.action), zap.Error(err))
		return unexpectedPrefix + op.action
	}
	return op.prefix + err.Error()
}

// Load перезагружает текущую страницу списка с учетом фильтра. Ответ на более
// ранний запрос, пришедший после более позднего, отбрасывается.
func (p *Page) Load(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	token := p.seq
	p.notesLoading = true
	p.errMsg = ""
	tags := slices.Clone(p.selected)
	page := p.page
	p.mu.Unlock()

	var (
		result *client.NotesPage
		err    error
	)
	if len(tags) > 0 {
		result, err = p.api.GetNotesByTags(ctx, p.userID, tags, page, p.pageSize)
	} else {
		result, err = p.api.GetNotes(ctx, p.userID, page, p.pageSize)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.seq {
		logger.Log(ctx).Debug(ctx, LogStaleResponse, zap.Uint64("token", token), zap.Uint64("latest", p.seq))
		return
	}
	p.notesLoading = false

	if err != nil {
		p.errMsg = p.failure(ctx, opLoadNotes, err)
		return
	}

	p.notes = result.Notes
	if p.notes == nil {
		p.notes = []*client.Note{}
	}
	p.total = result.Total
}

// LoadTags обновляет список доступных тегов.
func (p *Page) LoadTags(ctx context.Context) {
	tags, err := p.api.GetUserTags(ctx, p.userID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.errMsg = p.failure(ctx, opLoadTags, err)
		return
	}
	p.available = tags
}

// Refresh загружает список и теги.
func (p *Page) Refresh(ctx context.Context) {
	p.Load(ctx)
	p.LoadTags(ctx)
}

// Create создает заметку из полей формы. При успехе строка, возвращенная хранилищем,
// добавляется в начало списка, а форма очищается.
func (p *Page) Create(ctx context.Context, title, content, tags string) bool {
	p.mu.Lock()
	p.title, p.content, p.tagsInput = title, content, tags

	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		p.errMsg = MsgFillTitleAndContent
		p.mu.Unlock()
		return false
	}
	if p.submitting {
		p.mu.Unlock()
		return false
	}
	p.submitting = true
	p.errMsg = ""
	p.mu.Unlock()

	created, err := p.api.CreateNote(ctx, client.NewNote{
		UserID:  p.userID,
		Title:   title,
		Content: content,
		Tags:    ParseTags(tags),
	})

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.errMsg = p.failure(ctx, opCreateNote, err)
		p.mu.Unlock()
		return false
	}
	p.notes = append([]*client.Note{created}, p.notes...)
	p.total++
	p.title, p.content, p.tagsInput = "", "", ""
	p.mu.Unlock()

	p.LoadTags(ctx)
	return true
}

// StartEdit переводит заметку noteID в режим редактирования. Одновременно
// редактируется не более одной заметки.
func (p *Page) StartEdit(noteID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(noteID)
	if idx < 0 {
		return false
	}
	note := p.notes[idx]
	p.editingID = noteID
	p.editTitle = note.Title
	p.editContent = note.Content
	p.editTags = FormatTags(note.Tags)
	p.errMsg = ""
	return true
}

// CancelEdit выходит из режима редактирования.
func (p *Page) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelEdit()
}

func (p *Page) cancelEdit() {
	p.editingID = ""
	p.editTitle = ""
	p.editContent = ""
	p.editTags = ""
	p.errMsg = ""
}

// SaveEdit сохраняет заголовок, текст и теги редактируемой заметки. Строка списка
// заменяется строкой, возвращенной хранилищем.
func (p *Page) SaveEdit(ctx context.Context, noteID, title, content, tags string) bool {
	p.mu.Lock()
	if p.editingID != noteID || p.updating {
		p.mu.Unlock()
		return false
	}
	p.editTitle, p.editContent, p.editTags = title, content, tags

	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		p.errMsg = MsgFillTitleAndContent
		p.mu.Unlock()
		return false
	}
	p.updating = true
	p.errMsg = ""
	p.mu.Unlock()

	parsed := ParseTags(tags)
	updated, err := p.api.UpdateNote(ctx, noteID, client.NoteChanges{
		Title:   &title,
		Content: &content,
		Tags:    &parsed,
	})

	p.mu.Lock()
	p.updating = false
	if err != nil {
		p.errMsg = p.failure(ctx, opUpdateNote, err)
		p.mu.Unlock()
		return false
	}
	if idx := p.indexOf(noteID); idx >= 0 {
		p.notes[idx] = updated
	}
	p.cancelEdit()
	p.mu.Unlock()

	p.LoadTags(ctx)
	return true
}

// RequestDelete запрашивает подтверждение удаления заметки noteID.
func (p *Page) RequestDelete(noteID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.indexOf(noteID) < 0 {
		return false
	}
	p.pendingDelete = noteID
	return true
}

// CancelDelete отменяет запрос удаления.
func (p *Page) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingDelete = ""
}

// Delete удаляет заметку, если удаление подтверждено. Из списка убирается ровно
// одна строка с этим идентификатором, порядок остальных сохраняется.
func (p *Page) Delete(ctx context.Context, noteID string, confirmed bool) bool {
	p.mu.Lock()
	if !confirmed {
		p.pendingDelete = ""
		p.mu.Unlock()
		return false
	}
	p.errMsg = ""
	p.mu.Unlock()

	err := p.api.DeleteNote(ctx, noteID)

	p.mu.Lock()
	p.pendingDelete = ""
	if err != nil {
		p.errMsg = p.failure(ctx, opDeleteNote, err)
		p.mu.Unlock()
		return false
	}
	if idx := p.indexOf(noteID); idx >= 0 {
		p.notes = slices.Delete(slices.Clone(p.notes), idx, idx+1)
		if p.total > 0 {
			p.total--
		}
	}
	if p.editingID == noteID {
		p.cancelEdit()
	}
	p.mu.Unlock()

	p.LoadTags(ctx)
	return true
}

// ToggleTag добавляет тег в фильтр или убирает его и перезагружает первую страницу.
func (p *Page) ToggleTag(ctx context.Context, tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	p.mu.Lock()
	if idx := slices.Index(p.selected, tag); idx >= 0 {
		p.selected = slices.Delete(slices.Clone(p.selected), idx, idx+1)
	} else {
		p.selected = append(slices.Clone(p.selected), tag)
	}
	p.page = 1
	p.mu.Unlock()

	p.Load(ctx)
}

// ClearFilters очищает фильтр и перезагружает первую страницу.
func (p *Page) ClearFilters(ctx context.Context) {
	p.mu.Lock()
	p.selected = nil
	p.page = 1
	p.mu.Unlock()

	p.Load(ctx)
}

// SetPage переходит на страницу n, начиная с 1.
func (p *Page) SetPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}

	p.mu.Lock()
	p.page = n
	p.mu.Unlock()

	p.Load(ctx)
}

func (p *Page) indexOf(noteID string) int {
	return slices.IndexFunc(p.notes, func(n *client.Note) bool { return n.ID == noteID })
}
