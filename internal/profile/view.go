package profile

import "slices"

// TagOption тег фильтра.
type TagOption struct {
	Name     string
	Selected bool
}

// View снимок состояния страницы для отображения.
type View struct {
	UserID string

	Notes        []*NoteView
	Total        int
	Page         int
	PageSize     int
	TotalPages   int
	NotesLoading bool
	Submitting   bool
	Updating     bool
	Error        string

	Title     string
	Content   string
	TagsInput string

	EditingID   string
	EditTitle   string
	EditContent string
	EditTags    string

	PendingDelete string

	SelectedTags []string
	Tags         []TagOption
}

// NoteView строка списка.
type NoteView struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	CreatedAt string
	UpdatedAt string
	Edited    bool
	Editing   bool
}

// HasFilter сообщает, выбран ли хотя бы один тег.
func (v View) HasFilter() bool {
	return len(v.SelectedTags) > 0
}

// HasPrev сообщает, есть ли предыдущая страница.
func (v View) HasPrev() bool {
	return v.Page > 1
}

// HasNext сообщает, есть ли следующая страница.
func (v View) HasNext() bool {
	return v.Page < v.TotalPages
}

// PrevPage номер предыдущей страницы.
func (v View) PrevPage() int {
	return v.Page - 1
}

// NextPage номер следующей страницы.
func (v View) NextPage() int {
	return v.Page + 1
}

const dateLayout = "2006-01-02"

// View возвращает снимок текущего состояния.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		UserID:        p.userID,
		Notes:         make([]*NoteView, 0, len(p.notes)),
		Total:         p.total,
		Page:          p.page,
		PageSize:      p.pageSize,
		TotalPages:    (p.total + p.pageSize - 1) / p.pageSize,
		NotesLoading:  p.notesLoading,
		Submitting:    p.submitting,
		Updating:      p.updating,
		Error:         p.errMsg,
		Title:         p.title,
		Content:       p.content,
		TagsInput:     p.tagsInput,
		EditingID:     p.editingID,
		EditTitle:     p.editTitle,
		EditContent:   p.editContent,
		EditTags:      p.editTags,
		PendingDelete: p.pendingDelete,
		SelectedTags:  slices.Clone(p.selected),
		Tags:          make([]TagOption, 0, len(p.available)),
	}

	for _, n := range p.notes {
		nv := &NoteView{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Tags:      slices.Clone(n.Tags),
			CreatedAt: n.CreatedAt.Format(dateLayout),
			Edited:    n.Edited(),
			Editing:   n.ID == p.editingID,
		}
		if nv.Edited {
			nv.UpdatedAt = n.UpdatedAt.Format(dateLayout)
		}
		v.Notes = append(v.Notes, nv)
	}

	for _, tag := range p.available {
		v.Tags = append(v.Tags, TagOption{Name: tag, Selected: slices.Contains(p.selected, tag)})
	}

	return v
}
