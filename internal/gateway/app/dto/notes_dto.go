package dto

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// TagsResponse список тегов пользователя.
type TagsResponse struct {
	Tags []string `json:"tags"`
}
