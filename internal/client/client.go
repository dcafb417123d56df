package client

// Client клиенты одной браузерной сессии.
type Client struct {
	Auth  *AuthClient
	Notes *NotesClient
}

// Factory создает клиентов браузерных сессий с общими бэкендами и хранилищем сессий.
type Factory struct {
	auth  AuthBackend
	notes NotesBackend
	opts  AuthOptions
}

// NewFactory создает фабрику клиентов.
func NewFactory(auth AuthBackend, notes NotesBackend, opts AuthOptions) *Factory {
	return &Factory{auth: auth, notes: notes, opts: opts}
}

// New создает клиента для браузерной сессии key.
func (f *Factory) New(key string) *Client {
	auth := NewAuthClient(key, f.auth, f.opts)
	return &Client{
		Auth:  auth,
		Notes: NewNotesClient(auth, f.notes),
	}
}

// Tokens создает клиент аутентификации без состояния, использующий тот же Circuit Breaker.
func (f *Factory) Tokens() *TokenClient {
	return NewTokenClient(f.auth, f.opts.Breaker)
}

// NotesWithToken создает клиент заметок для заранее известного access токена.
func (f *Factory) NotesWithToken(token string) *NotesClient {
	return NewNotesClient(StaticToken(token), f.notes)
}
