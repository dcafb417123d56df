package config

import "time"

// SessionConfig настройки сессий браузера.
type SessionConfig struct {
	IdleTTL         time.Duration `env:"TAGNOTE_SESSION_IDLE_TTL" env-default:"30m"`
	JanitorInterval time.Duration `env:"TAGNOTE_SESSION_JANITOR_INTERVAL" env-default:"1m"`
	PersistTTL      time.Duration `env:"TAGNOTE_SESSION_PERSIST_TTL" env-default:"168h"`
	CookieName      string        `env:"TAGNOTE_SESSION_COOKIE" env-default:"tagnote_sid"`
}

// NotesConfig настройки работы с заметками.
type NotesConfig struct {
	PageSize    int `env:"TAGNOTE_NOTES_PAGE_SIZE" env-default:"3"`
	MaxPageSize int `env:"TAGNOTE_NOTES_MAX_PAGE_SIZE" env-default:"100"`
}

// BreakerConfig настройки circuit breaker для обновления токенов.
type BreakerConfig struct {
	FailureThreshold int           `env:"TAGNOTE_BREAKER_FAILURE_THRESHOLD" env-default:"5"`
	ResetTimeout     time.Duration `env:"TAGNOTE_BREAKER_RESET_TIMEOUT" env-default:"10s"`
	HalfOpenMax      int           `env:"TAGNOTE_BREAKER_HALF_OPEN_MAX" env-default:"2"`
}
