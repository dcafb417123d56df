package config

// BackendConfig содержит обязательные параметры подключения к backend:
// адрес сервиса (URL базы Postgres) и публичный ключ API (ключ подписи токенов).
type BackendConfig struct {
	URL    string `env:"TAGNOTE_BACKEND_URL" env-required:"true"`
	APIKey string `env:"TAGNOTE_API_KEY" env-required:"true"`
}
