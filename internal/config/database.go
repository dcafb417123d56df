package config

import "time"

// PostgresConfig содержит настройки пула соединений с базой данных.
type PostgresConfig struct {
	MinConn         int           `env:"TAGNOTE_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn         int           `env:"TAGNOTE_POSTGRES_MAX_CONN" env-default:"10"`
	MaxConnLifetime time.Duration `env:"TAGNOTE_POSTGRES_MAX_CONN_LIFETIME" env-default:"1h"`
	ConnectTimeout  time.Duration `env:"TAGNOTE_POSTGRES_CONNECT_TIMEOUT" env-default:"5s"`
	Migrate         bool          `env:"TAGNOTE_POSTGRES_MIGRATE" env-default:"true"`
}
