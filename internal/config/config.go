// Package config содержит конфигурацию приложения tagnote.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "tagnote/pkg/config"
	"tagnote/pkg/logger"
)

// ServiceName имя сервиса в логах.
const ServiceName = "tagnote"

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigSummary    = "configuration summary"
	ErrFailedLoadConfig = "failed to load configuration"
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Backend  BackendConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Session  SessionConfig
	Breaker  BreakerConfig
	Notes    NotesConfig
	Logging  LoggingConfig
	Shutdown ShutdownConfig
}

// Load загружает конфигурацию из файлов окружения и переменных окружения.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = pkgconfig.DefaultEnvFiles
	}

	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout),
		zap.Int("postgres_min_conn", cfg.Postgres.MinConn),
		zap.Int("postgres_max_conn", cfg.Postgres.MaxConn))

	return cfg, nil
}
