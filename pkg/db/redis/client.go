// Package redis предоставляет общую реализацию подключения к Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Значения по умолчанию.
const (
	DefaultPoolSize    = 10
	DefaultTimeout     = 5 * time.Second
	DefaultPingTimeout = 5 * time.Second
)

const (
	logConnecting = "connecting to Redis"
	logConnected  = "successfully connected to Redis"
	errConnect    = "failed to connect to Redis"
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// NewClient создает клиент Redis и проверяет соединение.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	log := logger.Log(ctx).With(zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	log.Info(ctx, logConnecting)

	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.Error(ctx, errConnect, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errConnect, err)
	}

	log.Info(ctx, logConnected)
	return rdb, nil
}
