// Package postgres управляет пулом соединений pgx и миграциями схемы.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
	ErrPoolBounds   = "invalid connection pool bounds"
)

// Options параметры пула соединений.
type Options struct {
	MinConns        int
	MaxConns        int
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Database представляет соединение с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New создает новое соединение с базой данных Postgres и проверяет его доступность.
func New(ctx context.Context, dsn string, opts Options) (*Database, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting, zap.Int("min_conns", opts.MinConns), zap.Int("max_conns", opts.MaxConns))

	if opts.MinConns < 0 || (opts.MaxConns > 0 && opts.MinConns > opts.MaxConns) {
		return nil, fmt.Errorf("%s: min=%d max=%d", ErrPoolBounds, opts.MinConns, opts.MaxConns)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	poolCfg.MinConns = int32(opts.MinConns)
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает соединение с базой данных.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
