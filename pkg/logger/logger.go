// Package logger оборачивает zap и переносит logger через context.Context.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment определяет режим работы logger.
type Environment string

// Поддерживаемые окружения.
const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID имя поля с идентификатором запроса.
const RequestID = "request_id"

// ErrInvalidLevel возвращается для неизвестного уровня логирования.
var ErrInvalidLevel = fmt.Errorf("invalid log level")

// Logger структурированный logger поверх zap.
type Logger struct {
	l *zap.Logger
}

// NewLogger создает logger для окружения. Пустой level означает уровень по умолчанию
// (debug для development, info для production).
func NewLogger(env Environment, level string) (*Logger, error) {
	var config zap.Config
	if env == Development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidLevel, level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{l: zapLogger}, nil
}

// NewFromZap оборачивает готовый *zap.Logger.
func NewFromZap(l *zap.Logger) *Logger {
	return &Logger{l: l}
}

// With возвращает копию logger с дополнительными полями.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, addRequestID(ctx, fields)...)
}

// Sync сбрасывает буферы.
func (l *Logger) Sync() error {
	return l.l.Sync()
}

// Zap возвращает исходный *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.l
}

func addRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
