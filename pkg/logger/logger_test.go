package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tagnote/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     logger.Environment
		level   string
		wantErr bool
	}{
		{name: "development default level", env: logger.Development},
		{name: "production with level", env: logger.Production, level: "warn"},
		{name: "upper case level", env: logger.Production, level: "DEBUG"},
		{name: "unknown level", env: logger.Development, level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.NewLogger(tt.env, tt.level)
			if tt.wantErr {
				require.ErrorIs(t, err, logger.ErrInvalidLevel)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestRequestIDIsAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.NewFromZap(zap.New(core))

	ctx := logger.NewRequestIDContext(context.Background(), "req-1")
	l.Info(ctx, "with id")
	l.Info(context.Background(), "without id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()[logger.RequestID])
	_, ok := entries[1].ContextMap()[logger.RequestID]
	assert.False(t, ok)
}

func TestNewRequestIDContextGeneratesID(t *testing.T) {
	ctx := logger.NewRequestIDContext(context.Background(), "")
	id, ok := logger.GetRequestID(ctx)
	require.True(t, ok)
	assert.Len(t, id, 36)

	_, ok = logger.GetRequestID(context.Background())
	assert.False(t, ok)
}

func TestFromContext(t *testing.T) {
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	got, err := logger.FromContext(logger.NewContext(context.Background(), testLogger))
	require.NoError(t, err)
	assert.Same(t, testLogger, got)

	_, err = logger.FromContext(context.Background())
	require.ErrorIs(t, err, logger.ErrLoggerNotFound)
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	t.Run("возвращает logger из контекста", func(t *testing.T) {
		contextLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)
		globalLogger, err := logger.NewLogger(logger.Production, "error")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		ctx := logger.NewContext(context.Background(), contextLogger)
		assert.Same(t, contextLogger, logger.Log(ctx))
	})

	t.Run("возвращает глобальный logger", func(t *testing.T) {
		globalLogger, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		assert.Same(t, globalLogger, logger.Log(context.Background()))
	})

	t.Run("возвращает один и тот же резервный logger", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		first := logger.Log(context.Background())
		second := logger.Log(context.Background())
		require.NotNil(t, first)
		assert.Same(t, first, second)
	})
}
