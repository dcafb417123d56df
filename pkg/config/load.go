// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"
	msgEnvFileLoaded        = "env file loaded"

	errFailedLoadEnvFile       = "failed to load env file"
	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// DefaultEnvFiles файлы окружения, читаемые по умолчанию, в порядке приоритета.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Load загружает переменные из существующих envFiles (уже заданные переменные окружения
// не перезаписываются) и заполняет T через cleanenv.ReadEnv.
func Load[T any](ctx context.Context, serviceName string, envFiles ...string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	log.Info(ctx, msgLoadingConfiguration)

	for _, path := range envFiles {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Error(ctx, errFailedLoadEnvFile, zap.String(attrPath, path), zap.Error(err))
			return nil, fmt.Errorf("%s %s: %w", errFailedLoadEnvFile, path, err)
		}
		log.Debug(ctx, msgEnvFileLoaded, zap.String(attrPath, path))
	}

	var cfg T
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
