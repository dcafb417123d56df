package config

import (
	"tagnote/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `env:"TAGNOTE_LOGGER_LEVEL" env-default:"info"`
	Mode  string `env:"TAGNOTE_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment получает строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}
