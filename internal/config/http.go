package config

import (
	"net"
	"strconv"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `env:"TAGNOTE_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `env:"TAGNOTE_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"TAGNOTE_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"TAGNOTE_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	SecureCookie bool          `env:"TAGNOTE_HTTP_SECURE_COOKIE" env-default:"false"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GRPCConfig представляет конфигурацию gRPC сервера проверки здоровья.
type GRPCConfig struct {
	Host          string        `env:"TAGNOTE_GRPC_HOST" env-default:"0.0.0.0"`
	Port          int           `env:"TAGNOTE_GRPC_PORT" env-default:"9090"`
	CheckInterval time.Duration `env:"TAGNOTE_GRPC_HEALTH_INTERVAL" env-default:"10s"`
}

// GetAddress возвращает адрес gRPC сервера.
func (c *GRPCConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
