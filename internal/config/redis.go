package config

import (
	"net"
	"strconv"
	"time"
)

// RedisConfig представляет конфигурацию для Redis.
type RedisConfig struct {
	Host     string        `env:"TAGNOTE_REDIS_HOST" env-default:"localhost"`
	Port     int           `env:"TAGNOTE_REDIS_PORT" env-default:"6379"`
	Password string        `env:"TAGNOTE_REDIS_PASSWORD" env-default:""`
	DB       int           `env:"TAGNOTE_REDIS_DB" env-default:"0"`
	PoolSize int           `env:"TAGNOTE_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `env:"TAGNOTE_REDIS_TIMEOUT" env-default:"3s"`
	TagsTTL  time.Duration `env:"TAGNOTE_REDIS_TAGS_TTL" env-default:"5m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
