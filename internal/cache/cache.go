// Package cache содержит кэш поверх Redis, используемый для хранения сессий и списков тегов.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Cache определяет интерфейс для работы с кэшем.
// Get для отсутствующего ключа возвращает пустую строку и nil.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Константы для логирования.
const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodDelete = "delete"

	ErrorFailedToGet    = "failed to get value from redis"
	ErrorFailedToSet    = "failed to set value in redis"
	ErrorFailedToDelete = "failed to delete value from redis"
	ErrorFailedToEncode = "failed to encode cache value"
	ErrorFailedToDecode = "failed to decode cache value"
)

// RedisCache реализует Cache с использованием Redis.
type RedisCache struct {
	client     redis.Cmdable
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache создает кэш. Все ключи получают префикс prefix.
func NewRedisCache(client redis.Cmdable, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

// Get получает значение по ключу.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("key", c.key(key)))

	value, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, nil
}

// Set устанавливает значение для ключа. ttl == 0 означает время жизни по умолчанию.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", c.key(key)))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет значения по ключам.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}

	if err := c.client.Del(ctx, full...).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToDelete,
			zap.String("method", LogMethodDelete), zap.Strings("keys", full), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// GetJSON читает значение и декодирует его в dst. Возвращает false, если ключа нет.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}
	return true, nil
}

// SetJSON кодирует value в JSON и сохраняет его.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}
	return c.Set(ctx, key, string(raw), ttl)
}
