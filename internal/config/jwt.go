package config

import "time"

// JWTConfig содержит настройки токенов и хеширования паролей.
type JWTConfig struct {
	AccessTokenTTL  string        `env:"TAGNOTE_JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL string        `env:"TAGNOTE_JWT_REFRESH_TOKEN_TTL" env-default:"168h"`
	RefreshMargin   string        `env:"TAGNOTE_JWT_REFRESH_MARGIN" env-default:"1m"`
	BCryptCost      int           `env:"TAGNOTE_BCRYPT_COST" env-default:"10"`
	CleanupInterval time.Duration `env:"TAGNOTE_TOKEN_CLEANUP_INTERVAL" env-default:"1h"`
}

// GetAccessTokenTTL возвращает продолжительность времени жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	return parseDuration(c.AccessTokenTTL, 15*time.Minute)
}

// GetRefreshTokenTTL возвращает продолжительность времени жизни refresh токена.
func (c *JWTConfig) GetRefreshTokenTTL() time.Duration {
	return parseDuration(c.RefreshTokenTTL, 7*24*time.Hour)
}

// GetRefreshMargin возвращает запас до истечения access токена, при котором он обновляется.
func (c *JWTConfig) GetRefreshMargin() time.Duration {
	return parseDuration(c.RefreshMargin, time.Minute)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
