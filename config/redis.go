package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient returns a connected client, or nil when Redis is not
// reachable. Callers treat a nil client as "feature off".
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unavailable, continuing without it")
		_ = client.Close()
		return nil
	}
	return client
}
