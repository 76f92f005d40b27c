package store

import (
	"context"

	"github.com/Jasmitha1474/women-safety-app/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates the client for the redis store backend.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
