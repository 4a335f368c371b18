package database

import (
	"context"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to Redis at redisURL. It returns nil, and the caller continues
// without caching, when the URL is empty, malformed or the server does not answer.
func NewRedisClient(ctx context.Context, redisURL string, logger *slog.Logger) *redis.Client {
	if redisURL == "" {
		logger.Info("REDIS_URL not set, product cache disabled")
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, product cache disabled", slog.String("error", err.Error()))
		return nil
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis connection failed, continuing without cache", slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis connection established")
	return rdb
}
