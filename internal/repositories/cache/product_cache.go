// Package cache holds read-through caches in front of the Postgres repositories.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/go-redis/redis/v8"
)

const productKeyPrefix = "bizledger:product:"

// ProductCache serves catalog lookups from Redis and falls back to the wrapped reader for misses.
// Redis failures never fail a lookup; the reader is queried directly instead.
type ProductCache struct {
	client redis.Cmdable
	next   portsrepo.ProductReader
	ttl    time.Duration
}

// NewProductCache wraps next with a Redis cache. A nil client disables caching.
func NewProductCache(client redis.Cmdable, next portsrepo.ProductReader, ttl time.Duration) portsrepo.ProductReader {
	if client == nil {
		return next
	}
	return &ProductCache{client: client, next: next, ttl: ttl}
}

var _ portsrepo.ProductReader = (*ProductCache)(nil)

func productKey(id string) string {
	return productKeyPrefix + id
}

// FindProductsByIDs implements portsrepo.ProductReader
func (c *ProductCache) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = productKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warn("Product cache unavailable, reading catalog directly", slog.String("error", err.Error()))
		return c.next.FindProductsByIDs(ctx, productIDs)
	}

	found := make(map[string]domain.Product, len(productIDs))
	missing := make([]string, 0, len(productIDs))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, productIDs[i])
			continue
		}
		var p domain.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logger.Warn("Discarding undecodable cached product", slog.String("product_id", productIDs[i]), slog.String("error", err.Error()))
			missing = append(missing, productIDs[i])
			continue
		}
		found[productIDs[i]] = p
	}
	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := c.next.FindProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range loaded {
		found[id] = p
		payload, err := json.Marshal(p)
		if err != nil {
			continue
		}
		if err := c.client.Set(ctx, productKey(id), string(payload), c.ttl).Err(); err != nil {
			logger.Warn("Failed to cache product", slog.String("product_id", id), slog.String("error", err.Error()))
		}
	}
	return found, nil
}
