package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// RedisCache is a ResultCache backed by a shared Redis instance, so several
// service replicas can reuse one fetch cycle. Entries expire server-side via
// the TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]models.ResolvedMatch, bool) {
	data, err := r.client.Get(ctx, cacheKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Redis cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var matches []models.ResolvedMatch
	if err := json.Unmarshal([]byte(data), &matches); err != nil {
		slog.Warn("Redis cache entry corrupt, discarding", "key", key, "error", err)
		return nil, false
	}
	return matches, true
}

func (r *RedisCache) Set(ctx context.Context, key string, matches []models.ResolvedMatch) {
	data, err := json.Marshal(matches)
	if err != nil {
		slog.Warn("Failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, cacheKey(key), data, r.ttl).Err(); err != nil {
		slog.Warn("Redis cache write failed", "key", key, "error", err)
	}
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func cacheKey(key string) string {
	return "resolved:" + key
}
