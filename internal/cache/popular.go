// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// popular.go caches the popularity ranking in Valkey. The ranking query
// aggregates a month of visits, so it is cached briefly and recomputed on
// expiry. Cache failures are logged and the caller falls back to the
// database; they never surface as request errors.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sportwire/internal/models"
)

const (
	// popularKey holds the serialized ranking.
	popularKey = "popular:ranked"

	// DefaultPopularTTL is how long a computed ranking stays cached.
	DefaultPopularTTL = time.Minute
)

// PopularCache stores the computed popularity ranking in Valkey.
type PopularCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPopularCache creates a popularity cache backed by the given Valkey
// client.
func NewPopularCache(client *redis.Client, ttl time.Duration) *PopularCache {
	if ttl == 0 {
		ttl = DefaultPopularTTL
	}
	return &PopularCache{client: client, ttl: ttl}
}

// Get retrieves the cached ranking. Returns false on miss or any error.
func (pc *PopularCache) Get(ctx context.Context) ([]models.Post, bool) {
	val, err := pc.client.Get(ctx, popularKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("popular cache get error", "error", err)
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(val, &posts); err != nil {
		slog.Warn("popular cache decode error", "error", err)
		return nil, false
	}
	return posts, true
}

// Set stores the ranking with the configured TTL.
func (pc *PopularCache) Set(ctx context.Context, posts []models.Post) {
	val, err := json.Marshal(posts)
	if err != nil {
		slog.Warn("popular cache encode error", "error", err)
		return
	}
	if err := pc.client.Set(ctx, popularKey, val, pc.ttl).Err(); err != nil {
		slog.Warn("popular cache set error", "error", err)
	}
}

// Invalidate drops the cached ranking so the next read recomputes it.
func (pc *PopularCache) Invalidate(ctx context.Context) {
	if err := pc.client.Del(ctx, popularKey).Err(); err != nil {
		slog.Warn("popular cache invalidate error", "error", err)
	}
}
