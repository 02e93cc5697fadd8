// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed cache of posts looked up by slug.
// Entries are JSON-encoded posts with their categories resolved; writers
// invalidate them, and the TTL bounds how long a missed invalidation can
// serve stale data.
//
// A reader can load a row just before a writer commits and invalidates,
// then cache the old row afterwards. Invalidation therefore leaves a short
// lived guard key, and Set refuses to write while a guard for the slug (or
// the flush guard) exists. Set watches the guards, so a guard written
// between the check and the write aborts the write as well.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/metrics"
	"inkwell/internal/models"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached posts.
	postKeyPrefix = "post:slug:"

	// guardKeyPrefix marks slugs invalidated within the guard window.
	guardKeyPrefix = "post:guard:"

	// flushGuardKey marks a recent InvalidateAll.
	flushGuardKey = "post:guard-all"

	// DefaultInvalidationGuard is how long Set is refused after an
	// invalidation.
	DefaultInvalidationGuard = 10 * time.Second

	// DefaultPostTTL is how long a cached post stays valid.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache caches posts in Valkey. Failures are logged and treated as
// misses; the database stays the source of truth.
type PostCache struct {
	client  *redis.Client
	ttl     time.Duration
	guard   time.Duration
	metrics *metrics.Metrics
}

// NewPostCache creates a post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl, guard: DefaultInvalidationGuard}
}

// WithMetrics makes the cache count hits and misses on m.
func (pc *PostCache) WithMetrics(m *metrics.Metrics) *PostCache {
	pc.metrics = m
	return pc
}

// SlugKey returns the Valkey key for a post slug.
func SlugKey(slug string) string {
	return postKeyPrefix + slug
}

func guardKey(slug string) string {
	return guardKeyPrefix + slug
}

// Get returns the cached post for slug, if any.
func (pc *PostCache) Get(ctx context.Context, slug string) (*models.Post, bool) {
	val, err := pc.client.Get(ctx, SlugKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		pc.metrics.RecordCacheMiss(ctx)
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "slug", slug, "error", err)
		pc.metrics.RecordCacheMiss(ctx)
		return nil, false
	}

	var p models.Post
	if err := json.Unmarshal(val, &p); err != nil {
		slog.Warn("post cache decode error", "slug", slug, "error", err)
		pc.Invalidate(ctx, slug)
		pc.metrics.RecordCacheMiss(ctx)
		return nil, false
	}
	slog.Debug("post cache hit", "slug", slug)
	pc.metrics.RecordCacheHit(ctx)
	return &p, true
}

// Set stores a post under its slug with the configured TTL. The write is
// skipped while the slug is guarded by a recent invalidation.
func (pc *PostCache) Set(ctx context.Context, p *models.Post) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Warn("post cache encode error", "slug", p.Slug, "error", err)
		return
	}

	guard := guardKey(p.Slug)
	var guarded bool
	err = pc.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, guard, flushGuardKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			guarded = true
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SlugKey(p.Slug), data, pc.ttl)
			return nil
		})
		return err
	}, guard, flushGuardKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		slog.Debug("post cache set raced with invalidation", "slug", p.Slug)
	case err != nil:
		slog.Warn("post cache set error", "slug", p.Slug, "error", err)
	case guarded:
		slog.Debug("post cache set skipped, slug recently invalidated", "slug", p.Slug)
	}
}

// Invalidate removes the cached posts for the given slugs.
func (pc *PostCache) Invalidate(ctx context.Context, slugs ...string) {
	if len(slugs) == 0 {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, SlugKey(s))
	}
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, s := range slugs {
			pipe.Set(ctx, guardKey(s), 1, pc.guard)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		slog.Warn("post cache invalidate error", "slugs", slugs, "error", err)
		return
	}
	slog.Debug("post cache invalidated", "slugs", slugs)
}

// InvalidateAll removes every cached post by scanning for the prefix.
// Used when a category changes, since any post could embed it.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	if err := pc.client.Set(ctx, flushGuardKey, 1, pc.guard).Err(); err != nil {
		slog.Warn("post cache flush guard error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache cleared", "deleted", deleted)
	}
}
