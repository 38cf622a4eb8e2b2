// Package cache provides the Redis-backed query-result cache. Keys are
// derived from the compiled postfix form of the query, so differently
// written but equivalent queries share an entry, and concurrent misses
// for one key collapse into a single computation via singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/AKNosov/InfSearch/internal/searcher/parser"
	"github.com/AKNosov/InfSearch/pkg/config"
	pkgredis "github.com/AKNosov/InfSearch/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches sorted result id lists per canonical query.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New wraps a Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// GetOrCompute returns the cached ids for query, or runs computeFn once
// per key across concurrent callers and caches its result. The bool
// reports whether the value came from cache.
func (c *QueryCache) GetOrCompute(ctx context.Context, query string, computeFn func() []int) ([]int, bool) {
	key := c.buildKey(query)
	if ids, ok := c.get(ctx, key); ok {
		return ids, true
	}

	type result struct {
		ids []int
		hit bool
	}
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if ids, ok := c.get(ctx, key); ok {
			return result{ids: ids, hit: true}, nil
		}
		ids := computeFn()
		c.set(ctx, key, ids)
		return result{ids: ids}, nil
	})
	r := val.(result)
	return r.ids, r.hit
}

func (c *QueryCache) get(ctx context.Context, key string) ([]int, bool) {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var ids []int
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return ids, true
}

func (c *QueryCache) set(ctx context.Context, key string, ids []int) {
	data, err := json.Marshal(ids)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// Invalidate removes every cached query result; called before a rebuilt
// snapshot goes live.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the canonical postfix form of the query.
func (c *QueryCache) buildKey(query string) string {
	canonical := CanonicalQuery(query)
	hash := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// CanonicalQuery renders the compiled postfix program as a stable
// string: terms verbatim, operators as symbols, space-separated.
func CanonicalQuery(query string) string {
	postfix := parser.Compile(query)
	parts := make([]string, 0, len(postfix))
	for _, tk := range postfix {
		switch tk.Type {
		case parser.TokenTerm:
			parts = append(parts, tk.Term)
		case parser.TokenAnd:
			parts = append(parts, "&")
		case parser.TokenOr:
			parts = append(parts, "|")
		case parser.TokenNot:
			parts = append(parts, "!")
		}
	}
	return strings.Join(parts, " ")
}
