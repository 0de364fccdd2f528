// Package matchcache caches ranked match lists in Redis. The cache is a
// best-effort read-through layer: every failure degrades to recomputation
// and is logged, never returned.
package matchcache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/metrics"
)

// DefaultTTL bounds how stale a cached ranking can get.
const DefaultTTL = 5 * time.Minute

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache implements usecase/match.ResultCache.
type Cache struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a match result cache.
func New(s store, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, ttl: ttl, logger: logger}
}

// Get returns the cached ranking for key, if present and decodable.
func (c *Cache) Get(ctx context.Context, key string) ([]domain.RankedMatch, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.MatchCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var matches []domain.RankedMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.Invalidate(ctx, key)
		metrics.MatchCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.MatchCacheTotal.WithLabelValues("hit").Inc()
	return matches, true
}

// Set stores a ranking under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, matches []domain.RankedMatch) {
	data, err := json.Marshal(matches)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes one cached ranking.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn("failed to drop cache entry", zap.String("key", key), zap.Error(err))
	}
}
