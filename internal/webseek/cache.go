package webseek

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
	"github.com/ollachat/ollachat/internal/kv"
)

const cacheKeyPrefix = "ollachat:search_cache:"

// cacheStore is the consumer interface for the search cache (ISP).
type cacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher caches formatted search context in a key-value store
// for a short TTL. Stale-but-recent results beat a five-hop provider
// chain on every repeated query. Cache failures degrade to a miss.
type CachedSearcher struct {
	inner      Searcher
	store      cacheStore
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCachedSearcher creates the caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCachedSearcher(
	inner Searcher,
	s cacheStore,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// SearchWeb returns cached context or delegates to the inner searcher.
// Only successful searches are cached; exhaustion is retried next time.
func (c *CachedSearcher) SearchWeb(ctx context.Context, query string, loc *domain.Location) (string, bool) {
	key := c.cacheKey(query, loc)

	if data, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return string(data), true
	}
	c.incCache("miss")

	formatted, ok := c.inner.SearchWeb(ctx, query, loc)
	if ok {
		if err := c.store.SetWithTTL(ctx, key, []byte(formatted), c.ttl); err != nil {
			c.logger.Warn("failed to cache search results", zap.Error(err))
		}
	}
	return formatted, ok
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the query plus the place name, since localization
// changes what the chain would fetch.
func (c *CachedSearcher) cacheKey(query string, loc *domain.Location) string {
	city := ""
	if loc != nil {
		city = loc.City
	}
	h := sha256.Sum256([]byte(query + "\x00" + city))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			c.logger.Warn("failed to get cached search results", zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}
