package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"ChartFeed/internal/model"
)

// SeriesCache stores raw series between requests.
type SeriesCache interface {
	GetSeries(ctx context.Context, key string) (model.Series, bool, error)
	SetSeries(ctx context.Context, key string, series model.Series, ttl time.Duration) error
}

// CachedProvider serves FetchSeries from a SeriesCache when possible.
// Cache failures are logged and bypassed; fetch failures are returned as-is and never cached.
type CachedProvider struct {
	Provider
	Cache SeriesCache
	TTL   map[model.Granularity]time.Duration
}

// WithCache wraps p. A nil cache returns p unchanged.
func WithCache(p Provider, cache SeriesCache, ttl map[model.Granularity]time.Duration) Provider {
	if cache == nil {
		return p
	}
	return &CachedProvider{Provider: p, Cache: cache, TTL: ttl}
}

// CacheKey identifies a raw series by granularity, pair and limit.
func CacheKey(p Provider) string {
	return fmt.Sprintf("history:%s:%s:%s:%d", p.Granularity(), p.APIParam("fsym"), p.APIParam("tsym"), p.Limit())
}

func (c *CachedProvider) FetchSeries(ctx context.Context) (model.Series, error) {
	key := CacheKey(c.Provider)

	series, ok, err := c.Cache.GetSeries(ctx, key)
	if err != nil {
		log.Printf("[WARN] series cache get %s: %v", key, err)
	} else if ok {
		return series, nil
	}

	series, err = c.Provider.FetchSeries(ctx)
	if err != nil {
		return nil, err
	}

	ttl := c.TTL[c.Provider.Granularity()]
	if ttl > 0 {
		if err := c.Cache.SetSeries(ctx, key, series, ttl); err != nil {
			log.Printf("[WARN] series cache set %s: %v", key, err)
		}
	}
	return series, nil
}
