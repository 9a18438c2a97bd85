package resolver

import (
	"context"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
)

// Cache is the storage behind Cached, making it swappable (memory vs SQLite).
type Cache interface {
	GetResolution(ctx context.Context, code domain.ShareCode) (string, bool, error)
	PutResolution(ctx context.Context, code domain.ShareCode, url string) error
}

// Cached "decorates" a resolver so each share code runs the lookup tool once.
// Only successful lookups are kept; failures are retried next time.
type Cached struct {
	inner  Resolver
	cache  Cache
	logger *logger.Logger
}

func NewCached(inner Resolver, cache Cache, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cached{inner: inner, cache: cache, logger: log}
}

func (c *Cached) Resolve(ctx context.Context, code domain.ShareCode) (domain.ResolvedURL, error) {
	// 1. Check the cache first
	if url, ok, err := c.cache.GetResolution(ctx, code); err != nil {
		c.logger.Warn("Resolution cache read failed for %s: %v", code, err)
	} else if ok {
		c.logger.Debug("Cache hit for share code: %s", code)
		return domain.ResolvedURL{Code: code, URL: url}, nil
	}

	// 2. Cache miss: run the real lookup
	res, err := c.inner.Resolve(ctx, code)
	if err != nil {
		return res, err
	}

	// 3. Save for next time
	if err := c.cache.PutResolution(ctx, code, res.URL); err != nil {
		c.logger.Warn("Resolution cache write failed for %s: %v", code, err)
	}
	return res, nil
}
