// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SitemapKey is the key the rendered sitemap is stored under.
const SitemapKey = "sitemap:xml"

// SitemapCache provides cached sitemap XML generation.
// The sitemap is regenerated when invalidated or when TTL expires.
type SitemapCache struct {
	backend  Cache
	generate func(ctx context.Context) ([]byte, error)
	ttl      time.Duration
	mu       sync.Mutex

	cachedAt atomic.Pointer[time.Time]
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewSitemapCache creates a sitemap cache. TTL defaults to 1 hour.
func NewSitemapCache(backend Cache, ttl time.Duration, generate func(ctx context.Context) ([]byte, error)) *SitemapCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &SitemapCache{
		backend:  backend,
		generate: generate,
		ttl:      ttl,
	}
}

// Get returns the cached sitemap XML, generating it if needed.
func (c *SitemapCache) Get(ctx context.Context) ([]byte, error) {
	if xml, err := c.backend.Get(ctx, SitemapKey); err == nil {
		c.hits.Add(1)
		return xml, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the lock.
	if xml, err := c.backend.Get(ctx, SitemapKey); err == nil {
		c.hits.Add(1)
		return xml, nil
	}

	c.misses.Add(1)
	return c.regenerateLocked(ctx)
}

// Rebuild regenerates the sitemap unconditionally.
func (c *SitemapCache) Rebuild(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regenerateLocked(ctx)
}

func (c *SitemapCache) regenerateLocked(ctx context.Context) ([]byte, error) {
	xml, err := c.generate(ctx)
	if err != nil {
		return nil, err
	}

	// A backend failure still serves the freshly built document.
	if err := c.backend.Set(ctx, SitemapKey, xml, c.ttl); err == nil {
		now := time.Now()
		c.cachedAt.Store(&now)
	}
	return xml, nil
}

// CachedAt returns when the sitemap was last stored, or the zero time.
func (c *SitemapCache) CachedAt() time.Time {
	if t := c.cachedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Stats returns hit and miss counts of sitemap requests.
func (c *SitemapCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{Hits: hits, Misses: misses, HitRate: hitRate(hits, misses)}
}
