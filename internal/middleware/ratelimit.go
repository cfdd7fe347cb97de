// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arrowedge/site/internal/util"
)

// limiterEntry pairs a token bucket with the last time it was consulted.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache is a keyed set of token buckets with double-check locking.
type limiterCache[K comparable] struct {
	mu       sync.RWMutex
	limiters map[K]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// get returns the limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	now := lc.now()

	lc.mu.RLock()
	entry, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		lc.mu.Lock()
		entry.lastSeen = now
		lc.mu.Unlock()
		return entry.limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if entry, exists = lc.limiters[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	entry = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst), lastSeen: now}
	lc.limiters[key] = entry
	return entry.limiter
}

// prune drops limiters idle for longer than maxIdle and returns how many went.
func (lc *limiterCache[K]) prune(maxIdle time.Duration) int {
	cutoff := lc.now().Add(-maxIdle)

	lc.mu.Lock()
	defer lc.mu.Unlock()

	removed := 0
	for key, entry := range lc.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(lc.limiters, key)
			removed++
		}
	}
	return removed
}

func (lc *limiterCache[K]) len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	name  string
	cache *limiterCache[string]
}

// NewRateLimiter creates a per-IP limiter allowing rps requests per second
// with the given burst. The name shows up in log lines.
func NewRateLimiter(name string, rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		name:  name,
		cache: newLimiterCache[string](rps, burst),
	}
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.cache.get(ip).Allow()
}

// Prune forgets clients that have not been seen for maxIdle.
func (rl *RateLimiter) Prune(maxIdle time.Duration) int {
	return rl.cache.prune(maxIdle)
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	return rl.cache.len()
}

// retryAfter is the whole number of seconds until one token is available.
func (rl *RateLimiter) retryAfter() string {
	if rl.cache.rate <= 0 {
		return "60"
	}
	secs := int(1/float64(rl.cache.rate) + 0.999)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Middleware returns the rate limiting middleware for API routes (JSON errors).
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !rl.Allow(ip) {
				slog.Warn("api rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", rl.retryAfter())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Too many requests. Please slow down.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HTMLMiddleware returns the rate limiting middleware for page routes
// (plain text errors).
func (rl *RateLimiter) HTMLMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !rl.Allow(ip) {
				slog.Warn("page rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", rl.retryAfter())
				http.Error(w, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
