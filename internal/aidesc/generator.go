// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package aidesc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/arrowedge/site/internal/cache"
)

// Result is the response body of an AI description request. AudioURL is
// always null; narration is not generated.
type Result struct {
	Description string  `json:"description"`
	AudioURL    *string `json:"audioUrl"`
}

// Generator wraps a Provider with result caching and logging.
type Generator struct {
	provider Provider
	results  *cache.TypedCache[Result]
	timeout  time.Duration
	logger   *slog.Logger
}

// NewGenerator creates a Generator. provider may be nil, in which case
// every call fails with ErrNotConfigured. store may be nil to disable caching.
func NewGenerator(provider Provider, store cache.Cache, ttl, timeout time.Duration, logger *slog.Logger) *Generator {
	g := &Generator{provider: provider, timeout: timeout, logger: logger}
	if store != nil {
		g.results = cache.NewTypedCache[Result](store, "aidesc:", ttl)
	}
	if g.timeout <= 0 {
		g.timeout = 30 * time.Second
	}
	return g
}

// Configured reports whether a provider is available.
func (g *Generator) Configured() bool {
	return g.provider != nil
}

// Describe returns a cached or freshly generated description.
func (g *Generator) Describe(ctx context.Context, req Request) (Result, error) {
	if g.provider == nil {
		return Result{}, ErrNotConfigured
	}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	generate := func(ctx context.Context) (Result, error) {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		start := time.Now()
		text, err := g.provider.Describe(ctx, req)
		if err != nil {
			return Result{}, err
		}
		g.logger.Info("ai description generated",
			"provider", g.provider.ID(),
			"model", g.provider.Model(),
			"duration", time.Since(start),
		)
		return Result{Description: text}, nil
	}

	if g.results == nil {
		return generate(ctx)
	}
	return g.results.GetOrSet(ctx, g.cacheKey(req), generate)
}

// cacheKey hashes the provider, model and normalised request fields.
func (g *Generator) cacheKey(req Request) string {
	h := sha256.New()
	for _, part := range []string{
		g.provider.ID(),
		g.provider.Model(),
		strings.TrimSpace(req.ProjectTitle),
		strings.TrimSpace(req.ProjectDescription),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
