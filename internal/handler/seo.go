// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/arrowedge/site/internal/seo"
)

// SitemapSource returns the rendered sitemap document.
type SitemapSource interface {
	Get(ctx context.Context) ([]byte, error)
}

// SEOHandler serves /sitemap.xml and /robots.txt.
type SEOHandler struct {
	sitemap SitemapSource
	robots  string
	logger  *slog.Logger
}

// NewSEOHandler creates an SEO handler. robots.txt is built once since its
// inputs only change with configuration.
func NewSEOHandler(sitemap SitemapSource, robots seo.RobotsConfig, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		sitemap: sitemap,
		robots:  seo.NewRobotsBuilder(robots).Build(),
		logger:  logger,
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	xml, err := h.sitemap.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to generate sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(xml)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(h.robots))
}
