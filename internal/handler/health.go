// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/arrowedge/site/internal/cache"
	"github.com/arrowedge/site/internal/content"
	"github.com/arrowedge/site/internal/scheduler"
	"github.com/arrowedge/site/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	cache     cache.Cache
	cacheKind string
	catalog   *content.Catalog
	version   version.Info
	startTime time.Time
	details   HealthDetails
}

// JobLister reports registered background jobs.
type JobLister interface {
	List() []scheduler.JobInfo
}

// SitemapState reports the state of the cached sitemap.
type SitemapState interface {
	CachedAt() time.Time
	Stats() cache.Stats
}

// HealthDetails are included in verbose responses. Nil members are
// omitted.
type HealthDetails struct {
	Jobs     JobLister
	Sitemap  SitemapState
	Features map[string]bool
}

// NewHealthHandler creates a new health handler. cacheKind is "redis" or
// "memory" as reported by cache.New.
func NewHealthHandler(c cache.Cache, cacheKind string, catalog *content.Catalog, info version.Info) *HealthHandler {
	return &HealthHandler{
		cache:     c,
		cacheKind: cacheKind,
		catalog:   catalog,
		version:   info,
		startTime: time.Now(),
	}
}

// WithDetails sets what verbose responses report and returns h.
func (h *HealthHandler) WithDetails(d HealthDetails) *HealthHandler {
	h.details = d
	return h
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string              `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Uptime    string              `json:"uptime"`
	Version   string              `json:"version"`
	Checks    map[string]Check    `json:"checks"`
	System    *SystemInfo         `json:"system,omitempty"`
	Features  map[string]bool     `json:"features,omitempty"`
	Sitemap   *SitemapInfo        `json:"sitemap,omitempty"`
	Jobs      []scheduler.JobInfo `json:"jobs,omitempty"`
}

// SitemapInfo describes the cached sitemap.
type SitemapInfo struct {
	CachedAt *time.Time `json:"cached_at,omitempty"`
	Hits     int64      `json:"hits"`
	Misses   int64      `json:"misses"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information, included with ?verbose=true.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health. The response is 503 when any check fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"cache":   h.checkCache(r.Context()),
		"content": h.checkContent(),
	}

	overall := "healthy"
	statusCode := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			overall = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
		h.addDetails(&status)
	}

	writeJSON(w, statusCode, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) addDetails(status *HealthStatus) {
	status.Features = h.details.Features
	if h.details.Jobs != nil {
		status.Jobs = h.details.Jobs.List()
	}
	if sm := h.details.Sitemap; sm != nil {
		stats := sm.Stats()
		info := &SitemapInfo{Hits: stats.Hits, Misses: stats.Misses}
		if at := sm.CachedAt(); !at.IsZero() {
			info.CachedAt = &at
		}
		status.Sitemap = info
	}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	pinger, ok := h.cache.(cache.Pinger)
	if !ok {
		return Check{Status: "healthy", Message: h.cacheKind}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := pinger.Ping(ctx); err != nil {
		return Check{Status: "unhealthy", Message: "cache unreachable"}
	}
	return Check{Status: "healthy", Message: h.cacheKind, Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkContent() Check {
	if h.catalog == nil || h.catalog.Projects.Len() == 0 || h.catalog.Services.Len() == 0 {
		return Check{Status: "unhealthy", Message: "content not loaded"}
	}
	return Check{
		Status: "healthy",
		Message: fmt.Sprintf("%d projects, %d services, %d posts",
			h.catalog.Projects.Len(), h.catalog.Services.Len(), h.catalog.Posts.Len()),
	}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
	}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
