// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"time"
)

// Job names.
const (
	JobSitemapRebuild = "sitemap-rebuild"
	JobLimiterPrune   = "ratelimit-prune"
)

// SitemapRebuilder regenerates the cached sitemap.
type SitemapRebuilder interface {
	Rebuild(ctx context.Context) ([]byte, error)
}

// Pruner drops idle per-client state.
type Pruner interface {
	Prune(maxIdle time.Duration) int
}

// SiteJobs configures the maintenance jobs of the site.
type SiteJobs struct {
	Sitemap         SitemapRebuilder
	SitemapSchedule string

	Limiters      []Pruner
	PruneSchedule string
	MaxIdle       time.Duration
}

// RegisterSiteJobs adds the sitemap rebuild and limiter prune jobs. Jobs
// whose dependency is missing are not registered.
func (s *Scheduler) RegisterSiteJobs(cfg SiteJobs) error {
	if cfg.Sitemap != nil {
		schedule := cfg.SitemapSchedule
		if schedule == "" {
			schedule = "@hourly"
		}
		err := s.Add(JobSitemapRebuild, "Regenerate sitemap.xml", schedule, func(ctx context.Context) error {
			xml, err := cfg.Sitemap.Rebuild(ctx)
			if err != nil {
				return fmt.Errorf("rebuilding sitemap: %w", err)
			}
			s.logger.Info("sitemap rebuilt", "bytes", len(xml))
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(cfg.Limiters) > 0 {
		schedule := cfg.PruneSchedule
		if schedule == "" {
			schedule = "*/10 * * * *"
		}
		maxIdle := cfg.MaxIdle
		if maxIdle <= 0 {
			maxIdle = 30 * time.Minute
		}
		err := s.Add(JobLimiterPrune, "Drop idle rate limiter entries", schedule, func(context.Context) error {
			removed := 0
			for _, l := range cfg.Limiters {
				removed += l.Prune(maxIdle)
			}
			if removed > 0 {
				s.logger.Debug("pruned rate limiter entries", "removed", removed)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
