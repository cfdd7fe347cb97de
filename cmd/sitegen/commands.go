// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arrowedge/site/internal/content"
	"github.com/arrowedge/site/internal/logging"
	"github.com/arrowedge/site/internal/seo"
	"github.com/arrowedge/site/internal/version"
)

// Output file names.
const (
	sitemapFile = "sitemap.xml"
	robotsFile  = "robots.txt"
	indexFile   = "content-index.json"
)

type options struct {
	origin      string
	outDir      string
	sources     []string
	disallowAll bool
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sitegen",
		Short:         "Generate the static SEO files of the Arrowedge site",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.origin, "origin", envOr("ARROWEDGE_SITE_URL", "https://arrowedge.in"), "public origin of the site")
	root.PersistentFlags().StringVarP(&opts.outDir, "out", "o", "public", "output directory")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml",
		Long: `Write sitemap.xml from the embedded content plus any extra raw sources.

A raw source is given as name:prefix:path, for example
  --source case-studies:/work/:exports/projects.json
The file may be JSON or YAML holding an array of records or an object
whose default/posts/items/data key holds one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSitemap(opts, logger(cmd, opts))
		},
	}
	sitemapCmd.Flags().StringArrayVar(&opts.sources, "source", nil, "extra raw source as name:prefix:path (repeatable)")

	robotsCmd := &cobra.Command{
		Use:   "robots",
		Short: "Write robots.txt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeRobots(opts, logger(cmd, opts))
		},
	}
	robotsCmd.Flags().BoolVar(&opts.disallowAll, "disallow-all", false, "block all crawlers (staging)")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Write a JSON index of every content item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeIndex(opts, logger(cmd, opts))
		},
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Write sitemap.xml, robots.txt and the content index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := logger(cmd, opts)
			for _, step := range []func(*options, *slog.Logger) error{writeSitemap, writeRobots, writeIndex} {
				if err := step(opts, l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	allCmd.Flags().StringArrayVar(&opts.sources, "source", nil, "extra raw source as name:prefix:path (repeatable)")
	allCmd.Flags().BoolVar(&opts.disallowAll, "disallow-all", false, "block all crawlers (staging)")

	root.AddCommand(sitemapCmd, robotsCmd, indexCmd, allCmd)
	return root
}

func logger(cmd *cobra.Command, opts *options) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), opts.logLevel)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseSource splits a name:prefix:path flag value. The path may itself
// contain colons.
func parseSource(spec string) (*seo.RawSource, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, fmt.Errorf("invalid --source %q, want name:prefix:path", spec)
	}
	prefix := parts[1]
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return seo.LoadRawSource(parts[0], prefix, parts[2])
}

func writeSitemap(opts *options, l *slog.Logger) error {
	catalog, err := content.Load()
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	b := seo.NewSitemapBuilder(opts.origin).WithLogger(l)
	b.AddStatic(seo.DefaultStaticRoutes...)
	for _, src := range seo.CatalogSources(catalog) {
		b.AddSource(src)
	}
	for _, spec := range opts.sources {
		src, err := parseSource(spec)
		if err != nil {
			// An unreadable source is skipped like a malformed one.
			l.Warn("sitemap source skipped", "source", spec, "error", err)
			continue
		}
		n := b.AddSource(src)
		l.Info("sitemap source added", "source", src.Name(), "entries", n)
	}

	xml, err := b.Build()
	if err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	if err := writeFile(opts.outDir, sitemapFile, xml); err != nil {
		return err
	}
	l.Info("sitemap written", "path", filepath.Join(opts.outDir, sitemapFile), "urls", len(b.Entries()))
	return nil
}

func writeRobots(opts *options, l *slog.Logger) error {
	robots := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     opts.origin,
		DisallowAll: opts.disallowAll,
	}).Build()
	if err := writeFile(opts.outDir, robotsFile, []byte(robots)); err != nil {
		return err
	}
	l.Info("robots.txt written", "path", filepath.Join(opts.outDir, robotsFile))
	return nil
}

// IndexEntry is one item of the content index.
type IndexEntry struct {
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Category string   `json:"category,omitempty"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags,omitempty"`
}

func buildIndex(origin string, catalog *content.Catalog) []IndexEntry {
	site := &seo.Site{URL: origin}
	title := cases.Title(language.English)

	var entries []IndexEntry
	for _, p := range catalog.Projects.All() {
		entries = append(entries, IndexEntry{
			Kind:     "project",
			Title:    p.Title,
			URL:      site.Absolute(seo.RouteWork + "/" + p.Slug),
			Category: string(p.Category),
			Summary:  p.ShortDescription,
			Tags:     p.Tags,
		})
	}
	for _, s := range catalog.Services.All() {
		entries = append(entries, IndexEntry{
			Kind:    "service",
			Title:   s.Title,
			URL:     site.Absolute(seo.RouteServices + "/" + s.Slug),
			Summary: s.ShortDescription,
		})
	}
	for _, p := range catalog.LatestPosts(0) {
		entries = append(entries, IndexEntry{
			Kind:     "post",
			Title:    p.Title,
			URL:      site.Absolute(seo.RouteBlog + "/" + p.Slug),
			Category: title.String(p.Category),
			Summary:  p.Excerpt,
			Tags:     p.Tags,
		})
	}
	return entries
}

func writeIndex(opts *options, l *slog.Logger) error {
	catalog, err := content.Load()
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	entries := buildIndex(opts.origin, catalog)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := writeFile(opts.outDir, indexFile, append(data, '\n')); err != nil {
		return err
	}
	l.Info("content index written", "path", filepath.Join(opts.outDir, indexFile), "entries", len(entries))
	return nil
}

func writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
