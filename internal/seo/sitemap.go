// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/arrowedge/site/internal/content"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// Detail page prefixes used when building sitemap URLs.
const (
	PrefixServices = RouteServices + "/"
	PrefixWork     = RouteWork + "/"
	PrefixBlog     = RouteBlog + "/"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is one URL of the generated sitemap.
type Entry struct {
	URL          string     `json:"url"`
	LastModified string     `json:"lastModified,omitempty"`
	ChangeFreq   ChangeFreq `json:"changeFrequency,omitempty"`
	Priority     string     `json:"priority,omitempty"`
}

// StaticRoute is a fixed page listed ahead of the content collections.
type StaticRoute struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   string
}

// DefaultStaticRoutes are the site's top-level pages.
var DefaultStaticRoutes = []StaticRoute{
	{Path: "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
	{Path: "/work", ChangeFreq: ChangeFreqWeekly, Priority: "0.9"},
	{Path: "/services", ChangeFreq: ChangeFreqMonthly, Priority: "0.9"},
	{Path: "/blog", ChangeFreq: ChangeFreqWeekly, Priority: "0.8"},
	{Path: "/about", ChangeFreq: ChangeFreqMonthly, Priority: "0.7"},
	{Path: "/contact", ChangeFreq: ChangeFreqYearly, Priority: "0.6"},
	{Path: "/privacy", ChangeFreq: ChangeFreqYearly, Priority: "0.3"},
}

// Source yields the records of one content collection.
type Source interface {
	Name() string
	Prefix() string
	Records() ([]Record, error)
}

// weighted is implemented by sources that carry their own changefreq and
// priority hints.
type weighted interface {
	ChangeFreq() ChangeFreq
	Priority() string
}

type weight struct {
	freq     ChangeFreq
	priority string
}

func (w weight) ChangeFreq() ChangeFreq { return w.freq }
func (w weight) Priority() string       { return w.priority }

// ItemSource adapts a typed content collection into a Source.
type ItemSource[T Sluggable] struct {
	name   string
	prefix string
	items  func() []T
	weight
}

// NewItemSource creates a Source over items. The func is called on every
// Records call so a rebuilt sitemap always sees the current collection.
func NewItemSource[T Sluggable](name, prefix string, freq ChangeFreq, priority string, items func() []T) *ItemSource[T] {
	return &ItemSource[T]{
		name:   name,
		prefix: prefix,
		items:  items,
		weight: weight{freq: freq, priority: priority},
	}
}

// Name implements Source.
func (s *ItemSource[T]) Name() string { return s.name }

// Prefix implements Source.
func (s *ItemSource[T]) Prefix() string { return s.prefix }

// Records implements Source.
func (s *ItemSource[T]) Records() ([]Record, error) {
	items := s.items()
	elems := make([]any, 0, len(items))
	for _, it := range items {
		elems = append(elems, it)
	}
	return Normalize(elems), nil
}

// CatalogSources returns the content collections in sitemap order:
// services, projects, then blog posts.
func CatalogSources(c *content.Catalog) []Source {
	return []Source{
		NewItemSource("services", PrefixServices, ChangeFreqMonthly, "0.8", c.Services.All),
		NewItemSource("projects", PrefixWork, ChangeFreqMonthly, "0.8", c.Projects.All),
		NewItemSource("blog", PrefixBlog, ChangeFreqWeekly, "0.7", c.Posts.All),
	}
}

// SitemapBuilder accumulates sitemap entries.
type SitemapBuilder struct {
	origin  string
	entries []Entry
	logger  *slog.Logger
}

// NewSitemapBuilder creates a new sitemap builder for the given origin.
func NewSitemapBuilder(origin string) *SitemapBuilder {
	return &SitemapBuilder{
		origin:  strings.TrimSuffix(origin, "/"),
		entries: make([]Entry, 0),
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used to report failing sources.
func (b *SitemapBuilder) WithLogger(logger *slog.Logger) *SitemapBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// AddStatic adds fixed routes. The homepage is listed as the bare origin.
func (b *SitemapBuilder) AddStatic(routes ...StaticRoute) {
	for _, r := range routes {
		loc := b.origin + r.Path
		if r.Path == "/" || r.Path == "" {
			loc = b.origin
		}
		b.entries = append(b.entries, Entry{URL: loc, ChangeFreq: r.ChangeFreq, Priority: r.Priority})
	}
}

// AddSource adds one entry per record of src and returns how many were
// added. A failing source is logged and contributes nothing.
func (b *SitemapBuilder) AddSource(src Source) int {
	records, err := b.records(src)
	if err != nil {
		b.logger.Warn("sitemap source skipped", "source", src.Name(), "error", err)
		return 0
	}

	var freq ChangeFreq
	var priority string
	if w, ok := src.(weighted); ok {
		freq, priority = w.ChangeFreq(), w.Priority()
	}

	for _, r := range records {
		b.entries = append(b.entries, Entry{
			URL:          b.origin + src.Prefix() + url.PathEscape(r.Slug),
			LastModified: r.UpdatedAt,
			ChangeFreq:   freq,
			Priority:     priority,
		})
	}
	return len(records)
}

// records guards against sources that panic on malformed data.
func (b *SitemapBuilder) records(src Source) (records []Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, fmt.Errorf("source panicked: %v", p)
		}
	}()
	return src.Records()
}

// Entries returns the accumulated entries in insertion order.
func (b *SitemapBuilder) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	return EncodeSitemap(b.entries)
}

// EncodeSitemap renders entries as a sitemap urlset document.
func EncodeSitemap(entries []Entry) ([]byte, error) {
	urls := make([]SitemapURL, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, SitemapURL{
			Loc:        e.URL,
			LastMod:    e.LastModified,
			ChangeFreq: e.ChangeFreq,
			Priority:   e.Priority,
		})
	}
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// BuildSitemap lists static routes first, then every source in order.
// Entries are not de-duplicated.
func BuildSitemap(origin string, static []StaticRoute, sources ...Source) []Entry {
	b := NewSitemapBuilder(origin)
	b.AddStatic(static...)
	for _, src := range sources {
		b.AddSource(src)
	}
	return b.Entries()
}

// GenerateSitemap is a convenience function to generate the site's sitemap
// XML from the content catalog plus any extra sources.
func GenerateSitemap(origin string, c *content.Catalog, extra ...Source) ([]byte, error) {
	sources := append(CatalogSources(c), extra...)
	return EncodeSitemap(BuildSitemap(origin, DefaultStaticRoutes, sources...))
}
