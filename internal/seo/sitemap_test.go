// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arrowedge/site/internal/content"
)

type failingSource struct{}

func (failingSource) Name() string               { return "broken" }
func (failingSource) Prefix() string             { return PrefixBlog }
func (failingSource) Records() ([]Record, error) { return nil, errors.New("cannot load") }

type panickingSource struct{}

func (panickingSource) Name() string               { return "panics" }
func (panickingSource) Prefix() string             { return PrefixBlog }
func (panickingSource) Records() ([]Record, error) { panic("bad module") }

func TestBuildSitemapRawProjects(t *testing.T) {
	doc := map[string]any{
		"projects": []any{map[string]any{"slug": "a", "updatedAt": "2024-01-01"}},
	}
	got := BuildSitemap("https://arrowedge.in", nil, NewRawSource("projects", PrefixWork, doc))

	if len(got) != 1 {
		t.Fatalf("BuildSitemap() returned %d entries, want 1", len(got))
	}
	if got[0].URL != "https://arrowedge.in/work/a" || got[0].LastModified != "2024-01-01" {
		t.Errorf("entry = %+v, want url https://arrowedge.in/work/a lastModified 2024-01-01", got[0])
	}
}

func TestBuildSitemapOrderAndEscaping(t *testing.T) {
	static := []StaticRoute{{Path: "/"}, {Path: "/about"}}
	services := NewRawSource("services", PrefixServices, []any{"web design"})
	projects := NewRawSource("projects", PrefixWork, []any{"a/b"})
	blog := NewRawSource("blog", PrefixBlog, []any{"post", "post"})

	got := BuildSitemap("https://arrowedge.in/", static, services, projects, blog)

	var urls []string
	for _, e := range got {
		urls = append(urls, e.URL)
	}
	want := []string{
		"https://arrowedge.in",
		"https://arrowedge.in/about",
		"https://arrowedge.in/services/web%20design",
		"https://arrowedge.in/work/a%2Fb",
		"https://arrowedge.in/blog/post",
		"https://arrowedge.in/blog/post",
	}
	if diff := cmp.Diff(want, urls); diff != "" {
		t.Errorf("URLs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSitemapSkipsBrokenSources(t *testing.T) {
	got := BuildSitemap("https://arrowedge.in", nil,
		failingSource{},
		panickingSource{},
		NewRawSource("nil", PrefixWork, nil),
		NewRawSource("ok", PrefixWork, []any{"fine"}),
	)
	if len(got) != 1 || got[0].URL != "https://arrowedge.in/work/fine" {
		t.Errorf("BuildSitemap() = %+v, want only the healthy source", got)
	}
}

func TestSitemapBuilderAddSourceWeights(t *testing.T) {
	b := NewSitemapBuilder("https://arrowedge.in")
	n := b.AddSource(NewItemSource("projects", PrefixWork, ChangeFreqMonthly, "0.8", func() []content.Project {
		return []content.Project{{Slug: "x", UpdatedAt: "2024-01-01"}, {Slug: ""}}
	}))
	if n != 1 {
		t.Fatalf("AddSource() = %d, want 1", n)
	}

	want := []Entry{{
		URL:          "https://arrowedge.in/work/x",
		LastModified: "2024-01-01",
		ChangeFreq:   ChangeFreqMonthly,
		Priority:     "0.8",
	}}
	if diff := cmp.Diff(want, b.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestSitemapBuilderBuildXML(t *testing.T) {
	b := NewSitemapBuilder("https://arrowedge.in")
	b.AddStatic(StaticRoute{Path: "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"})
	b.AddSource(NewRawSource("blog", PrefixBlog, []any{map[string]any{"slug": "x", "updatedAt": "2024-01-01"}}))

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	xml := string(out)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		"<loc>https://arrowedge.in</loc>",
		"<changefreq>daily</changefreq>",
		"<priority>1.0</priority>",
		"<loc>https://arrowedge.in/blog/x</loc>",
		"<lastmod>2024-01-01</lastmod>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("Build() missing %q", want)
		}
	}
}

func TestGenerateSitemapFromCatalog(t *testing.T) {
	catalog, err := content.Load()
	if err != nil {
		t.Fatalf("content.Load() error = %v", err)
	}

	entries := BuildSitemap("https://arrowedge.in", DefaultStaticRoutes, CatalogSources(catalog)...)
	wantLen := len(DefaultStaticRoutes) + catalog.Services.Len() + catalog.Projects.Len() + catalog.Posts.Len()
	if len(entries) != wantLen {
		t.Fatalf("entries = %d, want %d", len(entries), wantLen)
	}

	firstService := entries[len(DefaultStaticRoutes)]
	if !strings.HasPrefix(firstService.URL, "https://arrowedge.in/services/") {
		t.Errorf("first content entry = %q, want a service", firstService.URL)
	}
	last := entries[len(entries)-1]
	if !strings.HasPrefix(last.URL, "https://arrowedge.in/blog/") || last.LastModified == "" {
		t.Errorf("last entry = %+v, want a dated blog post", last)
	}

	out, err := GenerateSitemap("https://arrowedge.in", catalog)
	if err != nil {
		t.Fatalf("GenerateSitemap() error = %v", err)
	}
	if got := strings.Count(string(out), "<url>"); got != wantLen {
		t.Errorf("GenerateSitemap() has %d <url> elements, want %d", got, wantLen)
	}
}
