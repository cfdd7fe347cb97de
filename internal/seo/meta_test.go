// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arrowedge/site/internal/content"
)

func testSite() *Site {
	return &Site{
		Name:           "Arrowedge",
		URL:            "https://arrowedge.in/",
		Description:    "Design and development studio",
		DefaultOGImage: "/images/og-default.jpg",
		TwitterHandle:  "@arrowedge",
		AreaServed:     "Worldwide",
	}
}

func testProject(withTestimonial bool) content.Project {
	p := content.Project{
		ID:               1,
		Slug:             "malik-architecture",
		Title:            "Malik Architecture",
		Category:         content.CategoryDesignDevelopment,
		Year:             2024,
		ShortDescription: "Portfolio site for an architecture practice.",
		Images:           content.ImageSet{Desktop: "/images/work/malik/desktop.jpg"},
		Technologies: []content.Technology{
			{Name: "Next.js", Category: content.TechFrontend},
			{Name: "Sanity", Category: content.TechBackend},
		},
		Tags: []string{"architecture", "Next.js"},
	}
	if withTestimonial {
		p.Testimonial = &content.Testimonial{Quote: "Superb.", Author: "Ayesha Malik", Role: "Principal", Rating: 5}
	}
	return p
}

// decodeJSONLD decodes the first JSON-LD block of m into a generic map.
func decodeJSONLD(t *testing.T, m *Meta) map[string]any {
	t.Helper()
	if len(m.JSONLD) == 0 {
		t.Fatal("Meta has no JSON-LD blocks")
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(m.JSONLD[0]), &v); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	return v
}

func TestForProject(t *testing.T) {
	m := ForProject(testSite(), testProject(true))

	want := &Meta{
		Title:              "Malik Architecture | Arrowedge",
		Description:        "Portfolio site for an architecture practice.",
		Keywords:           "architecture, Next.js, Design & Development, Sanity",
		Canonical:          "https://arrowedge.in/work/malik-architecture",
		OGTitle:            "Malik Architecture | Arrowedge",
		OGDescription:      "Portfolio site for an architecture practice.",
		OGImage:            "https://arrowedge.in/images/work/malik/desktop.jpg",
		OGType:             "article",
		OGSiteName:         "Arrowedge",
		OGURL:              "https://arrowedge.in/work/malik-architecture",
		Robots:             "index,follow",
		TwitterCard:        "summary_large_image",
		TwitterSite:        "@arrowedge",
		TwitterTitle:       "Malik Architecture | Arrowedge",
		TwitterDescription: "Portfolio site for an architecture practice.",
		TwitterImage:       "https://arrowedge.in/images/work/malik/desktop.jpg",
	}
	if diff := cmp.Diff(want, m, cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".JSONLD"
	}, cmp.Ignore())); diff != "" {
		t.Errorf("ForProject() mismatch (-want +got):\n%s", diff)
	}

	ld := decodeJSONLD(t, m)
	if ld["@type"] != "CreativeWork" {
		t.Errorf("@type = %v, want CreativeWork", ld["@type"])
	}
	if ld["dateCreated"] != "2024" {
		t.Errorf("dateCreated = %v, want 2024", ld["dateCreated"])
	}
	review, ok := ld["review"].(map[string]any)
	if !ok {
		t.Fatal("review block missing")
	}
	if review["reviewBody"] != "Superb." {
		t.Errorf("reviewBody = %v", review["reviewBody"])
	}
	rating := review["reviewRating"].(map[string]any)
	if rating["ratingValue"] != float64(5) {
		t.Errorf("ratingValue = %v, want 5", rating["ratingValue"])
	}
}

func TestForProjectWithoutTestimonialOmitsReview(t *testing.T) {
	m := ForProject(testSite(), testProject(false))
	if strings.Contains(string(m.JSONLD[0]), "review") {
		t.Errorf("JSON-LD should not contain a review block: %s", m.JSONLD[0])
	}
}

func TestForService(t *testing.T) {
	svc := content.Service{
		ID:               1,
		Slug:             "web-design",
		Title:            "Web Design",
		ShortDescription: "Sites that convert.",
		Features:         []string{"Responsive layouts", "Design systems"},
		Testimonial:      &content.Testimonial{Quote: "Great team.", Author: "Sam"},
	}
	m := ForService(testSite(), svc)

	if m.Canonical != "https://arrowedge.in/services/web-design" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
	if m.Keywords != "Responsive layouts, Design systems" {
		t.Errorf("Keywords = %q", m.Keywords)
	}
	if m.OGImage != "https://arrowedge.in/images/og-default.jpg" {
		t.Errorf("OGImage = %q, want default image", m.OGImage)
	}

	ld := decodeJSONLD(t, m)
	if ld["@type"] != "Service" || ld["areaServed"] != "Worldwide" {
		t.Errorf("unexpected service JSON-LD: %v", ld)
	}
	review := ld["review"].(map[string]any)
	if _, ok := review["reviewRating"]; ok {
		t.Error("reviewRating should be omitted without a rating")
	}
	provider := ld["provider"].(map[string]any)
	if provider["name"] != "Arrowedge" {
		t.Errorf("provider = %v", provider)
	}
}

func TestForPostPrefersAuthoredMetadata(t *testing.T) {
	post := content.BlogPost{
		Slug:     "designing-for-performance",
		Title:    "Designing for Performance",
		Date:     "2024-08-14",
		Author:   "Arrowedge Team",
		Excerpt:  "Excerpt text.",
		Category: "Development",
		Tags:     []string{"performance"},
		Metadata: content.PostMetadata{
			Title:       "Designing for Performance | Arrowedge",
			Description: "Authored description.",
			Keywords:    []string{"web performance", "core web vitals"},
		},
		UpdatedAt: "2024-09-01",
	}
	m := ForPost(testSite(), post)

	if m.Title != "Designing for Performance | Arrowedge" {
		t.Errorf("Title = %q, site name should not be appended twice", m.Title)
	}
	if m.Description != "Authored description." {
		t.Errorf("Description = %q", m.Description)
	}
	if m.Keywords != "web performance, core web vitals" {
		t.Errorf("Keywords = %q", m.Keywords)
	}

	ld := decodeJSONLD(t, m)
	if ld["@type"] != "BlogPosting" {
		t.Errorf("@type = %v", ld["@type"])
	}
	if ld["datePublished"] != "2024-08-14T00:00:00Z" || ld["dateModified"] != "2024-09-01T00:00:00Z" {
		t.Errorf("dates = %v / %v", ld["datePublished"], ld["dateModified"])
	}
}

func TestForPostFallsBackToTags(t *testing.T) {
	m := ForPost(testSite(), content.BlogPost{Slug: "x", Title: "X", Category: "SEO", Tags: []string{"json-ld", "seo"}})
	if m.Keywords != "json-ld, seo" {
		t.Errorf("Keywords = %q, want tags then category without repeats", m.Keywords)
	}
}

func TestNotFound(t *testing.T) {
	m := NotFound(testSite())
	if m.Title != "Project Not Found" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Description != "The requested project could not be found." {
		t.Errorf("Description = %q", m.Description)
	}
	if m.Robots != "noindex,follow" {
		t.Errorf("Robots = %q", m.Robots)
	}
	if m.Canonical != "" || len(m.JSONLD) != 0 {
		t.Error("NotFound() should carry no canonical URL or structured data")
	}
}

func TestForHome(t *testing.T) {
	m := ForHome(testSite())
	if m.Canonical != "https://arrowedge.in" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
	if len(m.JSONLD) != 2 {
		t.Fatalf("JSONLD blocks = %d, want 2", len(m.JSONLD))
	}
	if ld := decodeJSONLD(t, m); ld["@type"] != "WebSite" {
		t.Errorf("@type = %v, want WebSite", ld["@type"])
	}
}

func TestForPage(t *testing.T) {
	m := ForPage(testSite(), "About", "Who we are.", "/about")
	if m.Title != "About | Arrowedge" || m.Canonical != "https://arrowedge.in/about" {
		t.Errorf("ForPage() = %q %q", m.Title, m.Canonical)
	}
}

func TestBreadcrumbs(t *testing.T) {
	got := Breadcrumbs(testSite(), Crumb{"Work", "/work"}, Crumb{"Malik", "/work/malik"})
	want := []BreadcrumbItem{
		{Type: "ListItem", Position: 1, Name: "Home", Item: "https://arrowedge.in"},
		{Type: "ListItem", Position: 2, Name: "Work", Item: "https://arrowedge.in/work"},
		{Type: "ListItem", Position: 3, Name: "Malik", Item: "https://arrowedge.in/work/malik"},
	}
	if diff := cmp.Diff(want, got.ItemList); diff != "" {
		t.Errorf("Breadcrumbs() mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"short", "Hello world", 20, "Hello world"},
		{"word boundary", "Hello world this is a test", 15, "Hello world..."},
		{"collapses whitespace", "a  b\n c", 10, "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateText(tt.text, tt.maxLen); got != tt.want {
				t.Errorf("truncateText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		url, siteURL, want string
	}{
		{"", "https://arrowedge.in", ""},
		{"https://cdn.example.com/x.jpg", "https://arrowedge.in", "https://cdn.example.com/x.jpg"},
		{"/images/a.jpg", "https://arrowedge.in/", "https://arrowedge.in/images/a.jpg"},
		{"images/a.jpg", "https://arrowedge.in", "https://arrowedge.in/images/a.jpg"},
	}
	for _, tt := range tests {
		if got := makeAbsoluteURL(tt.url, tt.siteURL); got != tt.want {
			t.Errorf("makeAbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.siteURL, got, tt.want)
		}
	}
}
