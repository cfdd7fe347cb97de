// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{SiteURL: "https://arrowedge.in/"}).Build()

	want := "User-agent: *\nAllow: /\n\nSitemap: https://arrowedge.in/sitemap.xml\n"
	if content != want {
		t.Errorf("Build() = %q, want %q", content, want)
	}
	if strings.Contains(content, "Disallow") {
		t.Error("default robots.txt should not disallow anything")
	}
}

func TestRobotsBuilderBuildDisallowAll(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:     "https://staging.arrowedge.in",
		DisallowAll: true,
	}).Build()

	if !strings.Contains(content, "Disallow: /\n") {
		t.Error("Build() with DisallowAll should contain 'Disallow: /'")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("Build() with DisallowAll should not advertise the sitemap")
	}
}

func TestRobotsBuilderBuildCustomRules(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://arrowedge.in",
		DisallowPaths: []string{"/api/"},
		ExtraRules:    "User-agent: GPTBot\nDisallow: /",
	}).Build()

	for _, want := range []string{"Disallow: /api/\n", "User-agent: GPTBot\nDisallow: /\n", "Allow: /\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("Build() missing %q in %q", want, content)
		}
	}
}

func TestSitemapURLFor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://arrowedge.in", "https://arrowedge.in/sitemap.xml"},
		{"https://arrowedge.in/", "https://arrowedge.in/sitemap.xml"},
	}
	for _, tt := range tests {
		if got := SitemapURLFor(tt.in); got != tt.want {
			t.Errorf("SitemapURLFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
