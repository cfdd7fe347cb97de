// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo derives per-page metadata, JSON-LD structured data, the
// sitemap and robots.txt from the site's content collections.
package seo

import (
	"html/template"
	"slices"
	"strings"

	"github.com/arrowedge/site/internal/content"
)

// Route prefixes of the detail pages.
const (
	RouteWork     = "/work"
	RouteServices = "/services"
	RouteBlog     = "/blog"
)

// Fallback metadata for slugs that do not resolve.
const (
	NotFoundTitle       = "Project Not Found"
	NotFoundDescription = "The requested project could not be found."
)

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title              string // <title>
	Description        string // meta description
	Keywords           string // meta keywords, comma separated
	Canonical          string // absolute canonical URL
	OGTitle            string
	OGDescription      string
	OGImage            string // absolute
	OGType             string // website, article
	OGSiteName         string
	OGURL              string
	Robots             string // index,follow / noindex,follow
	TwitterCard        string
	TwitterSite        string
	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string
	JSONLD             []template.JS // one entry per <script type="application/ld+json">
}

// Site contains site-wide settings for SEO.
type Site struct {
	Name           string
	URL            string // origin, e.g. https://arrowedge.in
	Description    string
	DefaultOGImage string
	TwitterHandle  string
	Logo           string
	AreaServed     string
}

// Origin returns the site URL without a trailing slash.
func (s *Site) Origin() string {
	return strings.TrimSuffix(s.URL, "/")
}

// Absolute resolves a site-relative path or URL against the origin.
func (s *Site) Absolute(path string) string {
	return makeAbsoluteURL(path, s.URL)
}

// newMeta fills the fields shared by every page type.
func newMeta(site *Site, title, description, path, image, ogType string) *Meta {
	if image == "" {
		image = site.DefaultOGImage
	}

	canonical := site.Origin() + path
	if path == "/" || path == "" {
		canonical = site.Origin()
	}

	m := &Meta{
		Title:              title,
		Description:        description,
		Canonical:          canonical,
		OGTitle:            title,
		OGDescription:      description,
		OGImage:            site.Absolute(image),
		OGType:             ogType,
		OGSiteName:         site.Name,
		OGURL:              canonical,
		Robots:             buildRobotsDirective(false, false),
		TwitterCard:        "summary_large_image",
		TwitterSite:        site.TwitterHandle,
		TwitterTitle:       title,
		TwitterDescription: description,
	}
	m.TwitterImage = m.OGImage
	return m
}

// pageTitle appends the site name unless the title already ends with it.
func pageTitle(title string, site *Site) string {
	if site.Name == "" || strings.HasSuffix(title, site.Name) {
		return title
	}
	return title + " | " + site.Name
}

// ForHome builds metadata for the homepage.
func ForHome(site *Site) *Meta {
	m := newMeta(site, site.Name, site.Description, "/", "", "website")
	m.JSONLD = append(m.JSONLD, marshalJSONLD(WebSite(site)), marshalJSONLD(Organization(site)))
	return m
}

// ForPage builds metadata for a static page such as /about.
func ForPage(site *Site, title, description, path string) *Meta {
	return newMeta(site, pageTitle(title, site), description, path, "", "website")
}

// ForProject builds metadata for /work/{slug}.
func ForProject(site *Site, p content.Project) *Meta {
	description := p.ShortDescription
	if description == "" {
		description = truncateText(p.Description, 160)
	}

	m := newMeta(site, pageTitle(p.Title, site), description, RouteWork+"/"+p.Slug, p.Images.Desktop, "article")
	keywords := append(slices.Clone(p.Tags), string(p.Category))
	m.Keywords = joinKeywords(append(keywords, p.TechnologyNames()...))
	m.JSONLD = append(m.JSONLD,
		marshalJSONLD(BuildProjectSchema(site, p)),
		marshalJSONLD(Breadcrumbs(site, Crumb{"Work", RouteWork}, Crumb{p.Title, RouteWork + "/" + p.Slug})),
	)
	return m
}

// ForService builds metadata for /services/{slug}.
func ForService(site *Site, s content.Service) *Meta {
	description := s.ShortDescription
	if description == "" {
		description = truncateText(s.FullDescription, 160)
	}

	m := newMeta(site, pageTitle(s.Title, site), description, RouteServices+"/"+s.Slug, s.Images.Desktop, "website")
	m.Keywords = joinKeywords(s.Features)
	m.JSONLD = append(m.JSONLD,
		marshalJSONLD(BuildServiceSchema(site, s)),
		marshalJSONLD(Breadcrumbs(site, Crumb{"Services", RouteServices}, Crumb{s.Title, RouteServices + "/" + s.Slug})),
	)
	return m
}

// ForPost builds metadata for /blog/{slug}. Authored post metadata wins
// over fields derived from the post itself.
func ForPost(site *Site, p content.BlogPost) *Meta {
	title := p.Metadata.Title
	if title == "" {
		title = p.Title
	}
	description := p.Metadata.Description
	if description == "" {
		description = p.Excerpt
	}
	image := p.Metadata.OGImage
	if image == "" {
		image = p.Image
	}

	m := newMeta(site, pageTitle(title, site), description, RouteBlog+"/"+p.Slug, image, "article")
	keywords := p.Metadata.Keywords
	if len(keywords) == 0 {
		keywords = append(slices.Clone(p.Tags), p.Category)
	}
	m.Keywords = joinKeywords(keywords)
	m.JSONLD = append(m.JSONLD,
		marshalJSONLD(BuildPostSchema(site, p)),
		marshalJSONLD(Breadcrumbs(site, Crumb{"Blog", RouteBlog}, Crumb{p.Title, RouteBlog + "/" + p.Slug})),
	)
	return m
}

// NotFound is the metadata rendered when a detail slug does not resolve.
func NotFound(site *Site) *Meta {
	return &Meta{
		Title:         NotFoundTitle,
		Description:   NotFoundDescription,
		OGTitle:       NotFoundTitle,
		OGDescription: NotFoundDescription,
		OGType:        "website",
		OGSiteName:    site.Name,
		Robots:        buildRobotsDirective(true, false),
		TwitterCard:   "summary",
		TwitterSite:   site.TwitterHandle,
	}
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	index, follow := "index", "follow"
	if noIndex {
		index = "noindex"
	}
	if noFollow {
		follow = "nofollow"
	}
	return index + "," + follow
}

// joinKeywords joins non-empty keywords with ", ", dropping repeats
// case-insensitively and keeping first occurrences in order.
func joinKeywords(keywords []string) string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, k)
	}
	return strings.Join(out, ", ")
}

// truncateText truncates text to maxLen bytes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
