// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"slices"
	"sort"
)

// Catalog bundles the three content collections of the site.
type Catalog struct {
	Projects *Collection[Project]
	Services *Collection[Service]
	Posts    *Collection[BlogPost]
}

// Project looks up a project by slug.
func (c *Catalog) Project(slug string) (Project, bool) {
	return c.Projects.BySlug(slug)
}

// Service looks up a service by slug.
func (c *Catalog) Service(slug string) (Service, bool) {
	return c.Services.BySlug(slug)
}

// Post looks up a blog post by slug.
func (c *Catalog) Post(slug string) (BlogPost, bool) {
	return c.Posts.BySlug(slug)
}

// RelatedProjects returns other projects in the same category.
func (c *Catalog) RelatedProjects(current Project, limit int) []Project {
	return c.Projects.Related(current, limit, SameProjectCategory)
}

// RelatedServices returns other services. Services have no category, so
// any other service qualifies.
func (c *Catalog) RelatedServices(current Service, limit int) []Service {
	return c.Services.Related(current, limit, AnyOther[Service])
}

// RelatedPosts returns other posts in the same category.
func (c *Catalog) RelatedPosts(current BlogPost, limit int) []BlogPost {
	return c.Posts.Related(current, limit, SamePostCategory)
}

// ProjectsByCategory lists projects of one category in source order.
// An empty category returns every project.
func (c *Catalog) ProjectsByCategory(category ProjectCategory) []Project {
	if category == "" {
		return c.Projects.All()
	}
	return c.Projects.Filter(func(p Project) bool {
		return p.Category == category
	})
}

// FeaturedProjects lists projects flagged as featured, up to limit
// (all of them when limit <= 0).
func (c *Catalog) FeaturedProjects(limit int) []Project {
	featured := c.Projects.Filter(func(p Project) bool { return p.Featured })
	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// UsedProjectCategories returns the categories that have at least one
// project, in the canonical category order.
func (c *Catalog) UsedProjectCategories() []ProjectCategory {
	var used []ProjectCategory
	for _, cat := range ProjectCategories {
		if len(c.ProjectsByCategory(cat)) > 0 {
			used = append(used, cat)
		}
	}
	return used
}

// PostsByCategory lists posts of one category. An empty category returns
// every post.
func (c *Catalog) PostsByCategory(category string) []BlogPost {
	if category == "" {
		return c.Posts.All()
	}
	return c.Posts.Filter(func(p BlogPost) bool {
		return p.Category == category
	})
}

// PostCategories returns the distinct post categories, sorted.
func (c *Catalog) PostCategories() []string {
	var cats []string
	for _, p := range c.Posts.All() {
		if p.Category != "" && !slices.Contains(cats, p.Category) {
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// LatestPosts returns posts ordered by publication date, newest first,
// up to limit (all when limit <= 0). Ties keep source order.
func (c *Catalog) LatestPosts(limit int) []BlogPost {
	posts := c.Posts.All()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt().After(posts[j].PublishedAt())
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
