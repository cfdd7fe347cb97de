// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "testing"

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	posts := mustCollection(t, []BlogPost{
		{ID: 1, Slug: "old", Category: "Design", Date: "2023-01-01"},
		{ID: 2, Slug: "new", Category: "Development", Date: "2024-06-01"},
		{ID: 3, Slug: "mid", Category: "Development", Date: "2024-01-01"},
	})
	projects := sampleProjects()
	projects[0].Featured = true
	projects[3].Featured = true
	return &Catalog{
		Projects: mustCollection(t, projects),
		Services: mustCollection(t, []Service{{ID: 1, Slug: "web-design"}}),
		Posts:    posts,
	}
}

func TestCatalogListings(t *testing.T) {
	c := testCatalog(t)

	if got := c.ProjectsByCategory(CategoryDesignDevelopment); len(got) != 2 {
		t.Errorf("ProjectsByCategory() = %d items, want 2", len(got))
	}
	if got := c.ProjectsByCategory(""); len(got) != 5 {
		t.Errorf("ProjectsByCategory(\"\") = %d items, want 5", len(got))
	}
	if got := c.FeaturedProjects(1); len(got) != 1 || got[0].Slug != "malik-architecture" {
		t.Errorf("FeaturedProjects(1) = %v", got)
	}

	cats := c.UsedProjectCategories()
	if len(cats) != 4 || cats[0] != CategoryDesignDevelopment {
		t.Errorf("UsedProjectCategories() = %v", cats)
	}

	latest := c.LatestPosts(2)
	if len(latest) != 2 || latest[0].Slug != "new" || latest[1].Slug != "mid" {
		t.Errorf("LatestPosts(2) = %v, want [new mid]", latest)
	}

	if got := c.PostCategories(); len(got) != 2 || got[0] != "Design" {
		t.Errorf("PostCategories() = %v", got)
	}

	post, _ := c.Post("new")
	if got := c.RelatedPosts(post, 3); len(got) != 1 || got[0].Slug != "mid" {
		t.Errorf("RelatedPosts(new) = %v, want [mid]", got)
	}
}

func TestBlockValidate(t *testing.T) {
	tests := []struct {
		block Block
		ok    bool
	}{
		{Block{Type: BlockParagraph, Text: "x"}, true},
		{Block{Type: BlockParagraph}, false},
		{Block{Type: BlockHeading, Level: 1, Text: "x"}, true},
		{Block{Type: BlockHeading, Level: 6, Text: "x"}, true},
		{Block{Type: BlockHeading, Level: 0, Text: "x"}, false},
		{Block{Type: BlockHeading, Level: 7, Text: "x"}, false},
		{Block{Type: BlockList, Items: []string{"a"}}, true},
		{Block{Type: BlockList}, false},
		{Block{Type: "quote", Text: "x"}, false},
	}

	for _, tt := range tests {
		err := tt.block.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%+v) error = %v, want ok=%v", tt.block, err, tt.ok)
		}
	}
}

func TestBlogPostLastModified(t *testing.T) {
	p := BlogPost{Date: "2024-01-01"}
	if got := p.LastModified(); got != "2024-01-01" {
		t.Errorf("LastModified() = %q, want date fallback", got)
	}
	p.UpdatedAt = "2024-02-02"
	if got := p.LastModified(); got != "2024-02-02" {
		t.Errorf("LastModified() = %q, want updatedAt", got)
	}
}
