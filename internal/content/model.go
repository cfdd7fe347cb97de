// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content holds the studio's static content collections (projects,
// services and blog posts) and the query layer over them.
//
// Collections are decoded once from embedded YAML and never mutated
// afterwards, so every read path is safe for concurrent use without locks.
package content

import (
	"fmt"
	"time"
)

// Item is implemented by every record stored in a Collection.
type Item interface {
	ItemID() int
	ItemSlug() string
}

// ProjectCategory is the closed set of project classifications.
type ProjectCategory string

// Project categories.
const (
	CategoryDesignDevelopment ProjectCategory = "Design & Development"
	CategoryWebDevelopment    ProjectCategory = "Web Development"
	CategoryECommerce         ProjectCategory = "E-Commerce"
	CategoryBranding          ProjectCategory = "Branding"
	CategoryUIUX              ProjectCategory = "UI/UX Design"
	CategoryMobileApp         ProjectCategory = "Mobile App"
)

// ProjectCategories lists the valid categories in display order.
var ProjectCategories = []ProjectCategory{
	CategoryDesignDevelopment,
	CategoryWebDevelopment,
	CategoryECommerce,
	CategoryBranding,
	CategoryUIUX,
	CategoryMobileApp,
}

// Valid reports whether c is one of the known categories.
func (c ProjectCategory) Valid() bool {
	for _, known := range ProjectCategories {
		if c == known {
			return true
		}
	}
	return false
}

// TechCategory classifies an entry of a project's technology stack.
type TechCategory string

// Technology categories.
const (
	TechFrontend   TechCategory = "frontend"
	TechBackend    TechCategory = "backend"
	TechDatabase   TechCategory = "database"
	TechTools      TechCategory = "tools"
	TechDeployment TechCategory = "deployment"
)

// Valid reports whether c is one of the known technology categories.
func (c TechCategory) Valid() bool {
	switch c {
	case TechFrontend, TechBackend, TechDatabase, TechTools, TechDeployment:
		return true
	}
	return false
}

// ImageSet holds responsive variants of one image.
type ImageSet struct {
	Desktop string `yaml:"desktop" json:"desktop"`
	Tablet  string `yaml:"tablet" json:"tablet,omitempty"`
	Mobile  string `yaml:"mobile" json:"mobile,omitempty"`
	Alt     string `yaml:"alt" json:"alt"`
}

// Technology is one entry of a project's stack.
type Technology struct {
	Name     string       `yaml:"name" json:"name"`
	Category TechCategory `yaml:"category" json:"category"`
}

// ColorTheme is the five-color palette a project page is themed with.
type ColorTheme struct {
	Primary    string `yaml:"primary" json:"primary"`
	Secondary  string `yaml:"secondary" json:"secondary"`
	Accent     string `yaml:"accent" json:"accent"`
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
}

// Colors returns the palette as name/value pairs in a fixed order.
func (t ColorTheme) Colors() [][2]string {
	return [][2]string{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"accent", t.Accent},
		{"background", t.Background},
		{"text", t.Text},
	}
}

// Challenge pairs a problem the client had with how it was solved.
type Challenge struct {
	Challenge string `yaml:"challenge" json:"challenge"`
	Solution  string `yaml:"solution" json:"solution"`
}

// Metric is a labelled figure such as "Conversion rate" / "+38%".
type Metric struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Testimonial is a client quote. Rating is 0 when not given, otherwise 1-5.
type Testimonial struct {
	Quote   string `yaml:"quote" json:"quote"`
	Author  string `yaml:"author" json:"author"`
	Role    string `yaml:"role" json:"role,omitempty"`
	Company string `yaml:"company" json:"company,omitempty"`
	Rating  int    `yaml:"rating" json:"rating,omitempty"`
}

// ProcessStep is one stage of an ordered delivery process.
type ProcessStep struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Duration    string `yaml:"duration" json:"duration,omitempty"`
}

// Results summarises the outcome of an engagement.
type Results struct {
	Summary string   `yaml:"summary" json:"summary"`
	Metrics []Metric `yaml:"metrics" json:"metrics"`
}

// Project is a portfolio case study, served at /work/{slug}.
type Project struct {
	ID               int             `yaml:"id" json:"id"`
	Slug             string          `yaml:"slug" json:"slug"`
	Title            string          `yaml:"title" json:"title"`
	Category         ProjectCategory `yaml:"category" json:"category"`
	Year             int             `yaml:"year" json:"year"`
	Client           string          `yaml:"client" json:"client"`
	Duration         string          `yaml:"duration" json:"duration"`
	Domain           string          `yaml:"domain" json:"domain,omitempty"`
	Featured         bool            `yaml:"featured" json:"featured"`
	Images           ImageSet        `yaml:"images" json:"images"`
	ShortDescription string          `yaml:"shortDescription" json:"shortDescription"`
	Description      string          `yaml:"description" json:"description"`
	Overview         string          `yaml:"overview" json:"overview,omitempty"`
	Technologies     []Technology    `yaml:"technologies" json:"technologies"`
	Colors           ColorTheme      `yaml:"colors" json:"colors"`
	Challenges       []Challenge     `yaml:"challenges" json:"challenges,omitempty"`
	Achievements     []Metric        `yaml:"achievements" json:"achievements,omitempty"`
	Tags             []string        `yaml:"tags" json:"tags,omitempty"`
	Testimonial      *Testimonial    `yaml:"testimonial" json:"testimonial,omitempty"`
	Process          []ProcessStep   `yaml:"process" json:"process,omitempty"`
	Results          *Results        `yaml:"results" json:"results,omitempty"`
	UpdatedAt        string          `yaml:"updatedAt" json:"updatedAt,omitempty"`
}

// ItemID implements Item.
func (p Project) ItemID() int { return p.ID }

// ItemSlug implements Item.
func (p Project) ItemSlug() string { return p.Slug }

// LastModified implements the sitemap timestamp lookup.
func (p Project) LastModified() string { return p.UpdatedAt }

// TechnologyNames returns the stack names in declaration order.
func (p Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.Name)
	}
	return names
}

// Service is an offering of the studio, served at /services/{slug}.
type Service struct {
	ID               int           `yaml:"id" json:"id"`
	Slug             string        `yaml:"slug" json:"slug"`
	Title            string        `yaml:"title" json:"title"`
	Subtitle         string        `yaml:"subtitle" json:"subtitle"`
	ShortDescription string        `yaml:"shortDescription" json:"shortDescription"`
	FullDescription  string        `yaml:"fullDescription" json:"fullDescription"`
	Features         []string      `yaml:"features" json:"features"`
	Icon             string        `yaml:"icon" json:"icon"`
	Images           ImageSet      `yaml:"images" json:"images"`
	Process          []ProcessStep `yaml:"process" json:"process,omitempty"`
	Results          *Results      `yaml:"results" json:"results,omitempty"`
	Testimonial      *Testimonial  `yaml:"testimonial" json:"testimonial,omitempty"`
	UpdatedAt        string        `yaml:"updatedAt" json:"updatedAt,omitempty"`
}

// ItemID implements Item.
func (s Service) ItemID() int { return s.ID }

// ItemSlug implements Item.
func (s Service) ItemSlug() string { return s.Slug }

// LastModified implements the sitemap timestamp lookup.
func (s Service) LastModified() string { return s.UpdatedAt }

// BlockType tags the variant held by a Block.
type BlockType string

// Block variants.
const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockList      BlockType = "list"
)

// Block is one element of a blog post body. Exactly one variant is
// populated according to Type: Text for paragraphs, Level and Text for
// headings, Items for lists.
type Block struct {
	Type  BlockType `yaml:"type" json:"type"`
	Level int       `yaml:"level" json:"level,omitempty"`
	Text  string    `yaml:"text" json:"text,omitempty"`
	Items []string  `yaml:"items" json:"items,omitempty"`
}

// Validate checks that the block is a well-formed variant.
func (b Block) Validate() error {
	switch b.Type {
	case BlockParagraph:
		if b.Text == "" {
			return fmt.Errorf("paragraph block has no text")
		}
	case BlockHeading:
		if b.Level < 1 || b.Level > 6 {
			return fmt.Errorf("heading level %d out of range 1-6", b.Level)
		}
		if b.Text == "" {
			return fmt.Errorf("heading block has no text")
		}
	case BlockList:
		if len(b.Items) == 0 {
			return fmt.Errorf("list block has no items")
		}
	default:
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	return nil
}

// PostMetadata mirrors the page-level SEO fields authored with a post.
type PostMetadata struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`
	OGImage     string   `yaml:"ogImage" json:"ogImage,omitempty"`
}

// BlogPost is an article, served at /blog/{slug}.
type BlogPost struct {
	ID        int          `yaml:"id" json:"id"`
	Slug      string       `yaml:"slug" json:"slug"`
	Title     string       `yaml:"title" json:"title"`
	Date      string       `yaml:"date" json:"date"`
	Author    string       `yaml:"author" json:"author"`
	Excerpt   string       `yaml:"excerpt" json:"excerpt"`
	Image     string       `yaml:"image" json:"image"`
	Category  string       `yaml:"category" json:"category"`
	Tags      []string     `yaml:"tags" json:"tags,omitempty"`
	Content   []Block      `yaml:"content" json:"content"`
	Metadata  PostMetadata `yaml:"metadata" json:"metadata"`
	UpdatedAt string       `yaml:"updatedAt" json:"updatedAt,omitempty"`
}

// ItemID implements Item.
func (p BlogPost) ItemID() int { return p.ID }

// ItemSlug implements Item.
func (p BlogPost) ItemSlug() string { return p.Slug }

// LastModified returns updatedAt, falling back to the publication date.
func (p BlogPost) LastModified() string {
	if p.UpdatedAt != "" {
		return p.UpdatedAt
	}
	return p.Date
}

// PublishedAt parses Date. The zero time is returned when it is unset or
// malformed.
func (p BlogPost) PublishedAt() time.Time {
	t, _ := ParseDate(p.Date)
	return t
}

// dateLayouts are the accepted spellings of authored dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an authored date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
