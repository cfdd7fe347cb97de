// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"html/template"
	"strconv"
	"time"

	"github.com/arrowedge/site/internal/content"
)

const schemaContext = "https://schema.org"

// CreativeWorkSchema represents JSON-LD CreativeWork structured data for a project.
type CreativeWorkSchema struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url"`
	Image       string        `json:"image,omitempty"`
	DateCreated string        `json:"dateCreated,omitempty"`
	Genre       string        `json:"genre,omitempty"`
	Keywords    string        `json:"keywords,omitempty"`
	Creator     *OrgSchema    `json:"creator,omitempty"`
	Review      *ReviewSchema `json:"review,omitempty"`
}

// ServiceSchema represents JSON-LD Service structured data.
type ServiceSchema struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url"`
	Image       string        `json:"image,omitempty"`
	ServiceType string        `json:"serviceType,omitempty"`
	AreaServed  string        `json:"areaServed,omitempty"`
	Provider    *OrgSchema    `json:"provider,omitempty"`
	Review      *ReviewSchema `json:"review,omitempty"`
}

// ReviewSchema represents a JSON-LD Review built from a client testimonial.
type ReviewSchema struct {
	Type         string        `json:"@type"`
	ReviewBody   string        `json:"reviewBody"`
	Author       *PersonSchema `json:"author"`
	ReviewRating *RatingSchema `json:"reviewRating,omitempty"`
}

// RatingSchema represents a JSON-LD Rating on a 1-5 scale.
type RatingSchema struct {
	Type        string `json:"@type"`
	RatingValue int    `json:"ratingValue"`
	BestRating  int    `json:"bestRating"`
	WorstRating int    `json:"worstRating"`
}

// BlogPostingSchema represents JSON-LD BlogPosting structured data.
type BlogPostingSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	ArticleSection   string        `json:"articleSection,omitempty"`
	Keywords         string        `json:"keywords,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type     string `json:"@type"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle,omitempty"`
	WorksFor string `json:"worksFor,omitempty"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Context string       `json:"@context,omitempty"`
	Type    string       `json:"@type"`
	Name    string       `json:"name"`
	URL     string       `json:"url,omitempty"`
	Logo    *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// BreadcrumbSchema represents JSON-LD BreadcrumbList structured data.
type BreadcrumbSchema struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	ItemList []BreadcrumbItem `json:"itemListElement"`
}

// BreadcrumbItem represents a single breadcrumb item.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// WebSiteSchema represents JSON-LD WebSite structured data for the homepage.
type WebSiteSchema struct {
	Context     string     `json:"@context"`
	Type        string     `json:"@type"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Publisher   *OrgSchema `json:"publisher,omitempty"`
}

// Crumb is one step of a breadcrumb trail below the homepage.
type Crumb struct {
	Name string
	Path string
}

// studio is the organization credited as creator and provider.
func studio(site *Site) *OrgSchema {
	org := &OrgSchema{Type: "Organization", Name: site.Name, URL: site.Origin()}
	logo := site.Logo
	if logo == "" {
		logo = site.DefaultOGImage
	}
	if logo != "" {
		org.Logo = &ImageSchema{Type: "ImageObject", URL: site.Absolute(logo)}
	}
	return org
}

// Review converts a testimonial into a Review. A nil testimonial yields nil
// so the block is omitted entirely.
func Review(t *content.Testimonial) *ReviewSchema {
	if t == nil || t.Quote == "" {
		return nil
	}
	r := &ReviewSchema{
		Type:       "Review",
		ReviewBody: t.Quote,
		Author: &PersonSchema{
			Type:     "Person",
			Name:     t.Author,
			JobTitle: t.Role,
			WorksFor: t.Company,
		},
	}
	if t.Rating > 0 {
		r.ReviewRating = &RatingSchema{Type: "Rating", RatingValue: t.Rating, BestRating: 5, WorstRating: 1}
	}
	return r
}

// BuildProjectSchema builds CreativeWork structured data for a project.
func BuildProjectSchema(site *Site, p content.Project) CreativeWorkSchema {
	s := CreativeWorkSchema{
		Context:     schemaContext,
		Type:        "CreativeWork",
		Name:        p.Title,
		Description: p.ShortDescription,
		URL:         site.Origin() + RouteWork + "/" + p.Slug,
		Image:       site.Absolute(p.Images.Desktop),
		Genre:       string(p.Category),
		Keywords:    joinKeywords(append([]string{string(p.Category)}, p.TechnologyNames()...)),
		Creator:     studio(site),
		Review:      Review(p.Testimonial),
	}
	if p.Year > 0 {
		s.DateCreated = strconv.Itoa(p.Year)
	}
	return s
}

// BuildServiceSchema builds Service structured data for a service.
func BuildServiceSchema(site *Site, svc content.Service) ServiceSchema {
	return ServiceSchema{
		Context:     schemaContext,
		Type:        "Service",
		Name:        svc.Title,
		Description: svc.ShortDescription,
		URL:         site.Origin() + RouteServices + "/" + svc.Slug,
		Image:       site.Absolute(svc.Images.Desktop),
		ServiceType: svc.Title,
		AreaServed:  site.AreaServed,
		Provider:    studio(site),
		Review:      Review(svc.Testimonial),
	}
}

// BuildPostSchema builds BlogPosting structured data for a blog post.
func BuildPostSchema(site *Site, p content.BlogPost) BlogPostingSchema {
	s := BlogPostingSchema{
		Context:          schemaContext,
		Type:             "BlogPosting",
		Headline:         p.Title,
		Description:      p.Excerpt,
		Image:            site.Absolute(p.Image),
		ArticleSection:   p.Category,
		Keywords:         joinKeywords(p.Tags),
		Publisher:        studio(site),
		MainEntityOfPage: site.Origin() + RouteBlog + "/" + p.Slug,
	}
	if published := p.PublishedAt(); !published.IsZero() {
		s.DatePublished = published.Format(time.RFC3339)
	}
	if modified, err := content.ParseDate(p.LastModified()); err == nil {
		s.DateModified = modified.Format(time.RFC3339)
	}
	if p.Author != "" {
		s.Author = &PersonSchema{Type: "Person", Name: p.Author}
	}
	return s
}

// WebSite builds WebSite structured data for the homepage.
func WebSite(site *Site) WebSiteSchema {
	return WebSiteSchema{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        site.Name,
		URL:         site.Origin(),
		Description: site.Description,
		Publisher:   studio(site),
	}
}

// Organization builds standalone Organization structured data.
func Organization(site *Site) OrgSchema {
	org := *studio(site)
	org.Context = schemaContext
	return org
}

// Breadcrumbs builds a BreadcrumbList starting at the homepage.
func Breadcrumbs(site *Site, trail ...Crumb) BreadcrumbSchema {
	items := make([]BreadcrumbItem, 0, len(trail)+1)
	items = append(items, BreadcrumbItem{Type: "ListItem", Position: 1, Name: "Home", Item: site.Origin()})
	for i, c := range trail {
		items = append(items, BreadcrumbItem{
			Type:     "ListItem",
			Position: i + 2,
			Name:     c.Name,
			Item:     site.Origin() + c.Path,
		})
	}
	return BreadcrumbSchema{Context: schemaContext, Type: "BreadcrumbList", ItemList: items}
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}
