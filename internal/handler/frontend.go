// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the public site: pages,
// the sitemap and robots.txt, and health checks.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arrowedge/site/internal/content"
	"github.com/arrowedge/site/internal/render"
	"github.com/arrowedge/site/internal/seo"
	"github.com/arrowedge/site/internal/uikit"
)

// List sizes.
const (
	FeaturedLimit   = 3
	HomePostsLimit  = 3
	RelatedLimit    = 3
	ProjectsPerPage = 12
	PostsPerPage    = 9
)

// FrontendHandler renders the public pages.
type FrontendHandler struct {
	renderer *render.Renderer
	catalog  *content.Catalog
	site     *seo.Site
	logger   *slog.Logger
}

// NewFrontendHandler creates a new frontend handler.
func NewFrontendHandler(renderer *render.Renderer, catalog *content.Catalog, site *seo.Site, logger *slog.Logger) *FrontendHandler {
	return &FrontendHandler{renderer: renderer, catalog: catalog, site: site, logger: logger}
}

// HomeView is the data of the homepage.
type HomeView struct {
	Featured []content.Project
	Services []content.Service
	Posts    []content.BlogPost
}

// ServicesView lists services for /services, /about and /contact.
type ServicesView struct {
	Services []content.Service
}

// WorkView is the data of the project listing.
type WorkView struct {
	Projects   []content.Project
	Categories []content.ProjectCategory
	Active     string
	Pagination uikit.Pagination
}

// ProjectView is the data of a project case study.
type ProjectView struct {
	Project content.Project
	Related []content.Project
}

// ServiceView is the data of a service detail page.
type ServiceView struct {
	Service content.Service
	Related []content.Service
}

// BlogView is the data of the blog listing.
type BlogView struct {
	Posts      []content.BlogPost
	Categories []string
	Active     string
	Pagination uikit.Pagination
}

// PostView is the data of an article page.
type PostView struct {
	Post    content.BlogPost
	Related []content.BlogPost
}

// NotFoundView points the visitor back to the listing they came from.
type NotFoundView struct {
	BackURL   string
	BackLabel string
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", render.PageData{
		Meta: seo.ForHome(h.site),
		Data: HomeView{
			Featured: h.catalog.FeaturedProjects(FeaturedLimit),
			Services: h.catalog.Services.All(),
			Posts:    h.catalog.LatestPosts(HomePostsLimit),
		},
	})
}

// About handles GET /about.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", render.PageData{
		Meta:        seo.ForPage(h.site, "About", "Who we are and how we work.", "/about"),
		Breadcrumbs: uikit.Breadcrumbs("About", "/about"),
		Data:        ServicesView{Services: h.catalog.Services.All()},
	})
}

// Contact handles GET /contact.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", render.PageData{
		Meta:        seo.ForPage(h.site, "Contact", "Tell us about your project and we will get back to you within two working days.", "/contact"),
		Breadcrumbs: uikit.Breadcrumbs("Contact", "/contact"),
		Data:        ServicesView{Services: h.catalog.Services.All()},
	})
}

// Privacy handles GET /privacy.
func (h *FrontendHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "privacy", render.PageData{
		Meta:        seo.ForPage(h.site, "Privacy policy", "What we collect when you contact us and how we use it.", "/privacy"),
		Breadcrumbs: uikit.Breadcrumbs("Privacy", "/privacy"),
	})
}

// Work handles GET /work with an optional ?category= filter. Unknown
// categories are ignored and every project is listed.
func (h *FrontendHandler) Work(w http.ResponseWriter, r *http.Request) {
	category := content.ProjectCategory(r.URL.Query().Get("category"))
	if !category.Valid() {
		category = ""
	}

	projects := h.catalog.ProjectsByCategory(category)
	page := uikit.ParsePageParam(r)
	pagination := uikit.BuildPagination(page, len(projects), ProjectsPerPage, seo.RouteWork, r.URL.Query())

	h.render(w, r, http.StatusOK, "work", render.PageData{
		Meta:        seo.ForPage(h.site, "Work", "Selected case studies in design, development and branding.", seo.RouteWork),
		Breadcrumbs: uikit.Breadcrumbs("Work", seo.RouteWork),
		Data: WorkView{
			Projects:   uikit.Paginate(projects, pagination.CurrentPage, ProjectsPerPage),
			Categories: h.catalog.UsedProjectCategories(),
			Active:     string(category),
			Pagination: pagination,
		},
	})
}

// Project handles GET /work/{slug}.
func (h *FrontendHandler) Project(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, ok := h.catalog.Project(slug)
	if !ok {
		h.notFound(w, r, seo.RouteWork, "Back to work")
		return
	}

	h.render(w, r, http.StatusOK, "project", render.PageData{
		Meta:        seo.ForProject(h.site, project),
		Breadcrumbs: uikit.Breadcrumbs("Work", seo.RouteWork, project.Title, seo.RouteWork+"/"+project.Slug),
		Data: ProjectView{
			Project: project,
			Related: h.catalog.RelatedProjects(project, RelatedLimit),
		},
	})
}

// Services handles GET /services.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "services", render.PageData{
		Meta:        seo.ForPage(h.site, "Services", "Strategy, design and engineering for brands and products.", seo.RouteServices),
		Breadcrumbs: uikit.Breadcrumbs("Services", seo.RouteServices),
		Data:        ServicesView{Services: h.catalog.Services.All()},
	})
}

// Service handles GET /services/{slug}.
func (h *FrontendHandler) Service(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	service, ok := h.catalog.Service(slug)
	if !ok {
		h.notFound(w, r, seo.RouteServices, "Back to services")
		return
	}

	h.render(w, r, http.StatusOK, "service", render.PageData{
		Meta:        seo.ForService(h.site, service),
		Breadcrumbs: uikit.Breadcrumbs("Services", seo.RouteServices, service.Title, seo.RouteServices+"/"+service.Slug),
		Data: ServiceView{
			Service: service,
			Related: h.catalog.RelatedServices(service, RelatedLimit),
		},
	})
}

// Blog handles GET /blog with optional ?category= and ?page=. Posts are
// listed newest first.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var posts []content.BlogPost
	for _, p := range h.catalog.LatestPosts(0) {
		if category == "" || p.Category == category {
			posts = append(posts, p)
		}
	}

	page := uikit.ParsePageParam(r)
	pagination := uikit.BuildPagination(page, len(posts), PostsPerPage, seo.RouteBlog, r.URL.Query())

	h.render(w, r, http.StatusOK, "blog", render.PageData{
		Meta:        seo.ForPage(h.site, "Blog", "Notes on design, performance and running web projects.", seo.RouteBlog),
		Breadcrumbs: uikit.Breadcrumbs("Blog", seo.RouteBlog),
		Data: BlogView{
			Posts:      uikit.Paginate(posts, pagination.CurrentPage, PostsPerPage),
			Categories: h.catalog.PostCategories(),
			Active:     category,
			Pagination: pagination,
		},
	})
}

// Post handles GET /blog/{slug}.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, ok := h.catalog.Post(slug)
	if !ok {
		h.notFound(w, r, seo.RouteBlog, "Back to the blog")
		return
	}

	h.render(w, r, http.StatusOK, "post", render.PageData{
		Meta:        seo.ForPost(h.site, post),
		Breadcrumbs: uikit.Breadcrumbs("Blog", seo.RouteBlog, post.Title, seo.RouteBlog+"/"+post.Slug),
		Data: PostView{
			Post:    post,
			Related: h.catalog.RelatedPosts(post, RelatedLimit),
		},
	})
}

// NotFound handles unmatched routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "", "")
}

// notFound renders the 404 page with the shared "not found" metadata.
func (h *FrontendHandler) notFound(w http.ResponseWriter, r *http.Request, backURL, backLabel string) {
	data := render.PageData{Meta: seo.NotFound(h.site)}
	if backURL != "" {
		data.Data = NotFoundView{BackURL: backURL, BackLabel: backLabel}
	}
	h.render(w, r, http.StatusNotFound, "404", data)
}

// render writes the page or, if the template fails, a plain 500.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.PageData) {
	if err := h.renderer.Render(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
