// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/arrowedge/site/internal/config"
	"github.com/arrowedge/site/internal/handler"
	"github.com/arrowedge/site/internal/handler/api"
	"github.com/arrowedge/site/internal/middleware"
	"github.com/arrowedge/site/internal/seo"
	"github.com/arrowedge/site/internal/util"
)

// Cache lifetimes of static assets, in seconds.
const (
	staticMaxAge = 604800 // 1 week
)

type routerDeps struct {
	cfg           *config.Config
	frontend      *handler.FrontendHandler
	seo           *handler.SEOHandler
	health        *handler.HealthHandler
	api           *api.Handler
	pageLimiter   *middleware.RateLimiter
	apiLimiter    *middleware.RateLimiter
	csrfKey       []byte
	proxies       *util.TrustedProxies
	staticContent fs.FS
}

// newRouter wires every route of the site.
func newRouter(d routerDeps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(d.proxies))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead) // HEAD for uptime monitors
	r.Use(middleware.Timeout(d.cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())))

	// Health checks are not rate limited.
	r.Get("/health", d.health.Health)
	r.Get("/health/live", d.health.Liveness)

	staticFS, err := fs.Sub(d.staticContent, "static")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(staticMaxAge)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(d.pageLimiter.HTMLMiddleware())

		r.Get("/", d.frontend.Home)
		r.Get("/about", d.frontend.About)
		r.Get("/contact", d.frontend.Contact)
		r.Get("/privacy", d.frontend.Privacy)
		r.Get(seo.RouteWork, d.frontend.Work)
		r.Get(seo.RouteWork+"/{slug}", d.frontend.Project)
		r.Get(seo.RouteServices, d.frontend.Services)
		r.Get(seo.RouteServices+"/{slug}", d.frontend.Service)
		r.Get(seo.RouteBlog, d.frontend.Blog)
		r.Get(seo.RouteBlog+"/{slug}", d.frontend.Post)

		r.Get("/sitemap.xml", d.seo.Sitemap)
		r.Get("/robots.txt", d.seo.Robots)
	})

	// JSON API
	csrf := middleware.CSRF(middleware.DefaultCSRFConfig(d.csrfKey, d.cfg.IsDevelopment(), append([]string{d.cfg.SiteURL}, d.cfg.TrustedOrigins...)...))
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore())

		r.With(d.pageLimiter.Middleware()).Get("/captcha", d.api.Captcha)

		r.Group(func(r chi.Router) {
			r.Use(csrf)
			r.Use(d.apiLimiter.Middleware())
			r.Post("/send-email", d.api.SendEmail)
			r.Post("/ai-description", d.api.AIDescription)
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			api.WriteError(w, http.StatusNotFound, "Not found", nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		})
	})

	r.NotFound(d.frontend.NotFound)

	return r, nil
}
