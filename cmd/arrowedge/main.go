// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command arrowedge serves the Arrowedge studio website.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arrowedge/site/internal/aidesc"
	"github.com/arrowedge/site/internal/cache"
	"github.com/arrowedge/site/internal/config"
	"github.com/arrowedge/site/internal/contact"
	"github.com/arrowedge/site/internal/content"
	"github.com/arrowedge/site/internal/handler"
	"github.com/arrowedge/site/internal/handler/api"
	"github.com/arrowedge/site/internal/logging"
	"github.com/arrowedge/site/internal/middleware"
	"github.com/arrowedge/site/internal/render"
	"github.com/arrowedge/site/internal/scheduler"
	"github.com/arrowedge/site/internal/seo"
	"github.com/arrowedge/site/internal/util"
	"github.com/arrowedge/site/internal/version"
	"github.com/arrowedge/site/web"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "arrowedge - Arrowedge studio website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_SITE_URL         Public origin (default: https://arrowedge.in)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_SMTP_HOST        SMTP relay for the contact form (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_MAIL_TO          Comma-separated contact recipients\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_AI_API_KEY       Key for the AI description endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARROWEDGE_REDIS_URL        Redis URL for a shared cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("arrowedge %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	info := version.Get()
	ctx := context.Background()

	// Shared cache: sitemap XML, used challenge nonces and AI descriptions.
	cacheConfig := cache.DefaultConfig()
	cacheConfig.RedisURL = cfg.RedisURL
	cacheConfig.Prefix = cfg.CachePrefix
	cacheConfig.DefaultTTL = cfg.CacheTTLDuration()
	cacheConfig.MaxSize = cfg.CacheMaxSize
	store, cacheKind := cache.New(cacheConfig, logger)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheKind)

	catalog, err := content.Load()
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	slog.Info("content loaded",
		"projects", catalog.Projects.Len(),
		"services", catalog.Services.Len(),
		"posts", catalog.Posts.Len(),
	)

	site := &seo.Site{
		Name:           cfg.SiteName,
		URL:            cfg.SiteURL,
		Description:    cfg.SiteDescription,
		DefaultOGImage: cfg.DefaultOGImage,
		TwitterHandle:  cfg.TwitterHandle,
		Logo:           "/static/favicon.svg",
		AreaServed:     cfg.AreaServed,
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, Site: site, Logger: logger})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sitemap := cache.NewSitemapCache(store, cfg.CacheTTLDuration(), func(context.Context) ([]byte, error) {
		return seo.GenerateSitemap(site.Origin(), catalog)
	})

	captchaSecret := cfg.CaptchaSecret
	if captchaSecret == "" {
		captchaSecret, err = randomSecret()
		if err != nil {
			return fmt.Errorf("generating captcha secret: %w", err)
		}
	}
	intake := contact.NewIntake(contact.IntakeConfig{
		From:           cfg.MailFrom,
		To:             cfg.MailTo,
		Timeout:        cfg.MailTimeout,
		RequireCaptcha: cfg.CaptchaRequired,
	}, contact.NewSMTPMailer(contact.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		TLS:      cfg.SMTPTLS,
	}), contact.NewSigner(captchaSecret, cfg.CaptchaTTL, store), logger)
	if !cfg.MailEnabled() {
		slog.Warn("ARROWEDGE_SMTP_HOST not set; contact submissions will fail")
	}

	provider, err := aidesc.NewProvider(ctx, aidesc.Config{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIAPIKey,
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
	})
	switch {
	case errors.Is(err, aidesc.ErrNotConfigured):
		slog.Info("ai description endpoint disabled", "reason", "no api key")
	case err != nil:
		return fmt.Errorf("initializing ai provider: %w", err)
	default:
		slog.Info("ai description endpoint enabled", "provider", provider.ID(), "model", provider.Model())
	}
	generator := aidesc.NewGenerator(provider, store, 24*time.Hour, cfg.AITimeout, logger)

	pageLimiter := middleware.NewRateLimiter("pages", cfg.PageRateLimit, cfg.PageRateBurst)
	apiLimiter := middleware.NewRateLimiter("api", cfg.APIRateLimit, cfg.APIRateBurst)

	proxies, err := util.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parsing trusted proxies: %w", err)
	}
	if proxies.Len() == 0 {
		slog.Info("no trusted proxies, forwarding headers are ignored")
	}

	sched := scheduler.New(logger)
	if err := sched.RegisterSiteJobs(scheduler.SiteJobs{
		Sitemap:         sitemap,
		SitemapSchedule: cfg.SitemapSchedule,
		Limiters:        []scheduler.Pruner{pageLimiter, apiLimiter},
	}); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}

	health := handler.NewHealthHandler(store, cacheKind, catalog, info).WithDetails(handler.HealthDetails{
		Jobs:    sched,
		Sitemap: sitemap,
		Features: map[string]bool{
			"mail":             cfg.MailEnabled(),
			"ai_description":   generator.Configured(),
			"captcha_required": cfg.CaptchaRequired,
			"redis":            cacheKind == "redis",
		},
	})

	router, err := newRouter(routerDeps{
		cfg:           cfg,
		frontend:      handler.NewFrontendHandler(renderer, catalog, site, logger),
		seo:           handler.NewSEOHandler(sitemap, robotsConfig(cfg), logger),
		health:        health,
		api:           api.NewHandler(intake, generator, logger),
		pageLimiter:   pageLimiter,
		apiLimiter:    apiLimiter,
		csrfKey:       []byte(captchaSecret),
		proxies:       proxies,
		staticContent: web.Static,
	})
	if err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	// Warm the sitemap so the first crawler request is served from cache.
	if err := sched.TriggerNow(scheduler.JobSitemapRebuild); err != nil {
		slog.Warn("initial sitemap build failed", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func robotsConfig(cfg *config.Config) seo.RobotsConfig {
	return seo.RobotsConfig{
		SiteURL:     cfg.SiteURL,
		DisallowAll: cfg.DisallowRobots,
	}
}

// randomSecret returns a per-process signing key.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
