// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/arrowedge/site/internal/util"
)

// MinCaptchaSecretLength is the minimum length of the challenge signing key.
const MinCaptchaSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"ARROWEDGE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"ARROWEDGE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"ARROWEDGE_ENV" envDefault:"development"`
	LogLevel   string `env:"ARROWEDGE_LOG_LEVEL" envDefault:"info"`

	// Site identity used for canonical URLs, metadata and the sitemap
	SiteURL         string `env:"ARROWEDGE_SITE_URL" envDefault:"https://arrowedge.in"`
	SiteName        string `env:"ARROWEDGE_SITE_NAME" envDefault:"Arrowedge"`
	SiteDescription string `env:"ARROWEDGE_SITE_DESCRIPTION" envDefault:"Arrowedge is a design and development studio building fast, considered websites and brands."`
	DefaultOGImage  string `env:"ARROWEDGE_DEFAULT_OG_IMAGE" envDefault:"/images/og-default.jpg"`
	TwitterHandle   string `env:"ARROWEDGE_TWITTER_HANDLE" envDefault:"@arrowedge"`
	AreaServed      string `env:"ARROWEDGE_AREA_SERVED" envDefault:"Worldwide"`
	DisallowRobots  bool   `env:"ARROWEDGE_DISALLOW_ROBOTS" envDefault:"false"` // Block all crawlers (staging)

	// Cache configuration
	RedisURL     string `env:"ARROWEDGE_REDIS_URL"`                              // Optional Redis URL for a shared cache
	CachePrefix  string `env:"ARROWEDGE_CACHE_PREFIX" envDefault:"arrowedge:"` // Redis key prefix
	CacheTTL     int    `env:"ARROWEDGE_CACHE_TTL" envDefault:"3600"`          // Default cache TTL in seconds
	CacheMaxSize int    `env:"ARROWEDGE_CACHE_MAX_SIZE" envDefault:"10000"`    // Max memory cache entries

	// SMTP relay for the contact form
	SMTPHost     string        `env:"ARROWEDGE_SMTP_HOST"`
	SMTPPort     int           `env:"ARROWEDGE_SMTP_PORT" envDefault:"587"`
	SMTPUser     string        `env:"ARROWEDGE_SMTP_USER"`
	SMTPPassword string        `env:"ARROWEDGE_SMTP_PASSWORD"`
	SMTPTLS      bool          `env:"ARROWEDGE_SMTP_TLS" envDefault:"false"` // implicit TLS instead of STARTTLS
	MailFrom     string        `env:"ARROWEDGE_MAIL_FROM" envDefault:"noreply@arrowedge.in"`
	MailTo       []string      `env:"ARROWEDGE_MAIL_TO" envSeparator:","`
	MailTimeout  time.Duration `env:"ARROWEDGE_MAIL_TIMEOUT" envDefault:"15s"`

	// Generative text provider for /api/ai-description
	AIProvider string        `env:"ARROWEDGE_AI_PROVIDER" envDefault:"gemini"` // gemini or openai
	AIAPIKey   string        `env:"ARROWEDGE_AI_API_KEY"`
	AIModel    string        `env:"ARROWEDGE_AI_MODEL"`
	AIBaseURL  string        `env:"ARROWEDGE_AI_BASE_URL"`
	AITimeout  time.Duration `env:"ARROWEDGE_AI_TIMEOUT" envDefault:"30s"`

	// Contact form challenge
	CaptchaSecret   string        `env:"ARROWEDGE_CAPTCHA_SECRET"`
	CaptchaRequired bool          `env:"ARROWEDGE_CAPTCHA_REQUIRED" envDefault:"false"`
	CaptchaTTL      time.Duration `env:"ARROWEDGE_CAPTCHA_TTL" envDefault:"10m"`

	// Rate limiting and timeouts
	PageRateLimit  float64       `env:"ARROWEDGE_PAGE_RATE_LIMIT" envDefault:"10"` // requests per second per IP
	PageRateBurst  int           `env:"ARROWEDGE_PAGE_RATE_BURST" envDefault:"20"`
	APIRateLimit   float64       `env:"ARROWEDGE_API_RATE_LIMIT" envDefault:"0.2"` // one request per 5s per IP
	APIRateBurst   int           `env:"ARROWEDGE_API_RATE_BURST" envDefault:"3"`
	RequestTimeout time.Duration `env:"ARROWEDGE_REQUEST_TIMEOUT" envDefault:"30s"`

	// Scheduler
	SitemapSchedule string `env:"ARROWEDGE_SITEMAP_SCHEDULE" envDefault:"@every 1h"`

	// Extra origins allowed to POST to the API (cross-origin protection)
	TrustedOrigins []string `env:"ARROWEDGE_TRUSTED_ORIGINS" envSeparator:","`

	// Reverse proxies (CIDRs or addresses) whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty trusts no headers.
	TrustedProxies []string `env:"ARROWEDGE_TRUSTED_PROXIES" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.CaptchaSecret == "" && cfg.CaptchaRequired {
		slog.Warn("ARROWEDGE_CAPTCHA_SECRET not set; challenge tokens will not survive a restart")
	}

	return cfg, nil
}

// Validate checks field values that env parsing cannot.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.SiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("ARROWEDGE_SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL))
	} else if u.Path != "" && u.Path != "/" {
		errs = append(errs, fmt.Errorf("ARROWEDGE_SITE_URL must be an origin without a path, got %q", c.SiteURL))
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("ARROWEDGE_SERVER_PORT out of range: %d", c.ServerPort))
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("ARROWEDGE_SMTP_PORT out of range: %d", c.SMTPPort))
	}
	if c.MailEnabled() && len(c.MailTo) == 0 {
		errs = append(errs, errors.New("ARROWEDGE_MAIL_TO is required when ARROWEDGE_SMTP_HOST is set"))
	}

	switch strings.ToLower(c.AIProvider) {
	case "gemini", "openai":
	default:
		errs = append(errs, fmt.Errorf("ARROWEDGE_AI_PROVIDER must be gemini or openai, got %q", c.AIProvider))
	}

	if c.CaptchaSecret != "" && len(c.CaptchaSecret) < MinCaptchaSecretLength {
		errs = append(errs, fmt.Errorf("ARROWEDGE_CAPTCHA_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate one with: openssl rand -base64 32", MinCaptchaSecretLength, len(c.CaptchaSecret)))
	}

	if _, err := util.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("ARROWEDGE_TRUSTED_PROXIES: %w", err))
	}

	if c.PageRateLimit <= 0 || c.APIRateLimit <= 0 || c.PageRateBurst < 1 || c.APIRateBurst < 1 {
		errs = append(errs, errors.New("rate limits and bursts must be positive"))
	}

	return errors.Join(errs...)
}
