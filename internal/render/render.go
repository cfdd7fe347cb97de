// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns page view models into HTML using the embedded
// layout, partial and page templates.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/arrowedge/site/internal/content"
	"github.com/arrowedge/site/internal/seo"
	"github.com/arrowedge/site/internal/uikit"
)

// Renderer handles template rendering with parsed templates cached per page.
type Renderer struct {
	templates map[string]*template.Template
	site      *seo.Site
	md        goldmark.Markdown
	policy    *bluemonday.Policy
	logger    *slog.Logger
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Site        *seo.Site
	Logger      *slog.Logger
}

// NavItem is one entry of the primary navigation.
type NavItem struct {
	Label string
	URL   string
}

// Navigation is the primary menu, in display order.
var Navigation = []NavItem{
	{Label: "Work", URL: seo.RouteWork},
	{Label: "Services", URL: seo.RouteServices},
	{Label: "Blog", URL: seo.RouteBlog},
	{Label: "About", URL: "/about"},
	{Label: "Contact", URL: "/contact"},
}

// PageData holds data passed to templates.
type PageData struct {
	Meta        *seo.Meta
	Site        *seo.Site
	Nav         []NavItem
	Breadcrumbs []uikit.Breadcrumb
	CurrentPath string
	CurrentYear int
	Data        any
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		site:      cfg.Site,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough, extension.Typographer),
		),
		policy: bluemonday.UGCPolicy().RequireNoFollowOnLinks(true),
		logger: logger,
		now:    time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page template together with the base layout
// and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := templateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	const baseLayout = "layouts/base.html"

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// templateFuncs merges the shared uikit helpers with content rendering.
func (r *Renderer) templateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["markdown"] = r.Markdown
	funcs["blocks"] = r.Blocks
	funcs["absURL"] = func(p string) string {
		if r.site == nil {
			return p
		}
		return r.site.Absolute(p)
	}
	funcs["isActive"] = func(current, link string) bool {
		return current == link || strings.HasPrefix(current, link+"/")
	}
	return funcs
}

// Has reports whether a page template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes the named page into a buffer and writes it with status.
// Nothing is written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data PageData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data.Site == nil {
		data.Site = r.site
	}
	if data.Nav == nil {
		data.Nav = Navigation
	}
	if data.CurrentPath == "" && req != nil {
		data.CurrentPath = req.URL.Path
	}
	data.CurrentYear = r.now().Year()

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("writing response", "template", name, "error", err)
	}
	return nil
}

// Markdown renders authored markdown to sanitized HTML. Raw HTML in the
// source is dropped by goldmark and the UGC policy strips anything else
// unexpected.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		r.logger.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// inline renders markdown without the wrapping paragraph, for headings and
// list items.
func (r *Renderer) inline(src string) string {
	html := strings.TrimSpace(string(r.Markdown(src)))
	html = strings.TrimPrefix(html, "<p>")
	return strings.TrimSuffix(html, "</p>")
}

// Blocks renders a blog post body. Unknown block types are skipped.
func (r *Renderer) Blocks(blocks []content.Block) template.HTML {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Type {
		case content.BlockParagraph:
			b.WriteString(string(r.Markdown(block.Text)))
		case content.BlockHeading:
			level := min(max(block.Level, 1), 6)
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, r.inline(block.Text), level)
		case content.BlockList:
			b.WriteString("<ul>\n")
			for _, item := range block.Items {
				fmt.Fprintf(&b, "<li>%s</li>\n", r.inline(item))
			}
			b.WriteString("</ul>\n")
		default:
			r.logger.Debug("skipping unknown content block", "type", block.Type)
		}
	}
	return template.HTML(b.String())
}
