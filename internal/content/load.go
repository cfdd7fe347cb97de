// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/arrowedge/site/internal/util"
)

//go:embed data/*.yaml
var dataFS embed.FS

// File names of the collections inside a data filesystem.
const (
	ProjectsFile = "projects.yaml"
	ServicesFile = "services.yaml"
	PostsFile    = "posts.yaml"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Load decodes the collections embedded in the binary.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded content: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS decodes the three collection files from fsys and validates them.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var doc struct {
		Projects []Project  `yaml:"projects"`
		Services []Service  `yaml:"services"`
		Posts    []BlogPost `yaml:"posts"`
	}

	for _, name := range []string{ProjectsFile, ServicesFile, PostsFile} {
		if err := decodeFile(fsys, name, &doc); err != nil {
			return nil, err
		}
	}

	var errs []error
	for i := range doc.Projects {
		errs = append(errs, prepareProject(&doc.Projects[i]))
	}
	for i := range doc.Services {
		errs = append(errs, prepareService(&doc.Services[i]))
	}
	for i := range doc.Posts {
		errs = append(errs, preparePost(&doc.Posts[i]))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	projects, err := NewCollection("projects", doc.Projects)
	if err != nil {
		return nil, err
	}
	services, err := NewCollection("services", doc.Services)
	if err != nil {
		return nil, err
	}
	posts, err := NewCollection("posts", doc.Posts)
	if err != nil {
		return nil, err
	}

	return &Catalog{Projects: projects, Services: services, Posts: posts}, nil
}

// decodeFile strictly decodes one YAML file into the shared document.
func decodeFile(fsys fs.FS, name string, into any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// resolveSlug fills a missing slug from the title and validates the result.
func resolveSlug(kind string, id int, slug *string, title string) error {
	if *slug == "" {
		*slug = util.Slugify(title)
	}
	if !util.IsValidSlug(*slug) {
		return fmt.Errorf("%s %d: invalid slug %q", kind, id, *slug)
	}
	return nil
}

func checkDate(kind, slug, field, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s %q: %s is required", kind, slug, field)
		}
		return nil
	}
	if _, err := ParseDate(value); err != nil {
		return fmt.Errorf("%s %q: invalid %s %q", kind, slug, field, value)
	}
	return nil
}

func checkTestimonial(kind, slug string, t *Testimonial) error {
	if t == nil {
		return nil
	}
	if t.Quote == "" || t.Author == "" {
		return fmt.Errorf("%s %q: testimonial needs quote and author", kind, slug)
	}
	if t.Rating < 0 || t.Rating > 5 {
		return fmt.Errorf("%s %q: testimonial rating %d out of range 0-5", kind, slug, t.Rating)
	}
	return nil
}

func prepareProject(p *Project) error {
	if err := resolveSlug("project", p.ID, &p.Slug, p.Title); err != nil {
		return err
	}

	var errs []error
	if p.Title == "" {
		errs = append(errs, fmt.Errorf("project %q: title is required", p.Slug))
	}
	if !p.Category.Valid() {
		errs = append(errs, fmt.Errorf("project %q: unknown category %q", p.Slug, p.Category))
	}
	for _, tech := range p.Technologies {
		if !tech.Category.Valid() {
			errs = append(errs, fmt.Errorf("project %q: technology %q has unknown category %q", p.Slug, tech.Name, tech.Category))
		}
	}
	for _, c := range p.Colors.Colors() {
		if !hexColor.MatchString(c[1]) {
			errs = append(errs, fmt.Errorf("project %q: color %s %q is not #rrggbb", p.Slug, c[0], c[1]))
		}
	}
	errs = append(errs,
		checkTestimonial("project", p.Slug, p.Testimonial),
		checkDate("project", p.Slug, "updatedAt", p.UpdatedAt, false),
	)
	return errors.Join(errs...)
}

func prepareService(s *Service) error {
	if err := resolveSlug("service", s.ID, &s.Slug, s.Title); err != nil {
		return err
	}

	var errs []error
	if s.Title == "" {
		errs = append(errs, fmt.Errorf("service %q: title is required", s.Slug))
	}
	errs = append(errs,
		checkTestimonial("service", s.Slug, s.Testimonial),
		checkDate("service", s.Slug, "updatedAt", s.UpdatedAt, false),
	)
	return errors.Join(errs...)
}

func preparePost(p *BlogPost) error {
	if err := resolveSlug("post", p.ID, &p.Slug, p.Title); err != nil {
		return err
	}

	var errs []error
	if p.Title == "" {
		errs = append(errs, fmt.Errorf("post %q: title is required", p.Slug))
	}
	for i, b := range p.Content {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("post %q: block %d: %w", p.Slug, i, err))
		}
	}
	errs = append(errs,
		checkDate("post", p.Slug, "date", p.Date, true),
		checkDate("post", p.Slug, "updatedAt", p.UpdatedAt, false),
	)
	return errors.Join(errs...)
}
