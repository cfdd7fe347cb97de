// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/arrowedge/site/internal/content"
)

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []Record
	}{
		{"bare string", "hello", []Record{{Slug: "hello"}}},
		{"blank string", "  ", []Record{}},
		{"slug key", map[string]any{"slug": "a", "updatedAt": "2024-01-01"}, []Record{{Slug: "a", UpdatedAt: "2024-01-01"}}},
		{"id fallback", map[string]any{"id": 42}, []Record{{Slug: "42"}}},
		{"float id", map[string]any{"id": float64(7)}, []Record{{Slug: "7"}}},
		{"name fallback", map[string]any{"name": "hello"}, []Record{{Slug: "hello"}}},
		{"slug wins over id", map[string]any{"slug": "s", "id": 1, "name": "n"}, []Record{{Slug: "s"}}},
		{"nil slug falls through", map[string]any{"slug": nil, "id": "x"}, []Record{{Slug: "x"}}},
		{"empty slug is unusable", map[string]any{"slug": "", "id": "x"}, []Record{}},
		{"no slug", map[string]any{"title": "orphan"}, []Record{}},
		{"updated_at", map[string]any{"slug": "a", "updated_at": "2024-02-01"}, []Record{{Slug: "a", UpdatedAt: "2024-02-01"}}},
		{"updated", map[string]any{"slug": "a", "updated": "2024-03-01"}, []Record{{Slug: "a", UpdatedAt: "2024-03-01"}}},
		{"lastModified", map[string]any{"slug": "a", "lastModified": "2024-04-01T10:00:00Z"}, []Record{{Slug: "a", UpdatedAt: "2024-04-01T10:00:00Z"}}},
		{"mtime time", map[string]any{"slug": "a", "mtime": time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, []Record{{Slug: "a", UpdatedAt: "2024-05-01"}}},
		{"updatedAt wins", map[string]any{"slug": "a", "updatedAt": "2024-01-01", "mtime": "2023-01-01"}, []Record{{Slug: "a", UpdatedAt: "2024-01-01"}}},
		{"zone-less date-time read as utc", map[string]any{"slug": "a", "updatedAt": "2024-04-01T10:00:00"}, []Record{{Slug: "a", UpdatedAt: "2024-04-01T10:00:00Z"}}},
		{"zone-less midnight", map[string]any{"slug": "a", "updatedAt": "2024-04-01T00:00:00"}, []Record{{Slug: "a", UpdatedAt: "2024-04-01"}}},
		{"zone-less fractional seconds", map[string]any{"slug": "a", "updatedAt": "2024-04-01T10:00:00.250"}, []Record{{Slug: "a", UpdatedAt: "2024-04-01T10:00:00Z"}}},
		{"offset kept", map[string]any{"slug": "a", "updatedAt": "2024-04-01T10:00:00+05:30"}, []Record{{Slug: "a", UpdatedAt: "2024-04-01T10:00:00+05:30"}}},
		{"mtime epoch millis", map[string]any{"slug": "a", "mtime": float64(1717236000000)}, []Record{{Slug: "a", UpdatedAt: "2024-06-01T10:00:00Z"}}},
		{"mtime epoch seconds", map[string]any{"slug": "a", "mtime": float64(1717236000)}, []Record{{Slug: "a", UpdatedAt: "2024-06-01T10:00:00Z"}}},
		{"mtime int64 millis", map[string]any{"slug": "a", "mtime": int64(1717200000000)}, []Record{{Slug: "a", UpdatedAt: "2024-06-01"}}},
		{"invalid timestamp omitted", map[string]any{"slug": "a", "updatedAt": "yesterday"}, []Record{{Slug: "a"}}},
		{"unsupported element", 3.5, []Record{}},
		{"nil element", nil, []Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]any{tt.in})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeTypedItems(t *testing.T) {
	post := content.BlogPost{Slug: "p", Date: "2024-06-01"}
	project := content.Project{Slug: "w", UpdatedAt: "2024-07-01"}

	got := Normalize([]any{post, project, content.Service{}})
	want := []Record{{Slug: "p", UpdatedAt: "2024-06-01"}, {Slug: "w", UpdatedAt: "2024-07-01"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []any{
		"a",
		map[string]any{"id": 2, "mtime": "2024-01-01"},
		map[string]any{"name": "c", "updated_at": "2024-01-02T03:04:05Z"},
		map[string]any{"title": "dropped"},
	}
	once := Normalize(raw)

	asAny := make([]any, len(once))
	asMaps := make([]any, len(once))
	for i, r := range once {
		asAny[i] = r
		asMaps[i] = map[string]any{"slug": r.Slug, "updatedAt": r.UpdatedAt}
	}

	if diff := cmp.Diff(once, Normalize(asAny)); diff != "" {
		t.Errorf("records not stable (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(once, Normalize(asMaps)); diff != "" {
		t.Errorf("record maps not stable (-once +twice):\n%s", diff)
	}
}

func TestRawSourceExportLookup(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want []Record
	}{
		{
			name: "bare array",
			doc:  []any{"a", "b"},
			want: []Record{{Slug: "a"}, {Slug: "b"}},
		},
		{
			name: "default before projects",
			doc:  map[string]any{"projects": []any{"p"}, "default": []any{"d"}},
			want: []Record{{Slug: "d"}},
		},
		{
			name: "empty export falls through",
			doc:  map[string]any{"posts": []any{}, "items": []any{"i"}},
			want: []Record{{Slug: "i"}},
		},
		{
			name: "unknown export scanned in sorted order",
			doc:  map[string]any{"zeta": []any{"z"}, "alpha": []any{"a"}, "meta": "x"},
			want: []Record{{Slug: "a"}},
		},
		{
			name: "no arrays",
			doc:  map[string]any{"meta": "x"},
			want: []Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRawSource("raw", PrefixWork, tt.doc).Records()
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Records() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRawSourceMalformed(t *testing.T) {
	for _, doc := range []any{nil, "just a string", 12} {
		_, err := NewRawSource("raw", PrefixBlog, doc).Records()
		if !errors.Is(err, ErrMalformedSource) {
			t.Errorf("Records(%v) error = %v, want ErrMalformedSource", doc, err)
		}
	}
}

func TestLoadRawSource(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "posts.json")
	yamlPath := filepath.Join(dir, "projects.yaml")
	if err := os.WriteFile(jsonPath, []byte(`{"posts":[{"slug":"x","updated":"2024-01-05"},{"id":9}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte("projects:\n  - slug: y\n    updatedAt: \"2024-02-02\"\n  - title: nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := LoadRawSource("posts", PrefixBlog, jsonPath)
	if err != nil {
		t.Fatalf("LoadRawSource(json) error = %v", err)
	}
	got, _ := src.Records()
	if diff := cmp.Diff([]Record{{Slug: "x", UpdatedAt: "2024-01-05"}, {Slug: "9"}}, got); diff != "" {
		t.Errorf("json records mismatch (-want +got):\n%s", diff)
	}

	src, err = LoadRawSource("projects", PrefixWork, yamlPath)
	if err != nil {
		t.Fatalf("LoadRawSource(yaml) error = %v", err)
	}
	got, _ = src.Records()
	if diff := cmp.Diff([]Record{{Slug: "y", UpdatedAt: "2024-02-02"}}, got); diff != "" {
		t.Errorf("yaml records mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadRawSource("x", PrefixWork, filepath.Join(dir, "data.toml")); err == nil {
		t.Error("LoadRawSource() with missing file should fail")
	}
}
