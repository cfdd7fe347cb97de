// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arrowedge/site/internal/content"
)

// Record is the normalised shape of one sitemap-eligible content item.
type Record struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Sluggable is satisfied by typed content items.
type Sluggable interface {
	ItemSlug() string
}

// Dated is satisfied by typed content items that track modification time.
type Dated interface {
	LastModified() string
}

// Alias keys checked on loosely shaped records, in priority order.
var (
	slugKeys      = []string{"slug", "id", "name"}
	timestampKeys = []string{"updatedAt", "updated_at", "updated", "lastModified", "mtime"}
)

// exportNames are the document keys checked for the record array before
// falling back to any non-empty array.
var exportNames = []string{"default", "posts", "blogPosts", "items", "data", "services", "projects"}

// ErrMalformedSource is returned when a raw document holds no usable shape.
var ErrMalformedSource = errors.New("malformed sitemap source")

// Normalize converts heterogeneous raw elements into Records. Elements
// that resolve to no usable slug are dropped. Normalising its own output
// returns the same records.
func Normalize(elems []any) []Record {
	records := make([]Record, 0, len(elems))
	for _, e := range elems {
		if r, ok := normalizeOne(e); ok {
			records = append(records, r)
		}
	}
	return records
}

func normalizeOne(e any) (Record, bool) {
	var r Record
	switch v := e.(type) {
	case nil:
		return r, false
	case Record:
		r = Record{Slug: strings.TrimSpace(v.Slug), UpdatedAt: timestampString(v.UpdatedAt)}
	case *Record:
		if v == nil {
			return r, false
		}
		return normalizeOne(*v)
	case string:
		r.Slug = strings.TrimSpace(v)
	case map[string]any:
		if slug, ok := firstDefined(v, slugKeys); ok {
			r.Slug = scalarString(slug)
		}
		if ts, ok := firstDefined(v, timestampKeys); ok {
			r.UpdatedAt = timestampString(ts)
		}
	case Sluggable:
		r.Slug = strings.TrimSpace(v.ItemSlug())
		if d, ok := e.(Dated); ok {
			r.UpdatedAt = timestampString(d.LastModified())
		}
	default:
		return r, false
	}
	return r, r.Slug != ""
}

// firstDefined returns the value of the first key present with a non-nil value.
func firstDefined(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// scalarString renders a slug candidate. Non-scalar values are unusable.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	}
	return ""
}

// localLayout is the accepted date-time spelling without a zone. Such
// values are read as UTC.
const localLayout = "2006-01-02T15:04:05"

// epochSecondsLimit separates epoch seconds from epoch milliseconds: 1e11
// seconds is past the year 5000, 1e11 milliseconds is in 1973.
const epochSecondsLimit = 1e11

// timestampString renders a timestamp candidate as a W3C Datetime, or ""
// when it is not a valid date. Date-only and zoned strings are kept as
// written; zone-less date-times are normalised to UTC. Numbers are Unix
// epoch milliseconds, or seconds when they are too small to be milliseconds
// of a plausible date.
func timestampString(v any) string {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if local, err := time.Parse(localLayout, t); err == nil {
			return formatTime(local)
		}
		if _, err := content.ParseDate(t); err != nil {
			return ""
		}
		return t
	case time.Time:
		return formatTime(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatTime(*t)
	case int:
		return formatTime(epochTime(int64(t)))
	case int64:
		return formatTime(epochTime(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return formatTime(epochTime(int64(t)))
	}
	return ""
}

func epochTime(n int64) time.Time {
	if n > -epochSecondsLimit && n < epochSecondsLimit {
		return time.Unix(n, 0)
	}
	return time.UnixMilli(n)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// RawSource adapts a loosely shaped document, such as a decoded JSON or
// YAML export, into a sitemap Source.
type RawSource struct {
	name   string
	prefix string
	doc    any
	weight
}

// NewRawSource wraps a decoded document. A bare array is treated as the
// default export.
func NewRawSource(name, prefix string, doc any) *RawSource {
	return &RawSource{
		name:   name,
		prefix: prefix,
		doc:    doc,
		weight: weight{freq: ChangeFreqWeekly, priority: "0.5"},
	}
}

// LoadRawSource reads a JSON or YAML document from path.
func LoadRawSource(name, prefix, path string) (*RawSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrMalformedSource, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return NewRawSource(name, prefix, doc), nil
}

// Name implements Source.
func (s *RawSource) Name() string { return s.name }

// Prefix implements Source.
func (s *RawSource) Prefix() string { return s.prefix }

// Records implements Source.
func (s *RawSource) Records() ([]Record, error) {
	elems, err := extractArray(s.doc)
	if err != nil {
		return nil, err
	}
	return Normalize(elems), nil
}

// extractArray finds the record array inside a decoded document.
func extractArray(doc any) ([]any, error) {
	switch d := doc.(type) {
	case []any:
		return d, nil
	case map[string]any:
		for _, key := range exportNames {
			if arr, ok := d[key].([]any); ok && len(arr) > 0 {
				return arr, nil
			}
		}
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if arr, ok := d[k].([]any); ok && len(arr) > 0 {
				return arr, nil
			}
		}
		return nil, nil
	case nil:
		return nil, fmt.Errorf("%w: empty document", ErrMalformedSource)
	}
	return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedSource, doc)
}
