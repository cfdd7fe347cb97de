// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides the template helpers, pagination and breadcrumb
// view models shared by the site's page templates.
package uikit

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is how dates are shown on cards and article headers.
const DateLayout = "Jan 2, 2006"

// TemplateFuncs returns a template.FuncMap with pure helper functions.
//
// Callers can merge site-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["markdown"] = renderMarkdown
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Strings
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
		"truncate":  Truncate,
		"contains": func(collection, element any) bool {
			if slice, ok := collection.([]string); ok {
				if elem, ok := element.(string); ok {
					for _, s := range slice {
						if s == elem {
							return true
						}
					}
				}
				return false
			}
			if s, ok := collection.(string); ok {
				if substr, ok := element.(string); ok {
					return strings.Contains(s, substr)
				}
			}
			return false
		},

		// URL safety. Only for values authored in the content files.
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"now": time.Now,
		"formatDate": func(t any) string {
			return ApplyTimeFormatter(t, DateLayout)
		},
		"isoDate": func(t any) string {
			return ApplyTimeFormatter(t, "2006-01-02")
		},

		// JSON
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending "..." when cut.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:length]), " ") + "..."
}

// ApplyTimeFormatter formats time.Time, *time.Time or an authored date
// string with layout. Unparseable strings are returned unchanged; nil
// pointers and other types give "".
func ApplyTimeFormatter(t any, layout string) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(layout)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format(layout)
	case string:
		for _, l := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(l, v); err == nil {
				return parsed.Format(layout)
			}
		}
		return v
	default:
		return ""
	}
}
