// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// Breadcrumbs builds a trail starting at Home from label/URL pairs. The last
// item is marked active. An odd trailing label is ignored.
func Breadcrumbs(pairs ...string) []Breadcrumb {
	trail := []Breadcrumb{{Label: "Home", URL: "/"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		trail = append(trail, Breadcrumb{Label: pairs[i], URL: pairs[i+1]})
	}
	trail[len(trail)-1].Active = true
	return trail
}
