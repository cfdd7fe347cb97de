// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
)

// DefaultRelatedLimit is used when Related is called with a non-positive limit.
const DefaultRelatedLimit = 3

var (
	// ErrDuplicateSlug is returned when two items of one collection share a slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrDuplicateID is returned when two items of one collection share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// Collection is an immutable, ordered set of items addressable by slug.
type Collection[T Item] struct {
	name   string
	items  []T
	bySlug map[string]int
}

// NewCollection indexes items, rejecting duplicate slugs or ids.
// The input order is preserved and becomes the order of every listing.
func NewCollection[T Item](name string, items []T) (*Collection[T], error) {
	c := &Collection[T]{
		name:   name,
		items:  make([]T, len(items)),
		bySlug: make(map[string]int, len(items)),
	}
	copy(c.items, items)

	ids := make(map[int]string, len(items))
	for i, item := range c.items {
		slug := item.ItemSlug()
		if prev, ok := c.bySlug[slug]; ok {
			return nil, fmt.Errorf("%s: %w %q (items %d and %d)", name, ErrDuplicateSlug, slug, prev, i)
		}
		if other, ok := ids[item.ItemID()]; ok {
			return nil, fmt.Errorf("%s: %w %d (%q and %q)", name, ErrDuplicateID, item.ItemID(), other, slug)
		}
		c.bySlug[slug] = i
		ids[item.ItemID()] = slug
	}

	return c, nil
}

// Name returns the collection name used in errors and logs.
func (c *Collection[T]) Name() string {
	return c.name
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// All returns a copy of the items in source order.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// BySlug returns the item whose slug equals slug exactly (case-sensitive).
// The boolean is false when no item matches.
func (c *Collection[T]) BySlug(slug string) (T, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Filter returns the items for which keep returns true, in source order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// RelatedFilter decides whether candidate counts as related to current.
type RelatedFilter[T Item] func(current, candidate T) bool

// Related returns up to limit items related to current. The current item is
// always excluded by id, keep is applied to the rest, and matches are taken
// in source order. Fewer than limit matches are returned as-is.
func (c *Collection[T]) Related(current T, limit int, keep RelatedFilter[T]) []T {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	out := make([]T, 0, limit)
	for _, candidate := range c.items {
		if candidate.ItemID() == current.ItemID() {
			continue
		}
		if keep != nil && !keep(current, candidate) {
			continue
		}
		out = append(out, candidate)
		if len(out) == limit {
			break
		}
	}
	return out
}

// AnyOther accepts every candidate; only the current item is excluded.
func AnyOther[T Item](_, _ T) bool {
	return true
}

// SameProjectCategory relates projects that share a category.
func SameProjectCategory(current, candidate Project) bool {
	return candidate.Category == current.Category
}

// SamePostCategory relates posts that share a category.
func SamePostCategory(current, candidate BlogPost) bool {
	return candidate.Category == current.Category
}
