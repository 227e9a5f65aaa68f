// Package search turns a text query, a tag filter and a sort mode into an
// ordered result list.
package search

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// SortMode selects the order of a result list.
type SortMode int

const (
	// SortTitle orders by title, case-insensitively. This is the default.
	SortTitle SortMode = iota
	// SortNewest orders by last update, most recent first.
	SortNewest
	// SortOldest orders by last update, oldest first.
	SortOldest
)

func (m SortMode) String() string {
	switch m {
	case SortNewest:
		return "newest"
	case SortOldest:
		return "oldest"
	default:
		return "title"
	}
}

// Engine runs searches against a Store.
type Engine struct {
	store storage.Store
}

// NewEngine creates an Engine backed by store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store}
}

// Query returns the bookmarks matching text and filter, sorted by mode.
// Ties keep the store's id order, so identical queries yield identical lists.
func (e *Engine) Query(ctx context.Context, text string, filter model.TagFilter, mode SortMode) ([]model.Bookmark, error) {
	var pushdown *model.TagFilter
	if !filter.IsZero() {
		pushdown = &filter
	}

	candidates, err := e.store.Query(ctx, text, pushdown)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	results := make([]model.Bookmark, 0, len(candidates))
	for _, bm := range candidates {
		if filter.Matches(bm.Tags) {
			results = append(results, bm)
		}
	}

	Sort(results, mode)
	return results, nil
}

// Sort orders bookmarks in place. The sort is stable.
func Sort(bookmarks []model.Bookmark, mode SortMode) {
	switch mode {
	case SortNewest:
		slices.SortStableFunc(bookmarks, func(a, b model.Bookmark) int {
			return b.LastUpdate.Compare(a.LastUpdate)
		})
	case SortOldest:
		slices.SortStableFunc(bookmarks, func(a, b model.Bookmark) int {
			return a.LastUpdate.Compare(b.LastUpdate)
		})
	default:
		slices.SortStableFunc(bookmarks, func(a, b model.Bookmark) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
}
