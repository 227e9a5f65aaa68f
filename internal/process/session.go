package process

import (
	"fmt"

	"github.com/nikbrunner/bkmr/internal/model"
)

// Session holds one ordered result list and resolves 1-based ordinals against it.
// Ordinals refer to positions in this list only, never to bookmark ids.
type Session struct {
	results []model.Bookmark
}

// NewSession wraps a copy of results.
func NewSession(results []model.Bookmark) *Session {
	return &Session{results: append([]model.Bookmark(nil), results...)}
}

// Len returns the number of results.
func (s *Session) Len() int {
	return len(s.results)
}

// Bookmarks returns the results in order.
func (s *Session) Bookmarks() []model.Bookmark {
	return s.results
}

// Resolve returns the bookmark at ordinal, which must lie in 1..Len().
func (s *Session) Resolve(ordinal int) (model.Bookmark, error) {
	if ordinal < 1 || ordinal > len(s.results) {
		return model.Bookmark{}, fmt.Errorf("ordinal %d not in 1..%d: %w", ordinal, len(s.results), model.ErrOutOfRange)
	}
	return s.results[ordinal-1], nil
}

// ResolveMany resolves ordinals in the given order and stops at the first error.
func (s *Session) ResolveMany(ordinals []int) ([]model.Bookmark, error) {
	resolved := make([]model.Bookmark, 0, len(ordinals))
	for _, ordinal := range ordinals {
		bm, err := s.Resolve(ordinal)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, bm)
	}
	return resolved, nil
}

// Ordinals returns 1..Len().
func (s *Session) Ordinals() []int {
	ordinals := make([]int, len(s.results))
	for i := range ordinals {
		ordinals[i] = i + 1
	}
	return ordinals
}
