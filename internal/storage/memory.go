package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/nikbrunner/bkmr/internal/model"
)

// MemoryStore implements Store on an in-process slice kept in id order.
type MemoryStore struct {
	Bookmarks []model.Bookmark
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Bookmarks: []model.Bookmark{},
		now:       time.Now,
	}
}

// WithClock replaces the timestamp source, for deterministic LastUpdate values.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// GetByID finds a bookmark by ID.
func (s *MemoryStore) GetByID(_ context.Context, id int) (model.Bookmark, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Bookmark{}, fmt.Errorf("id %d: %w", id, model.ErrNotFound)
	}
	return s.Bookmarks[i], nil
}

// Query returns matching bookmarks in id order.
func (s *MemoryStore) Query(_ context.Context, text string, pushdown *model.TagFilter) ([]model.Bookmark, error) {
	terms := queryTerms(text)
	var all *model.TagSet
	if pushdown != nil {
		all = pushdown.EffectiveAll()
	}

	result := []model.Bookmark{}
	for _, b := range s.Bookmarks {
		if !matchesTerms(b, terms) {
			continue
		}
		if all != nil && !b.Tags.ContainsAll(*all) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// Insert appends a bookmark with the next free id.
func (s *MemoryStore) Insert(_ context.Context, nb model.NewBookmark) (model.Bookmark, error) {
	if err := validateURL(nb.URL); err != nil {
		return model.Bookmark{}, err
	}
	if s.HasBookmarkURL(nb.URL) {
		return model.Bookmark{}, fmt.Errorf("%s: %w", nb.URL, model.ErrDuplicate)
	}

	bm := model.Bookmark{
		ID:          s.maxID() + 1,
		URL:         nb.URL,
		Title:       nb.Title,
		Description: nb.Description,
		Tags:        tagsOrEmpty(nb.Tags),
		LastUpdate:  s.now(),
	}
	s.Bookmarks = append(s.Bookmarks, bm)
	return bm, nil
}

// Update replaces the stored bookmark with the same id.
func (s *MemoryStore) Update(_ context.Context, bm model.Bookmark) (model.Bookmark, error) {
	if err := validateURL(bm.URL); err != nil {
		return model.Bookmark{}, err
	}
	i := s.indexOf(bm.ID)
	if i < 0 {
		return model.Bookmark{}, fmt.Errorf("id %d: %w", bm.ID, model.ErrNotFound)
	}
	for j, other := range s.Bookmarks {
		if j != i && other.URL == bm.URL {
			return model.Bookmark{}, fmt.Errorf("%s: %w", bm.URL, model.ErrDuplicate)
		}
	}

	bm.Tags = tagsOrEmpty(bm.Tags)
	bm.LastUpdate = s.now()
	s.Bookmarks[i] = bm
	return bm, nil
}

// Delete removes a bookmark and moves the highest id into the freed slot.
func (s *MemoryStore) Delete(_ context.Context, id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("id %d: %w", id, model.ErrNotFound)
	}
	s.Bookmarks = slices.Delete(s.Bookmarks, i, i+1)

	if maxID := s.maxID(); maxID > id {
		last := s.indexOf(maxID)
		moved := s.Bookmarks[last]
		moved.ID = id
		s.Bookmarks = slices.Delete(s.Bookmarks, last, last+1)
		s.Bookmarks = slices.Insert(s.Bookmarks, i, moved)
	}
	return nil
}

// AllTags counts tags over all bookmarks.
func (s *MemoryStore) AllTags(_ context.Context) ([]model.TagCount, error) {
	sets := make([]model.TagSet, len(s.Bookmarks))
	for i, b := range s.Bookmarks {
		sets[i] = b.Tags
	}
	return model.CountTags(sets), nil
}

// RelatedTags counts tags over bookmarks tagged with tag.
func (s *MemoryStore) RelatedTags(_ context.Context, tag string) ([]model.TagCount, error) {
	want := model.NewTagSet(tag)
	if want.Empty() {
		return []model.TagCount{}, nil
	}
	var sets []model.TagSet
	for _, b := range s.Bookmarks {
		if b.Tags.ContainsAll(want) {
			sets = append(sets, b.Tags)
		}
	}
	return model.CountTags(sets), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// HasBookmarkURL checks if a bookmark with the given URL exists.
func (s *MemoryStore) HasBookmarkURL(url string) bool {
	for _, b := range s.Bookmarks {
		if b.URL == url {
			return true
		}
	}
	return false
}

func (s *MemoryStore) indexOf(id int) int {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) maxID() int {
	maxID := 0
	for _, b := range s.Bookmarks {
		maxID = max(maxID, b.ID)
	}
	return maxID
}

func tagsOrEmpty(tags model.TagSet) model.TagSet {
	if tags == nil {
		return model.TagSet{}
	}
	return tags
}
