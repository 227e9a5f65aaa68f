package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
)

// Store defines the bookmark persistence contract.
//
// Ids are dense positive integers. Insert assigns max(id)+1 and Delete
// compacts: when a higher id exists, the bookmark holding the current
// maximum id is renumbered to the freed id. Batch deletions must therefore
// remove higher ids first.
type Store interface {
	// GetByID returns model.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id int) (model.Bookmark, error)

	// Query returns bookmarks matching text in ascending id order.
	// Every whitespace separated term of text must occur, case-insensitively,
	// in the url, title or description. A non-nil pushdown narrows the
	// candidates by its all and prefix clauses; callers still apply the full filter.
	Query(ctx context.Context, text string, pushdown *model.TagFilter) ([]model.Bookmark, error)

	// Insert returns model.ErrDuplicate when the url is already stored and
	// model.ErrInvalidInput when it is blank.
	Insert(ctx context.Context, nb model.NewBookmark) (model.Bookmark, error)

	// Update overwrites url, title, description and tags and refreshes LastUpdate.
	Update(ctx context.Context, bm model.Bookmark) (model.Bookmark, error)

	Delete(ctx context.Context, id int) error

	AllTags(ctx context.Context) ([]model.TagCount, error)

	// RelatedTags counts the tags of all bookmarks tagged with tag.
	RelatedTags(ctx context.Context, tag string) ([]model.TagCount, error)

	Close() error
}

func validateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("empty url: %w", model.ErrInvalidInput)
	}
	return nil
}

// queryTerms splits free text into lowercase search terms.
func queryTerms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// matchesTerms reports whether every term occurs in one of the text fields.
func matchesTerms(bm model.Bookmark, terms []string) bool {
	url := strings.ToLower(bm.URL)
	title := strings.ToLower(bm.Title)
	desc := strings.ToLower(bm.Description)
	for _, term := range terms {
		if !strings.Contains(url, term) && !strings.Contains(title, term) && !strings.Contains(desc, term) {
			return false
		}
	}
	return true
}
