package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// ParseIDs parses a comma separated id list such as "3,7, 1".
func ParseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("only positive numbers allowed, got %q: %w", part, model.ErrInvalidInput)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// lookupAll fetches every id or fails on the first one that is missing.
func lookupAll(ctx context.Context, store storage.Store, ids []int) ([]model.Bookmark, error) {
	bookmarks := make([]model.Bookmark, 0, len(ids))
	for _, id := range ids {
		bm, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bm)
	}
	return bookmarks, nil
}
