package process_test

import (
	"context"
	"fmt"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// fakeOpener records opened urls and fails for the urls in failOn.
type fakeOpener struct {
	opened []string
	failOn map[string]bool
}

func (f *fakeOpener) Open(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	if f.failOn[url] {
		return fmt.Errorf("open %s: %w", url, model.ErrExternalProcess)
	}
	return nil
}

// fakeEditor applies edit to every bookmark it is handed.
type fakeEditor struct {
	edited []int
	edit   func(model.Bookmark) (model.Bookmark, error)
}

func (f *fakeEditor) Edit(_ context.Context, bm model.Bookmark) (model.Bookmark, error) {
	f.edited = append(f.edited, bm.ID)
	if f.edit == nil {
		return bm, nil
	}
	return f.edit(bm)
}

// recordingStore records the ids passed to Delete.
type recordingStore struct {
	storage.Store
	deleted []int
}

func (s *recordingStore) Delete(ctx context.Context, id int) error {
	s.deleted = append(s.deleted, id)
	return s.Store.Delete(ctx, id)
}
