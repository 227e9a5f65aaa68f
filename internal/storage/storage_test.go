package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// storeFactories lets every contract test run against each Store implementation.
func storeFactories() map[string]func(t *testing.T) storage.Store {
	return map[string]func(t *testing.T) storage.Store{
		"memory": func(t *testing.T) storage.Store {
			return storage.NewMemoryStore()
		},
		"sqlite": func(t *testing.T) storage.Store {
			s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "bkmr.db"))
			if err != nil {
				t.Fatalf("failed to create storage: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func forEachStore(t *testing.T, test func(t *testing.T, s storage.Store)) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			test(t, factory(t))
		})
	}
}

func mustInsert(t *testing.T, s storage.Store, url, title, desc, tags string) model.Bookmark {
	t.Helper()
	bm, err := s.Insert(context.Background(), model.NewBookmarkFrom(model.NewBookmarkParams{
		URL:         url,
		Title:       title,
		Description: desc,
		RawTags:     tags,
	}))
	if err != nil {
		t.Fatalf("failed to insert %s: %v", url, err)
	}
	return bm
}

func ids(bms []model.Bookmark) []int {
	result := make([]int, len(bms))
	for i, b := range bms {
		result[i] = b.ID
	}
	return result
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_InsertAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		bm := mustInsert(t, s, "https://example.com", "Example", "a page", "y,X")

		if bm.ID != 1 {
			t.Errorf("expected first id 1, got %d", bm.ID)
		}
		if bm.LastUpdate.IsZero() {
			t.Error("expected LastUpdate to be set")
		}

		got, err := s.GetByID(ctx, bm.ID)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.URL != "https://example.com" {
			t.Errorf("expected url verbatim, got %q", got.URL)
		}
		if got.Tags.String() != ",x,y," {
			t.Errorf("expected tags ,x,y, got %q", got.Tags.String())
		}
		if got.Description != "a page" {
			t.Errorf("expected description preserved, got %q", got.Description)
		}
	})
}

func TestStore_GetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		_, err := s.GetByID(context.Background(), 42)
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_DuplicateURL(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		mustInsert(t, s, "https://example.com", "One", "", "")

		_, err := s.Insert(context.Background(), model.NewBookmark{URL: "https://example.com"})
		if !errors.Is(err, model.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestStore_InsertBlankURL(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		for _, url := range []string{"", "   "} {
			_, err := s.Insert(ctx, model.NewBookmark{URL: url, Title: "blank"})
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("Insert(%q): expected ErrInvalidInput, got %v", url, err)
			}
		}

		bm := mustInsert(t, s, "https://example.com", "Example", "", "")
		bm.URL = " "
		if _, err := s.Update(ctx, bm); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("Update: expected ErrInvalidInput, got %v", err)
		}

		all, _ := s.Query(ctx, "", nil)
		if len(all) != 1 || all[0].URL != "https://example.com" {
			t.Errorf("expected only the valid bookmark stored, got %+v", all)
		}
	})
}

func TestStore_QueryText(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		mustInsert(t, s, "https://go.dev", "Go Docs", "language reference", "go")
		mustInsert(t, s, "https://rust-lang.org", "Rust", "systems LANGUAGE", "rust")
		mustInsert(t, s, "https://news.ycombinator.com", "Hacker News", "", "news")

		all, err := s.Query(ctx, "", nil)
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if !equalInts(ids(all), []int{1, 2, 3}) {
			t.Errorf("expected all ids in order, got %v", ids(all))
		}

		lang, _ := s.Query(ctx, "language", nil)
		if !equalInts(ids(lang), []int{1, 2}) {
			t.Errorf("expected case-insensitive description match, got %v", ids(lang))
		}

		both, _ := s.Query(ctx, "language rust", nil)
		if !equalInts(ids(both), []int{2}) {
			t.Errorf("expected every term to match, got %v", ids(both))
		}

		byURL, _ := s.Query(ctx, "ycombinator", nil)
		if !equalInts(ids(byURL), []int{3}) {
			t.Errorf("expected url match, got %v", ids(byURL))
		}
	})
}

func TestStore_QueryFoldsNonASCII(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		mustInsert(t, s, "https://example.de", "Über Go", "", "")
		mustInsert(t, s, "https://example.gr", "", "ΣΟΦΊΑ", "")

		got, err := s.Query(ctx, "über", nil)
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if !equalInts(ids(got), []int{1}) {
			t.Errorf("expected title match ignoring case, got %v", ids(got))
		}

		got, _ = s.Query(ctx, "ΣοφΊα", nil)
		if !equalInts(ids(got), []int{2}) {
			t.Errorf("expected description match ignoring case, got %v", ids(got))
		}
	})
}

func TestStore_QueryWildcardsAreLiteral(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		mustInsert(t, s, "https://a.example", "100% pure", "", "")
		mustInsert(t, s, "https://b.example", "100 pure", "", "")

		got, _ := s.Query(context.Background(), "100%", nil)
		if !equalInts(ids(got), []int{1}) {
			t.Errorf("expected literal percent match, got %v", ids(got))
		}
	})
}

func TestStore_QueryPushdownMatchesWholeTags(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		mustInsert(t, s, "https://a.example", "A", "", "rustacean")
		mustInsert(t, s, "https://b.example", "B", "", "rust,cli")
		mustInsert(t, s, "https://c.example", "C", "", "cli")

		filter := model.NewTagFilter(model.TagFilterParams{All: "rust"})
		got, err := s.Query(context.Background(), "", &filter)
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if !equalInts(ids(got), []int{2}) {
			t.Errorf("expected only the bookmark tagged rust, got %v", ids(got))
		}

		filter = model.NewTagFilter(model.TagFilterParams{All: "cli", Prefix: "rust"})
		got, _ = s.Query(context.Background(), "", &filter)
		if !equalInts(ids(got), []int{2}) {
			t.Errorf("expected prefix merged into all, got %v", ids(got))
		}
	})
}

func TestStore_Update(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		bm := mustInsert(t, s, "https://example.com", "Old", "", "a")

		bm.Title = "New"
		bm.Tags = model.ParseTags("a,b")
		updated, err := s.Update(ctx, bm)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.ID != bm.ID || updated.Title != "New" || updated.Tags.String() != ",a,b," {
			t.Errorf("unexpected updated bookmark: %+v", updated)
		}

		_, err = s.Update(ctx, model.Bookmark{ID: 99, URL: "https://nope.example"})
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_UpdateDuplicateURL(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		mustInsert(t, s, "https://one.example", "One", "", "")
		two := mustInsert(t, s, "https://two.example", "Two", "", "")

		two.URL = "https://one.example"
		_, err := s.Update(context.Background(), two)
		if !errors.Is(err, model.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestStore_DeleteCompactsHighestID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		mustInsert(t, s, "https://1.example", "One", "", "")
		mustInsert(t, s, "https://2.example", "Two", "", "")
		mustInsert(t, s, "https://3.example", "Three", "", "")

		if err := s.Delete(ctx, 1); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		moved, err := s.GetByID(ctx, 1)
		if err != nil {
			t.Fatalf("expected id 1 to be reused: %v", err)
		}
		if moved.URL != "https://3.example" {
			t.Errorf("expected highest id moved into the gap, got %q", moved.URL)
		}
		if _, err := s.GetByID(ctx, 3); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected id 3 to be freed, got %v", err)
		}

		all, _ := s.Query(ctx, "", nil)
		if !equalInts(ids(all), []int{1, 2}) {
			t.Errorf("expected dense ids, got %v", ids(all))
		}

		next := mustInsert(t, s, "https://4.example", "Four", "", "")
		if next.ID != 3 {
			t.Errorf("expected next id 3, got %d", next.ID)
		}
	})
}

func TestStore_DeleteLastDoesNotRenumber(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		mustInsert(t, s, "https://1.example", "One", "", "")
		mustInsert(t, s, "https://2.example", "Two", "", "")

		if err := s.Delete(ctx, 2); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		first, err := s.GetByID(ctx, 1)
		if err != nil || first.URL != "https://1.example" {
			t.Errorf("expected id 1 untouched, got %+v (%v)", first, err)
		}

		if err := s.Delete(ctx, 2); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_Tags(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		mustInsert(t, s, "https://1.example", "One", "", "go,cli")
		mustInsert(t, s, "https://2.example", "Two", "", "go")
		mustInsert(t, s, "https://3.example", "Three", "", "rust,cli")

		all, err := s.AllTags(ctx)
		if err != nil {
			t.Fatalf("all tags failed: %v", err)
		}
		if len(all) != 3 || all[0] != (model.TagCount{Tag: "cli", Count: 2}) {
			t.Errorf("unexpected tag counts: %+v", all)
		}

		related, err := s.RelatedTags(ctx, "rust")
		if err != nil {
			t.Fatalf("related tags failed: %v", err)
		}
		want := []model.TagCount{{Tag: "cli", Count: 1}, {Tag: "rust", Count: 1}}
		if len(related) != len(want) || related[0] != want[0] || related[1] != want[1] {
			t.Errorf("expected %+v, got %+v", want, related)
		}
	})
}
