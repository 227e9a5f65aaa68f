package process_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// seededStore inserts n bookmarks with ids 1..n.
func seededStore(t *testing.T, n int) *recordingStore {
	t.Helper()
	mem := storage.NewMemoryStore()
	for i := 1; i <= n; i++ {
		_, err := mem.Insert(context.Background(), model.NewBookmark{
			URL:   fmt.Sprintf("https://%d.example", i),
			Title: fmt.Sprintf("Bookmark %d", i),
		})
		if err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
	return &recordingStore{Store: mem}
}

func byIDs(t *testing.T, s storage.Store, ids ...int) []model.Bookmark {
	t.Helper()
	bms := make([]model.Bookmark, len(ids))
	for i, id := range ids {
		bm, err := s.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("failed to get %d: %v", id, err)
		}
		bms[i] = bm
	}
	return bms
}

func TestDispatcher_DeleteInDescendingIDOrder(t *testing.T) {
	store := seededStore(t, 7)
	session := process.NewSession(byIDs(t, store, 3, 7, 1))
	d := process.NewDispatcher(process.DispatcherParams{Store: store})

	if err := d.Dispatch(context.Background(), process.ActionDelete, session, []int{1, 2, 3}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if !slices.Equal(store.deleted, []int{7, 3, 1}) {
		t.Errorf("expected delete order [7 3 1], got %v", store.deleted)
	}

	remaining, _ := store.Query(context.Background(), "", nil)
	urls := make([]string, len(remaining))
	for i, bm := range remaining {
		urls[i] = bm.URL
	}
	want := []string{"https://5.example", "https://2.example", "https://6.example", "https://4.example"}
	if !slices.Equal(urls, want) {
		t.Errorf("expected the three selected bookmarks gone, got %v", urls)
	}
}

func TestDispatcher_DeleteRepeatedOrdinalOnce(t *testing.T) {
	store := seededStore(t, 3)
	session := process.NewSession(byIDs(t, store, 1, 2, 3))
	d := process.NewDispatcher(process.DispatcherParams{Store: store})

	if err := d.Dispatch(context.Background(), process.ActionDelete, session, []int{1, 1}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if !slices.Equal(store.deleted, []int{1}) {
		t.Errorf("expected a single delete of id 1, got %v", store.deleted)
	}
	remaining, _ := store.Query(context.Background(), "", nil)
	urls := make([]string, len(remaining))
	for i, bm := range remaining {
		urls[i] = bm.URL
	}
	want := []string{"https://3.example", "https://2.example"}
	if !slices.Equal(urls, want) {
		t.Errorf("expected only the first bookmark gone, got %v", urls)
	}
}

func TestDispatcher_AbortsOnFirstFailure(t *testing.T) {
	store := seededStore(t, 3)
	opener := &fakeOpener{failOn: map[string]bool{"https://2.example": true}}
	d := process.NewDispatcher(process.DispatcherParams{Store: store, Opener: opener})

	err := d.Run(context.Background(), process.ActionOpen, byIDs(t, store, 1, 2, 3))

	if !errors.Is(err, model.ErrExternalProcess) {
		t.Errorf("expected ErrExternalProcess, got %v", err)
	}
	if !slices.Equal(opener.opened, []string{"https://1.example", "https://2.example"}) {
		t.Errorf("expected id 3 never attempted, got %v", opener.opened)
	}
}

func TestDispatcher_OutOfRangeBeforeAnyAction(t *testing.T) {
	store := seededStore(t, 2)
	opener := &fakeOpener{}
	session := process.NewSession(byIDs(t, store, 1, 2))
	d := process.NewDispatcher(process.DispatcherParams{Store: store, Opener: opener})

	err := d.Dispatch(context.Background(), process.ActionOpen, session, []int{1, 3})

	if !errors.Is(err, model.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if len(opener.opened) != 0 {
		t.Errorf("expected nothing opened, got %v", opener.opened)
	}
}

func TestDispatcher_EditWritesBack(t *testing.T) {
	store := seededStore(t, 2)
	editor := &fakeEditor{edit: func(bm model.Bookmark) (model.Bookmark, error) {
		bm.Title = "edited"
		bm.Tags = model.ParseTags("new")
		return bm, nil
	}}
	session := process.NewSession(byIDs(t, store, 2, 1))
	d := process.NewDispatcher(process.DispatcherParams{Store: store, Editor: editor})

	if err := d.Dispatch(context.Background(), process.ActionEdit, session, []int{1}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	got, _ := store.GetByID(context.Background(), 2)
	if got.Title != "edited" || got.Tags.String() != ",new," {
		t.Errorf("expected edit stored for id 2, got %+v", got)
	}
	untouched, _ := store.GetByID(context.Background(), 1)
	if untouched.Title != "Bookmark 1" {
		t.Errorf("expected id 1 untouched, got %+v", untouched)
	}
}

func TestDispatcher_EditParseFailureStopsBatch(t *testing.T) {
	store := seededStore(t, 2)
	editor := &fakeEditor{edit: func(bm model.Bookmark) (model.Bookmark, error) {
		return model.Bookmark{}, model.ErrEditParse
	}}
	d := process.NewDispatcher(process.DispatcherParams{Store: store, Editor: editor})

	err := d.Run(context.Background(), process.ActionEdit, byIDs(t, store, 1, 2))

	if !errors.Is(err, model.ErrEditParse) {
		t.Errorf("expected ErrEditParse, got %v", err)
	}
	if !slices.Equal(editor.edited, []int{1}) {
		t.Errorf("expected only id 1 attempted, got %v", editor.edited)
	}
}

func TestDispatcher_Print(t *testing.T) {
	store := seededStore(t, 3)
	session := process.NewSession(byIDs(t, store, 3, 2, 1))

	tests := []struct {
		name     string
		ordinals []int
		want     string
	}{
		{"all when empty", nil, "1 2 3\n"},
		{"given ordinals", []int{3, 1}, "3 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d := process.NewDispatcher(process.DispatcherParams{Store: store, Out: &out})

			if err := d.Dispatch(context.Background(), process.ActionPrint, session, tt.ordinals); err != nil {
				t.Fatalf("dispatch failed: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestDispatcher_StopsWhenContextCancelled(t *testing.T) {
	store := seededStore(t, 2)
	opener := &fakeOpener{}
	d := process.NewDispatcher(process.DispatcherParams{Store: store, Opener: opener})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx, process.ActionOpen, byIDs(t, store, 1, 2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(opener.opened) != 0 {
		t.Errorf("expected nothing opened, got %v", opener.opened)
	}
}

func TestAction_String(t *testing.T) {
	if process.ActionDelete.String() != "delete" || process.Action(9).String() != "action(9)" {
		t.Error("unexpected action names")
	}
}
