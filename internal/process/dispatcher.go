package process

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// Action is one of the batch operations a selection can be dispatched to.
type Action int

const (
	ActionOpen Action = iota
	ActionDelete
	ActionEdit
	ActionPrint
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionDelete:
		return "delete"
	case ActionEdit:
		return "edit"
	case ActionPrint:
		return "print"
	default:
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
}

// Dispatcher applies actions to bookmarks one at a time.
// The first failure aborts the batch; earlier items are not rolled back.
type Dispatcher struct {
	store  storage.Store
	opener Opener
	editor Editor
	out    io.Writer
	log    logger.Logger
}

// DispatcherParams holds the collaborators of a Dispatcher.
type DispatcherParams struct {
	Store  storage.Store
	Opener Opener
	Editor Editor
	Out    io.Writer
	Logger logger.Logger
}

// NewDispatcher creates a Dispatcher. A nil Logger discards log output.
func NewDispatcher(params DispatcherParams) *Dispatcher {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		store:  params.Store,
		opener: params.Opener,
		editor: params.Editor,
		out:    params.Out,
		log:    log,
	}
}

// Dispatch resolves ordinals against session and runs action on the result.
// Print writes the ordinals themselves, or 1..N when none are given.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, session *Session, ordinals []int) error {
	if action == ActionPrint && len(ordinals) == 0 {
		ordinals = session.Ordinals()
	}

	bookmarks, err := session.ResolveMany(ordinals)
	if err != nil {
		return err
	}

	if action == ActionPrint {
		_, err := fmt.Fprintln(d.out, joinInts(ordinals))
		return err
	}
	return d.Run(ctx, action, bookmarks)
}

// Run applies action to each bookmark in sequence. Deletes are applied in
// descending id order because the store renumbers its highest id into gaps.
// Print writes the bookmark ids.
func (d *Dispatcher) Run(ctx context.Context, action Action, bookmarks []model.Bookmark) error {
	if action == ActionPrint {
		ids := make([]int, len(bookmarks))
		for i, bm := range bookmarks {
			ids[i] = bm.ID
		}
		_, err := fmt.Fprintln(d.out, joinInts(ids))
		return err
	}

	if action == ActionDelete {
		bookmarks = slices.Clone(bookmarks)
		slices.SortStableFunc(bookmarks, func(a, b model.Bookmark) int {
			return b.ID - a.ID
		})
		// A second delete of the same id would hit the bookmark compacted into it.
		bookmarks = slices.CompactFunc(bookmarks, func(a, b model.Bookmark) bool {
			return a.ID == b.ID
		})
	}

	for _, bm := range bookmarks {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.log.Debug("dispatching", logger.String("action", action.String()), logger.Int("id", bm.ID))
		if err := d.apply(ctx, action, bm); err != nil {
			return fmt.Errorf("%s bookmark %d: %w", action, bm.ID, err)
		}
	}
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, action Action, bm model.Bookmark) error {
	switch action {
	case ActionOpen:
		return d.opener.Open(ctx, bm.URL)
	case ActionDelete:
		return d.store.Delete(ctx, bm.ID)
	case ActionEdit:
		edited, err := d.editor.Edit(ctx, bm)
		if err != nil {
			return err
		}
		_, err = d.store.Update(ctx, edited)
		return err
	default:
		return fmt.Errorf("unsupported action %s: %w", action, model.ErrInvalidInput)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
