package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <ids>",
		Short: "Open bookmarks by id",
		Long:  "Open a comma separated list of bookmark ids. Unknown ids are reported and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}

			return a.withStore(func(store storage.Store) error {
				ctx := cmd.Context()
				dispatcher := a.dispatcher(store, cmd.OutOrStdout())
				for _, id := range ids {
					log := a.log.With(logger.Int("id", id))
					bm, err := store.GetByID(ctx, id)
					if errors.Is(err, model.ErrNotFound) {
						log.Debug("skipping unknown bookmark")
						fmt.Fprintf(cmd.ErrOrStderr(), "Bookmark with id %d not found\n", id)
						continue
					}
					if err != nil {
						return err
					}
					log.Debugf("opening %s", bm.URL)
					if err := dispatcher.Run(ctx, process.ActionOpen, []model.Bookmark{bm}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
