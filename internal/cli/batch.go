package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newDeleteCmd(a *app) *cobra.Command {
	return newBatchCmd(a, process.ActionDelete, &cobra.Command{
		Use:   "delete <ids>",
		Short: "Delete bookmarks by id",
		Long:  "Delete a comma separated list of bookmark ids. Every id must exist.",
	})
}

func newEditCmd(a *app) *cobra.Command {
	return newBatchCmd(a, process.ActionEdit, &cobra.Command{
		Use:   "edit <ids>",
		Short: "Edit bookmarks in $EDITOR",
		Long:  "Edit a comma separated list of bookmark ids one after the other. Every id must exist.",
	})
}

// newBatchCmd completes cmd so that it looks up all ids first and then
// hands them to the dispatcher as one batch.
func newBatchCmd(a *app, action process.Action, cmd *cobra.Command) *cobra.Command {
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ids, err := ParseIDs(args[0])
		if err != nil {
			return err
		}
		if action == process.ActionDelete {
			ids = slices.Compact(slices.Sorted(slices.Values(ids)))
		}

		return a.withStore(func(store storage.Store) error {
			ctx := cmd.Context()
			bookmarks, err := lookupAll(ctx, store, ids)
			if err != nil {
				return err
			}
			if err := a.dispatcher(store, cmd.OutOrStdout()).Run(ctx, action, bookmarks); err != nil {
				return err
			}
			if action == process.ActionDelete {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d bookmarks\n", len(bookmarks))
			}
			return nil
		})
	}
	return cmd
}
