package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ids>",
		Short: "Show bookmarks by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}

			return a.withStore(func(store storage.Store) error {
				var found []model.Bookmark
				for _, id := range ids {
					bm, err := store.GetByID(cmd.Context(), id)
					if errors.Is(err, model.ErrNotFound) {
						fmt.Fprintf(cmd.ErrOrStderr(), "Bookmark with id %d not found\n", id)
						continue
					}
					if err != nil {
						return err
					}
					found = append(found, bm)
				}
				return a.renderer(cmd.OutOrStdout()).Render(found)
			})
		},
	}
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [tag]",
		Short: "List tags with their bookmark counts",
		Long:  "List all tags, or with an argument the tags that occur together with it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store storage.Store) error {
				var (
					counts []model.TagCount
					err    error
				)
				if len(args) == 1 {
					counts, err = store.RelatedTags(cmd.Context(), args[0])
				} else {
					counts, err = store.AllTags(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("failed to count tags: %w", err)
				}

				for _, tc := range counts {
					fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", tc.Count, tc.Tag)
				}
				return nil
			})
		},
	}
}
