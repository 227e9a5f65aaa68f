package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// tagUpdate describes how the tags of a bookmark change.
type tagUpdate struct {
	add    model.TagSet
	remove model.TagSet
	force  bool
}

func (u tagUpdate) validate() error {
	switch {
	case u.force && (u.add.Empty() || !u.remove.Empty()):
		return fmt.Errorf("force update requires tags but no ntags: %w", model.ErrInvalidInput)
	case u.add.Empty() && u.remove.Empty():
		return fmt.Errorf("nothing to update, pass --tags or --ntags: %w", model.ErrInvalidInput)
	}
	return nil
}

// apply returns the new tag set: the add list when forced,
// otherwise (current ∪ add) \ remove.
func (u tagUpdate) apply(current model.TagSet) model.TagSet {
	if u.force {
		return u.add
	}
	return current.Union(u.add).Without(u.remove)
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		rawTags  string
		rawNTags string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "update <ids>",
		Short: "Update the tags of bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := tagUpdate{
				add:    model.ParseTags(rawTags),
				remove: model.ParseTags(rawNTags),
				force:  force,
			}
			if err := u.validate(); err != nil {
				return err
			}
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}

			return a.withStore(func(store storage.Store) error {
				ctx := cmd.Context()
				bookmarks, err := lookupAll(ctx, store, ids)
				if err != nil {
					return err
				}
				for _, bm := range bookmarks {
					bm.Tags = u.apply(bm.Tags)
					a.log.Debug("updating tags", logger.Int("id", bm.ID), logger.String("tags", bm.Tags.String()))
					if _, err := store.Update(ctx, bm); err != nil {
						return fmt.Errorf("update bookmark %d: %w", bm.ID, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Updated bookmark: %d\n", bm.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&rawTags, "tags", "t", "", "add tags to taglist")
	cmd.Flags().StringVarP(&rawNTags, "ntags", "n", "", "remove tags from taglist")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite taglist with tags")

	return cmd
}
