package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		noWeb       bool
		edit        bool
	)

	cmd := &cobra.Command{
		Use:   "add <url> [tags]",
		Short: "Add a bookmark",
		Long: `Add a bookmark with an optional comma separated tag list.

Title and description are fetched from the page unless --no-web is given.
Values passed with --title or --description win over fetched ones.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var rawTags string
			if len(args) > 1 {
				rawTags = args[1]
			}
			url := strings.TrimSpace(args[0])
			if url == "" {
				return fmt.Errorf("url must not be empty: %w", model.ErrInvalidInput)
			}
			nb := model.NewBookmarkFrom(model.NewBookmarkParams{
				URL:     url,
				RawTags: rawTags,
			})

			if !noWeb {
				meta, err := a.opts.Fetcher.Fetch(ctx, nb.URL)
				switch {
				case errors.Is(err, model.ErrInvalidInput):
					a.log.Debug("not fetching metadata", logger.String("url", nb.URL))
				case err != nil:
					a.log.Info("metadata fetch failed", logger.String("url", nb.URL), logger.Err(err))
					fmt.Fprintln(cmd.ErrOrStderr(), "Cannot enrich URL data from web.")
				default:
					nb.Title = meta.Title
					nb.Description = meta.Description
				}
			}
			if cmd.Flags().Changed("title") {
				nb.Title = title
			}
			if cmd.Flags().Changed("description") {
				nb.Description = description
			}

			return a.withStore(func(store storage.Store) error {
				bm, err := store.Insert(ctx, nb)
				if errors.Is(err, model.ErrDuplicate) {
					return fmt.Errorf("%w: %s", model.ErrDuplicate, nb.URL)
				}
				if err != nil {
					return fmt.Errorf("failed to add bookmark: %w", err)
				}

				if edit {
					if err := a.dispatcher(store, out).Run(ctx, process.ActionEdit, []model.Bookmark{bm}); err != nil {
						return err
					}
					if bm, err = store.GetByID(ctx, bm.ID); err != nil {
						return err
					}
				}

				fmt.Fprintf(out, "Added bookmark: %d\n", bm.ID)
				return a.renderer(out).Render([]model.Bookmark{bm})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "bookmark title")
	// No shorthand: -d is the persistent debug flag.
	cmd.Flags().StringVar(&description, "description", "", "bookmark description")
	cmd.Flags().BoolVar(&noWeb, "no-web", false, "do not fetch title and description from the web")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "edit the bookmark after adding it")

	return cmd
}
