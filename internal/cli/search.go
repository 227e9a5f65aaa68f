package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/picker"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/search"
	"github.com/nikbrunner/bkmr/internal/storage"
)

type searchFlags struct {
	exact      string
	all        string
	allNot     string
	any        string
	anyNot     string
	prefix     string
	descending bool
	ascending  bool
	noPrompt   bool
	fuzzy      bool
}

func (f searchFlags) filter() model.TagFilter {
	return model.NewTagFilter(model.TagFilterParams{
		All:    f.all,
		AllNot: f.allNot,
		Any:    f.any,
		AnyNot: f.anyNot,
		Exact:  f.exact,
		Prefix: f.prefix,
	})
}

func (f searchFlags) sortMode() search.SortMode {
	switch {
	case f.descending:
		return search.SortNewest
	case f.ascending:
		return search.SortOldest
	default:
		return search.SortTitle
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search bookmarks",
		Long: `Search bookmarks by full text and tag filters.

Every query term must occur in the url, title or description. Tag options
take comma separated lists. Results are listed with an ordinal which the
selection prompt accepts (see 'h' at the prompt).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			return a.withStore(func(store storage.Store) error {
				ctx := cmd.Context()
				results, err := search.NewEngine(store).Query(ctx, query, flags.filter(), flags.sortMode())
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				a.log.Debug("search finished", logger.String("query", query), logger.Int("results", len(results)))

				if flags.fuzzy {
					return a.pick(ctx, store, out, results)
				}

				if err := a.renderer(out).Render(results); err != nil {
					return err
				}
				if flags.noPrompt {
					return nil
				}

				fmt.Fprintf(out, "Found %d bookmarks\n", len(results))
				fmt.Fprintln(out, "Selection: ")
				return process.NewProcessor(process.ProcessorParams{
					Session:    process.NewSession(results),
					Dispatcher: a.dispatcher(store, out),
					In:         cmd.InOrStdin(),
					Out:        out,
					Logger:     a.log,
				}).Run(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.exact, "exact", "e", "", "match exact, comma separated list")
	cmd.Flags().StringVarP(&flags.all, "tags", "t", "", "match all, comma separated list")
	cmd.Flags().StringVarP(&flags.allNot, "Tags", "T", "", "not match all, comma separated list")
	cmd.Flags().StringVarP(&flags.any, "ntags", "n", "", "match any, comma separated list")
	cmd.Flags().StringVarP(&flags.anyNot, "Ntags", "N", "", "not match any, comma separated list")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "tags added to the --tags list")
	cmd.Flags().BoolVarP(&flags.descending, "descending", "o", false, "order by age, newest first")
	cmd.Flags().BoolVarP(&flags.ascending, "ascending", "O", false, "order by age, oldest first")
	cmd.Flags().BoolVar(&flags.noPrompt, "np", false, "no prompt")
	cmd.Flags().BoolVar(&flags.fuzzy, "fzf", false, "choose with the fuzzy finder")
	cmd.MarkFlagsMutuallyExclusive("descending", "ascending")
	cmd.MarkFlagsMutuallyExclusive("np", "fzf")

	return cmd
}

// pick runs the fuzzy finder over results and applies the chosen action.
func (a *app) pick(ctx context.Context, store storage.Store, out io.Writer, results []model.Bookmark) error {
	if len(results) == 0 {
		fmt.Fprintln(out, "No bookmarks found")
		return nil
	}

	bm, action, ok, err := a.opts.RunPicker(results, "")
	if err != nil || !ok {
		return err
	}

	switch action {
	case picker.ActionOpen:
		return a.dispatcher(store, out).Run(ctx, process.ActionOpen, []model.Bookmark{bm})
	case picker.ActionEdit:
		return a.dispatcher(store, out).Run(ctx, process.ActionEdit, []model.Bookmark{bm})
	case picker.ActionYank:
		if err := a.opts.CopyURL(bm.URL); err != nil {
			return fmt.Errorf("failed to copy url: %w", err)
		}
		fmt.Fprintf(out, "Copied %s\n", bm.URL)
	}
	return nil
}
