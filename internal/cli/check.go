package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/culler"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		opts       culler.Options
		deleteDead bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report bookmarks whose urls are dead or unreachable",
		Long: `Check every http(s) bookmark url concurrently.

A 404 or 410 response marks a bookmark dead. With --delete-dead the dead
ones are removed afterwards. Other urls, such as shell commands, are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store storage.Store) error {
				ctx := cmd.Context()
				bookmarks, err := store.Query(ctx, "", nil)
				if err != nil {
					return err
				}

				errOut := cmd.ErrOrStderr()
				results := culler.NewChecker(opts, a.log).Check(ctx, bookmarks, func(completed, total int) {
					fmt.Fprintf(errOut, "\rChecked %d/%d", completed, total)
				})
				if len(results) > 0 {
					fmt.Fprintln(errOut)
				}

				out := cmd.OutOrStdout()
				counts := make(map[culler.Status]int)
				for _, r := range results {
					counts[r.Status]++
					switch r.Status {
					case culler.Dead:
						fmt.Fprintf(out, "dead        [%d] %s (%d)\n", r.Bookmark.ID, r.Bookmark.URL, r.StatusCode)
					case culler.Unreachable:
						fmt.Fprintf(out, "unreachable [%d] %s (%s)\n", r.Bookmark.ID, r.Bookmark.URL, r.Error)
					}
				}
				fmt.Fprintf(out, "%d healthy, %d dead, %d unreachable, %d skipped\n",
					counts[culler.Healthy], counts[culler.Dead], counts[culler.Unreachable], counts[culler.Skipped])

				dead := culler.DeadBookmarks(results)
				if !deleteDead || len(dead) == 0 {
					return nil
				}
				if err := a.dispatcher(store, out).Run(ctx, process.ActionDelete, dead); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %d dead bookmarks\n", len(dead))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 10, "number of parallel checks")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "timeout per url")
	cmd.Flags().StringSliceVar(&opts.ExcludeDomains, "exclude", nil, "domains whose 404s are not treated as dead")
	cmd.Flags().BoolVar(&deleteDead, "delete-dead", false, "delete dead bookmarks after checking")

	return cmd
}
