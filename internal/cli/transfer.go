package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/exporter"
	"github.com/nikbrunner/bkmr/internal/importer"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser HTML export",
		Long:  "Import Netscape bookmark HTML. Folder names and the TAGS attribute become tags; known urls are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			bookmarks, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("failed to parse HTML: %w", err)
			}

			return a.withStore(func(store storage.Store) error {
				added, skipped, err := importer.Import(cmd.Context(), store, bookmarks)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d bookmarks", added)
				if skipped > 0 {
					fmt.Fprintf(out, " (%d duplicates skipped)", skipped)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to browser HTML",
		Long:  "Export all bookmarks as Netscape bookmark HTML (default: ~/Downloads/bkmr-export-<date>.html).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return fmt.Errorf("failed to get default export path: %w", err)
				}
			}

			return a.withStore(func(store storage.Store) error {
				bookmarks, err := store.Query(cmd.Context(), "", nil)
				if err != nil {
					return err
				}

				if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(bookmarks)), 0644); err != nil {
					return fmt.Errorf("failed to write file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", len(bookmarks), outputPath)
				return nil
			})
		},
	}
}
