// Package cli wires the bkmr command tree. Each command loads the
// configuration once, opens the store for the duration of the call and
// hands the core components their collaborators explicitly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/config"
	"github.com/nikbrunner/bkmr/internal/enrich"
	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/picker"
	"github.com/nikbrunner/bkmr/internal/process"
	"github.com/nikbrunner/bkmr/internal/storage"
)

// MetadataFetcher looks up title and description of a web page.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (enrich.Metadata, error)
}

// PickerFunc lets the user choose one bookmark interactively.
// ok is false when the user cancelled.
type PickerFunc func(bookmarks []model.Bookmark, query string) (bm model.Bookmark, action picker.Action, ok bool, err error)

// Options overrides the collaborators of the command tree.
// Zero fields are filled from the loaded configuration.
type Options struct {
	OpenStore func(path string) (storage.Store, error)
	Opener    process.Opener
	Editor    process.Editor
	Fetcher   MetadataFetcher
	CopyURL   func(url string) error
	RunPicker PickerFunc
}

type app struct {
	opts       Options
	configPath string
	verbosity  int

	cfg *config.Config
	log logger.Logger
}

// NewRootCmd builds the bkmr command tree.
func NewRootCmd(opts Options) *cobra.Command {
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:           "bkmr",
		Short:         "Terminal bookmark manager",
		Long:          "Store, search and batch-act on bookmarks from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ~/.config/bkmr/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "debug", "d", "increase log verbosity (-d info, -dd debug)")

	rootCmd.AddCommand(
		newSearchCmd(a),
		newOpenCmd(a),
		newAddCmd(a),
		newDeleteCmd(a),
		newUpdateCmd(a),
		newEditCmd(a),
		newShowCmd(a),
		newTagsCmd(a),
		newCreateDBCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newCheckCmd(a),
	)

	return rootCmd
}

// Execute runs the command tree under an interrupt-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(Options{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and fills the collaborators that were not injected.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(logger.LevelFromVerbosity(a.verbosity, cfg.LogLevel), a.verbosity > 0)
	a.log.Debug("config loaded", logger.String("db_url", cfg.DBURL))

	if a.opts.OpenStore == nil {
		a.opts.OpenStore = openSQLiteStore
	}
	if a.opts.Opener == nil {
		a.opts.Opener = process.NewSystemOpener(cfg.ShellPrefix, a.log)
	}
	if a.opts.Editor == nil {
		a.opts.Editor = process.NewExternalEditor(cfg.Editor)
	}
	if a.opts.Fetcher == nil {
		a.opts.Fetcher = enrich.NewFetcher(cfg.FetchTimeout)
	}
	if a.opts.CopyURL == nil {
		a.opts.CopyURL = clipboard.WriteAll
	}
	if a.opts.RunPicker == nil {
		a.opts.RunPicker = runPicker
	}
	return nil
}

// withStore opens the configured store, runs fn and closes the store on every path.
func (a *app) withStore(fn func(store storage.Store) error) error {
	store, err := a.opts.OpenStore(a.cfg.DBURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			a.log.Warn("failed to close store", logger.Err(cerr))
		}
	}()
	return fn(store)
}

func (a *app) dispatcher(store storage.Store, out io.Writer) *process.Dispatcher {
	return process.NewDispatcher(process.DispatcherParams{
		Store:  store,
		Opener: a.opts.Opener,
		Editor: a.opts.Editor,
		Out:    out,
		Logger: a.log,
	})
}

func (a *app) renderer(out io.Writer) *process.Renderer {
	return process.NewRenderer(out, a.cfg.Color)
}

// openSQLiteStore opens an existing database. Creating one is left to create-db.
func openSQLiteStore(path string) (storage.Store, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("database %s does not exist, run 'bkmr create-db %s' first", path, path)
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func runPicker(bookmarks []model.Bookmark, query string) (model.Bookmark, picker.Action, bool, error) {
	program := tea.NewProgram(picker.New(bookmarks, query))
	finalModel, err := program.Run()
	if err != nil {
		return model.Bookmark{}, picker.ActionNone, false, fmt.Errorf("failed to run picker: %w", err)
	}

	bm, action, ok := finalModel.(picker.Picker).Selected()
	return bm, action, ok, nil
}
