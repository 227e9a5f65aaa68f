package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bkmr/internal/config"
	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/storage"
)

func newCreateDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-db <path>",
		Short: "Create a new bookmark database",
		Long: `Create a new bookmark database at path.

When no config file exists yet, one is written that points db_url at the new database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("database already exists at %s", path)
			}

			store, err := storage.NewSQLiteStorage(path)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database created at %s\n", path)

			configPath := a.configPath
			if configPath == "" {
				if configPath, err = config.DefaultConfigFilePath(); err != nil {
					return err
				}
			}
			cfg := config.DefaultConfig()
			cfg.DBURL = path
			if err := config.WriteDefault(configPath, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			a.log.Debug("config ensured", logger.String("path", configPath))
			return nil
		},
	}
}
