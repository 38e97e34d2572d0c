package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/config"
	"github.com/zjrosen/deadlines/internal/infrastructure/sqlite"
	"github.com/zjrosen/deadlines/internal/log"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the task database",
	Long: `Write a commented default config file (to --config, or
~/.config/deadlines/config.yaml) and create the task database with its schema.
An existing config file is left alone unless --force is given.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationConfigOptional: "true"},
	RunE:        runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()

	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	path = config.ExpandHome(path)

	_, err := os.Stat(path)
	switch {
	case err == nil && !force:
		_, _ = fmt.Fprintf(out, "Config exists: %s (use --force to overwrite)\n", path)
	case err == nil || errors.Is(err, fs.ErrNotExist):
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		log.Info(log.CatCLI, "Wrote config", "path", path)
		_, _ = fmt.Fprintf(out, "Wrote config: %s\n", path)
	default:
		return fmt.Errorf("checking config %s: %w", path, err)
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, _ = fmt.Fprintf(out, "Database ready: %s\n", db.Path())
	return nil
}
