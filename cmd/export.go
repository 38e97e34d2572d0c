package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/log"
	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task as YAML",
	Long:  `Write every task, completed ones included, as YAML to stdout or --out.`,
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add tasks from a YAML export",
	Long: `Add the tasks in a file written by "deadlines export". Tasks whose id is
already stored are skipped, or overwritten with --replace. Use "-" to read
stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	importCmd.Flags().Bool("replace", false, "overwrite tasks that are already stored")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	if outPath == "" {
		_, err := svc.Export(cmd.OutOrStdout())
		return err
	}

	n, err := exportToFile(svc, outPath)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", n, outPath)
	return nil
}

// createFile opens an export destination. Tests replace it.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
}

// exportToFile writes the export to path. A failed close is an error, since
// the file may be incomplete.
func exportToFile(svc *apptasks.Service, path string) (n int, err error) {
	f, err := createFile(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.ErrorErr(log.CatCLI, "Failed to close export", closeErr, "path", path)
			err = errors.Join(err, fmt.Errorf("closing %s: %w", path, closeErr))
		}
	}()
	return svc.Export(f)
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	var opts []apptasks.ImportOption
	if replace, _ := cmd.Flags().GetBool("replace"); replace {
		opts = append(opts, apptasks.ReplaceExisting())
	}

	result, err := svc.Import(r, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result.Replaced > 0 {
		_, _ = fmt.Fprintf(out, "Imported %d tasks, replaced %d\n", result.Added, result.Replaced)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Imported %d tasks, skipped %d already present\n", result.Added, result.Skipped)
	return nil
}
