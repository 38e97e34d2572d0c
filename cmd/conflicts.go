package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/ui/shared/table"
	"github.com/zjrosen/deadlines/internal/ui/styles"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List open tasks whose spans overlap",
	Long: `List every pair of open tasks whose [start, deadline] spans overlap.
A task without a start occupies only its deadline instant.`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, _ []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	conflicts, err := svc.Conflicts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(conflicts) == 0 {
		_, _ = fmt.Fprintln(out, muted("No conflicts."))
		return nil
	}

	t := table.New(
		table.ColumnConfig{Key: "first", Header: "TASK", MinWidth: 12},
		table.ColumnConfig{Key: "second", Header: "OVERLAPS", MinWidth: 12},
	)
	for _, c := range conflicts {
		t.AddRow(plainStyle,
			"first", c.First.ShortID()+" "+c.First.Name(),
			"second", c.Second.ShortID()+" "+c.Second.Name(),
		)
	}
	_, _ = fmt.Fprintln(out, t.Render(outputWidth()))
	_, _ = fmt.Fprintln(out, muted(styles.FormatCount(len(conflicts), "conflict")))
	return nil
}
