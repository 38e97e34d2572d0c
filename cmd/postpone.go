package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var postponeCmd = &cobra.Command{
	Use:   "postpone ID",
	Short: "Push a task's deadline back by whole days",
	Long: `Move a task's deadline, and its start if it has one, forward by --days
calendar days. The time of day is kept across daylight saving changes.

ID is a task id or any unique prefix of one.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostpone,
}

func init() {
	postponeCmd.Flags().IntP("days", "n", 1, "number of days (at least 1)")
	rootCmd.AddCommand(postponeCmd)
}

func runPostpone(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	task, err := svc.Postpone(args[0], days)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Postponed "+describeTask(task, clock.Now()))
	return nil
}
