package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/calendar"
	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule ID",
	Short: "Set a task's deadline and start",
	Long: `Replace a task's deadline. The existing start is kept unless --start is
given; "--start none" removes it.`,
	Args: cobra.ExactArgs(1),
	RunE: runReschedule,
}

func init() {
	rescheduleCmd.Flags().StringP("due", "D", "", "new deadline: "+dateHelp)
	rescheduleCmd.Flags().StringP("start", "s", "", `new start: `+dateHelp+`, or "none"`)
	_ = rescheduleCmd.MarkFlagRequired("due")
	rootCmd.AddCommand(rescheduleCmd)
}

func runReschedule(cmd *cobra.Command, args []string) error {
	dueArg, _ := cmd.Flags().GetString("due")
	startArg, _ := cmd.Flags().GetString("start")

	deadline, err := apptasks.ParseDeadline(dueArg, clock)
	if err != nil {
		return fmt.Errorf("--due: %w", err)
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	current, err := svc.Resolve(args[0])
	if err != nil {
		return err
	}

	start := current.Start()
	switch {
	case strings.EqualFold(startArg, "none"):
		start = calendar.Instant{}
	case startArg != "":
		if start, err = apptasks.ParseStart(startArg, clock); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	task, err := svc.Reschedule(current.GUID(), start, deadline)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Rescheduled "+describeTask(task, clock.Now()))
	return nil
}
