package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/calendar"
	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
)

const dateHelp = "today, tomorrow, next-week, YYYY-MM-DD or a timestamp"

var addCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add a task with a deadline",
	Long: `Add a task. The name is every argument joined by spaces.

A date-only --due means the end of that day and a date-only --start means its
beginning, so "--start 2024-05-13 --due 2024-05-17" covers Monday to Friday.`,
	Example: `  deadlines add Write report --due tomorrow --tag work
  deadlines add Conference talk --start 2024-05-13 --due 2024-05-17`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("due", "D", "", "deadline: "+dateHelp)
	addCmd.Flags().StringP("start", "s", "", "start of the work span: "+dateHelp)
	addCmd.Flags().StringP("description", "d", "", "longer description")
	addCmd.Flags().StringSliceP("tag", "t", nil, "tag the task (repeat or separate with commas)")
	_ = addCmd.MarkFlagRequired("due")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dueArg, _ := flags.GetString("due")
	startArg, _ := flags.GetString("start")
	description, _ := flags.GetString("description")
	tags, _ := flags.GetStringSlice("tag")

	deadline, err := apptasks.ParseDeadline(dueArg, clock)
	if err != nil {
		return fmt.Errorf("--due: %w", err)
	}
	var start calendar.Instant
	if startArg != "" {
		if start, err = apptasks.ParseStart(startArg, clock); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	task, err := svc.Add(apptasks.AddRequest{
		Name:        strings.Join(args, " "),
		Description: description,
		Start:       start,
		Deadline:    deadline,
		Tags:        tags,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Added "+describeTask(task, clock.Now()))
	return nil
}
