package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/log"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
	"github.com/zjrosen/deadlines/internal/ui/styles"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks by due window",
	Long: `List tasks whose deadline falls in a window:

  today      due before midnight
  tomorrow   due tomorrow
  week       due this Monday..Sunday
  next-week  due next Monday..Sunday
  overdue    open and due before now
  all        everything, including completed tasks (default)

Only open tasks are shown unless the window is all.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("due", "all", "due window")
	listCmd.Flags().StringP("tag", "t", "", "only tasks with this tag")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	dueArg, _ := cmd.Flags().GetString("due")
	tag, _ := cmd.Flags().GetString("tag")

	window, err := domain.ParseWindow(dueArg)
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	tasks, err := svc.ListDue(window, tag)
	if err != nil {
		return err
	}
	log.Debug(log.CatCLI, "Ran list", "window", window, "tag", tag, "count", len(tasks))

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(out, muted(fmt.Sprintf("No tasks due (%s).", window)))
		return nil
	}
	_, _ = fmt.Fprintln(out, taskTable(tasks, clock.Now()).Render(outputWidth()))
	_, _ = fmt.Fprintln(out, muted(styles.FormatCount(len(tasks), "task")))
	return nil
}
