package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task completed",
	Long:  `Mark a task completed. With --undo, mark it open again.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	doneCmd.Flags().Bool("undo", false, "reopen a completed task")
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	undo, _ := cmd.Flags().GetBool("undo")

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	if undo {
		task, err := svc.Reopen(args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Reopened "+describeTask(task, clock.Now()))
		return nil
	}

	task, err := svc.Complete(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %s %s\n", task.ShortID(), task.Name())
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	task, err := svc.Remove(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", task.ShortID(), task.Name())
	return nil
}
