package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a task's name, description or tags",
	Long: `Change a task's name, description or tags. Only the flags given are
applied; --tag replaces every tag and --tag "" removes them all. Use
reschedule or postpone to move the deadline.`,
	Example: `  deadlines edit 0f8fad5b --name "Write final report"
  deadlines edit 0f8fad5b --tag work,urgent`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringP("name", "n", "", "new name")
	editCmd.Flags().StringP("description", "d", "", "new description (empty clears it)")
	editCmd.Flags().StringSliceP("tag", "t", nil, "replace the tags (repeat or separate with commas)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var req apptasks.EditRequest
	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		req.Name = &name
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		req.Description = &description
	}
	if flags.Changed("tag") {
		tags, _ := flags.GetStringSlice("tag")
		req.Tags = &tags
	}
	if req.Name == nil && req.Description == nil && req.Tags == nil {
		return fmt.Errorf("nothing to change: pass --name, --description or --tag")
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	task, err := svc.Edit(args[0], req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Edited "+describeTask(task, clock.Now()))
	return nil
}
