package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/render"
)

func (a *app) commitMsgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit-msg",
		Short: "Render conventional commit messages for tasks and plans",
	}

	var (
		commitType string
		planID     string
		details    []string
	)
	task := &cobra.Command{
		Use:   "task <description>",
		Short: "Message for one task commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if planID == "" {
				return fmt.Errorf("--plan is required")
			}
			fmt.Fprintln(a.stdout, render.TaskCommitMessage(commitType, planID, strings.Join(args, " "), details...))
			return nil
		},
	}
	task.Flags().StringVarP(&commitType, "type", "t", "feat", "Commit type: "+strings.Join(render.CommitTypes, ", "))
	task.Flags().StringVarP(&planID, "plan", "p", "", "Plan id, e.g. 01-02")
	task.Flags().StringArrayVarP(&details, "detail", "d", nil, "Detail bullet (repeatable)")

	var (
		donePlanID string
		planName   string
		tasks      []string
		summary    string
	)
	plan := &cobra.Command{
		Use:   "plan",
		Short: "Message for the metadata commit that closes a plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if donePlanID == "" {
				return fmt.Errorf("--plan is required")
			}
			fmt.Fprintln(a.stdout, render.PlanCommitMessage(donePlanID, planName, tasks, summary))
			return nil
		},
	}
	plan.Flags().StringVarP(&donePlanID, "plan", "p", "", "Plan id, e.g. 01-02")
	plan.Flags().StringVar(&planName, "name", "", "Plan name")
	plan.Flags().StringArrayVar(&tasks, "task", nil, "Completed task name (repeatable)")
	plan.Flags().StringVar(&summary, "summary", "", "Path to the plan SUMMARY.md")

	cmd.AddCommand(task, plan)
	return cmd
}
