package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/debug"
)

func (a *app) debugManager() (*debug.Manager, error) {
	wf, err := a.workflow()
	if err != nil {
		return nil, err
	}
	return debug.NewManager(wf, debug.WithClock(a.now), debug.WithLogger(a.log())), nil
}

func (a *app) debugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Manage persistent debug sessions",
	}
	cmd.AddCommand(a.debugNewCmd(), a.debugUpdateCmd(), a.debugListCmd(), a.debugPromptCmd())
	return cmd
}

func (a *app) debugNewCmd() *cobra.Command {
	var trigger string
	cmd := &cobra.Command{
		Use:   "new <slug>",
		Short: "Start a debug session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.debugManager()
			if err != nil {
				return err
			}
			s, err := m.Create(args[0], trigger)
			if err != nil {
				return err
			}
			a.printer().Success("Created %s", s.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&trigger, "trigger", "", "The report that started the session")
	return cmd
}

func (a *app) debugUpdateCmd() *cobra.Command {
	var (
		u      debug.Update
		status string
	)
	cmd := &cobra.Command{
		Use:   "update <slug>",
		Short: "Update fields of a debug session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.debugManager()
			if err != nil {
				return err
			}
			u.Status = debug.Status(status)
			s, err := m.Update(args[0], u)
			if err != nil {
				return err
			}
			a.printer().Success("Updated %s (%s)", s.Slug, s.Status)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "gathering, investigating, fixing, verifying or resolved")
	f.StringVar(&u.Focus.Hypothesis, "hypothesis", "", "Current hypothesis")
	f.StringVar(&u.Focus.Test, "test", "", "Test for the hypothesis")
	f.StringVar(&u.Focus.Expecting, "expecting", "", "Expected test outcome")
	f.StringVar(&u.Focus.NextAction, "next-action", "", "Next action")
	f.StringVar(&u.Symptoms.Expected, "expected", "", "Expected behavior")
	f.StringVar(&u.Symptoms.Actual, "actual", "", "Actual behavior")
	f.StringVar(&u.Symptoms.Errors, "errors", "", "Error messages")
	f.StringVar(&u.Symptoms.Reproduction, "reproduction", "", "Reproduction steps")
	f.StringVar(&u.Symptoms.Started, "started", "", "When the problem started")
	f.StringVar(&u.AppendEliminated, "eliminated", "", "Append an eliminated hypothesis")
	f.StringVar(&u.AppendEvidence, "evidence", "", "Append a piece of evidence")
	f.StringVar(&u.Resolution.RootCause, "root-cause", "", "Root cause")
	f.StringVar(&u.Resolution.Fix, "fix", "", "Fix applied")
	f.StringVar(&u.Resolution.Verification, "verification", "", "How the fix was verified")
	f.StringVar(&u.Resolution.FilesChanged, "files-changed", "", "Files changed by the fix")
	return cmd
}

func (a *app) debugListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unresolved debug sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.debugManager()
			if err != nil {
				return err
			}
			sessions, err := m.Active()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(a.stdout, "No active debug sessions.")
				return nil
			}
			for _, s := range sessions {
				line := fmt.Sprintf("%s\t%s\tupdated %s", s.Slug, s.Status, s.Updated)
				if trigger := strings.TrimSpace(s.Trigger); trigger != "" {
					line += "\t" + trigger
				}
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}
}

func (a *app) debugPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <slug>",
		Short: "Print the investigation prompt for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.debugManager()
			if err != nil {
				return err
			}
			s, err := m.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, debug.Prompt(s))
			return nil
		},
	}
}
