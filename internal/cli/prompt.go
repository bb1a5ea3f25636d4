package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/config"
	"github.com/kingrea/gsd/internal/prompts"
	"github.com/kingrea/gsd/internal/workflow"
)

func (a *app) promptCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the plan-phase agent prompts",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print agent, prompt and output file as JSON")

	build := func(use, short string, fn func(p prompts.Phase) (prompts.Prompt, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <phase>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				phase, err := a.promptPhase(args[0])
				if err != nil {
					return err
				}
				out, err := fn(phase)
				if err != nil {
					return err
				}
				return a.printPrompt(out, asJSON)
			},
		}
	}

	cmd.AddCommand(
		build("research", "Prompt for the phase researcher", func(p prompts.Phase) (prompts.Prompt, error) {
			return prompts.Research(p, readOptional(contextPath(p.Dir, p.Number)))
		}),
		build("plan", "Prompt for the planner", func(p prompts.Phase) (prompts.Prompt, error) {
			research := readOptional(workflow.ExpectedPlanFiles(p.Dir, p.Number).Research)
			return prompts.Planner(p, readOptional(contextPath(p.Dir, p.Number)), research)
		}),
		build("check", "Prompt for the plan checker", func(p prompts.Phase) (prompts.Prompt, error) {
			return prompts.Checker(p, readOptional(contextPath(p.Dir, p.Number)))
		}),
		a.promptContextCmd(),
		a.promptStagesCmd(),
	)
	return cmd
}

// promptPhase resolves the roadmap entry for arg and ensures its phase
// directory exists.
func (a *app) promptPhase(arg string) (prompts.Phase, error) {
	num, err := parseNumber("phase", arg)
	if err != nil {
		return prompts.Phase{}, err
	}
	store, err := a.store()
	if err != nil {
		return prompts.Phase{}, err
	}
	details, err := store.PhaseDetails(num)
	if err != nil {
		return prompts.Phase{}, err
	}
	wf := store.Workflow()
	dir, err := wf.FindPhaseDir(num)
	if err != nil {
		if dir, err = wf.EnsurePhaseDir(num, details.Name); err != nil {
			return prompts.Phase{}, fmt.Errorf("prompt: create phase directory: %w", err)
		}
	}
	return prompts.Phase{Number: num, Name: details.Name, Details: strings.TrimSpace(details.Details), Dir: dir}, nil
}

func (a *app) printPrompt(p prompts.Prompt, asJSON bool) error {
	if !asJSON {
		fmt.Fprint(a.stdout, p.Text)
		return nil
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Agent      string `json:"agent"`
		Prompt     string `json:"prompt"`
		OutputFile string `json:"output_file"`
	}{p.Agent, p.Text, p.OutputFile})
}

func (a *app) promptContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <phase>",
		Short: "Create the phase CONTEXT.md if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := a.promptPhase(args[0])
			if err != nil {
				return err
			}
			path := contextPath(phase.Dir, phase.Number)
			if workflow.FileExists(path) {
				a.printer().Info("Kept existing %s", path)
				return nil
			}
			content, err := prompts.ContextTemplate(phase.Number, phase.Name, a.today())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("prompt: write %s: %w", path, err)
			}
			a.printer().Success("Created %s", path)
			return nil
		},
	}
}

func (a *app) promptStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the plan-phase stages enabled by config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			for _, stage := range prompts.Stages(cfg.Planning.Workflow) {
				fmt.Fprintln(a.stdout, stage)
			}
			return nil
		},
	}
}

func contextPath(dir string, phase int) string {
	return filepath.Join(dir, workflow.PhasePrefix(phase)+workflow.SuffixContext)
}

// readOptional returns the file content, or "" when it cannot be read.
func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
