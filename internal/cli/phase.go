package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/kingrea/gsd/internal/orchestrator"
	"github.com/kingrea/gsd/internal/plans"
	"github.com/kingrea/gsd/internal/render"
	"github.com/kingrea/gsd/internal/verify"
	"github.com/kingrea/gsd/internal/workflow"
	"github.com/kingrea/gsd/internal/workflow/scheduler"
)

func (a *app) phaseDir(arg string) (int, string, error) {
	num, err := parseNumber("phase", arg)
	if err != nil {
		return 0, "", err
	}
	wf, err := a.workflow()
	if err != nil {
		return 0, "", err
	}
	dir, err := wf.FindPhaseDir(num)
	if err != nil {
		return 0, "", err
	}
	return num, dir, nil
}

func (a *app) plansCmd() *cobra.Command {
	var req scheduler.Request
	cmd := &cobra.Command{
		Use:   "plans <phase>",
		Short: "List a phase's plans by wave and pick the next runnable batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dir, err := a.phaseDir(args[0])
			if err != nil {
				return err
			}
			found, err := plans.Discover(dir)
			if err != nil {
				return err
			}
			waves := scheduler.GroupByWave(found.Plans)
			for _, wave := range waves.Order {
				fmt.Fprintf(a.stdout, "Wave %d:\n", wave)
				for _, p := range waves.ByWave[wave] {
					mark := " "
					if p.IsComplete {
						mark = "x"
					}
					line := fmt.Sprintf("  [%s] %s", mark, p.ID)
					if len(p.DependsOn) > 0 {
						line += " (depends on " + strings.Join(p.DependsOn, ", ") + ")"
					}
					if !p.Autonomous {
						line += " [checkpoint]"
					}
					fmt.Fprintln(a.stdout, line)
				}
			}
			fmt.Fprintln(a.stdout)

			batch := scheduler.NextBatch(waves, req)
			if batch.Done() {
				fmt.Fprintf(a.stdout, "All %d plans complete.\n", len(found.Plans))
				return nil
			}
			ids := make([]string, len(batch.Plans))
			for i, p := range batch.Plans {
				ids[i] = p.ID
			}
			if len(ids) == 0 {
				fmt.Fprintf(a.stdout, "Wave %d: nothing runnable.\n", batch.Wave)
			} else {
				fmt.Fprintf(a.stdout, "Next batch (wave %d): %s\n", batch.Wave, strings.Join(ids, ", "))
			}
			skipped := make([]string, 0, len(batch.Skipped))
			for id := range batch.Skipped {
				skipped = append(skipped, id)
			}
			sort.Strings(skipped)
			for _, id := range skipped {
				reason := batch.Skipped[id]
				fmt.Fprintf(a.stdout, "  skipped %s: %s (%s)\n", id, reason.Reason, reason.Detail)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&req.BatchSize, "batch", 0, "Maximum plans in the batch (0 for no limit)")
	cmd.Flags().StringSliceVar(&req.Approved, "approved", nil, "Checkpoint plan ids the user has cleared")
	return cmd
}

func (a *app) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <phase> <plan>",
		Short: "Record a finished plan in ROADMAP.md and STATE.md",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			phaseNum, dir, err := a.phaseDir(args[0])
			if err != nil {
				return err
			}
			planNum, err := parseNumber("plan", args[1])
			if err != nil {
				return err
			}
			planID := workflow.PlanID(phaseNum, planNum)
			completion, err := plans.CompletionStatus(dir)
			if err != nil {
				return err
			}
			if !workflow.FileExists(filepath.Join(dir, workflow.PlanFileName(phaseNum, planNum))) {
				return fmt.Errorf("plan %s not found in %s", planID, dir)
			}
			completed := completion.CompletedPlans
			if slices.Contains(completion.IncompletePlans, planID) {
				completed++
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			name := ""
			if details, err := store.PhaseDetails(phaseNum); err == nil {
				name = details.Name
			}
			seq := orchestrator.NewSequencer(store, orchestrator.WithClock(a.now), orchestrator.WithLogger(a.log()))
			res, err := seq.AfterPlan(orchestrator.PlanCompletion{
				PhaseNum:          phaseNum,
				PlanNum:           planNum,
				PhaseName:         name,
				TotalPlansInPhase: completion.TotalPlans,
				CompletedInPhase:  completed,
			})
			if err != nil {
				return err
			}
			p := a.printer()
			p.Success("Recorded %s (%d/%d plans in phase %d)", planID, completed, completion.TotalPlans, phaseNum)
			if res.PhaseComplete {
				p.Success("Phase %d complete", phaseNum)
			}
			p.Info("Overall progress: %d/%d plans (%d%%)", res.Global.Completed, res.Global.Total, res.Global.Pct)
			return nil
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	var outputs bool
	cmd := &cobra.Command{
		Use:   "verify <phase>",
		Short: "Check a phase's must-haves and write its VERIFICATION.md",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phaseNum, dir, err := a.phaseDir(args[0])
			if err != nil {
				return err
			}
			if outputs {
				expected := workflow.ExpectedPlanFiles(dir, phaseNum)
				found, err := verify.Outputs(cmd.Context(), []string{expected.Research, expected.PlansDone, expected.Check})
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, verify.Report(found).Text)
				return nil
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			name := ""
			if details, err := store.PhaseDetails(phaseNum); err == nil {
				name = details.Name
			}
			data, err := verify.Phase(store.Workflow().ProjectDir(), dir, verify.PhaseOptions{PhaseName: name, Created: a.today()})
			if err != nil {
				return err
			}
			path := filepath.Join(dir, workflow.PhasePrefix(phaseNum)+workflow.SuffixVerification)
			if err := atomic.WriteFile(path, strings.NewReader(render.Verification(data))); err != nil {
				return fmt.Errorf("verify: write %s: %w", path, err)
			}
			a.log().Info("phase verified", "phase", phaseNum, "passed", data.Passed())

			sum := data.Tally()
			p := a.printer()
			if data.Passed() {
				p.Success("%d/%d checks passed", sum.Passed, sum.Total)
			} else {
				p.Warn("%d/%d checks passed, %d failed", sum.Passed, sum.Total, sum.Failed)
			}
			p.Info("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputs, "outputs", false, "Report which planning agent outputs exist instead")
	return cmd
}
