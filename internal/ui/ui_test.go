package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kingrea/gsd/internal/state"
)

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Success("Platform: %s", "linux")
	p.Warn("Cline CLI not found")
	p.Info("Install location: %s", p.Highlight("/tmp/x"))
	p.Error("boom")

	want := "  ✓ Platform: linux\n  ⚠ Cline CLI not found\n  ℹ Install location: /tmp/x\n  ✗ boom\n"
	if buf.String() != want {
		t.Fatalf("output =\n%q\nwant\n%q", buf.String(), want)
	}
	if p.Dim("v1") != "v1" {
		t.Fatalf("plain printer styled text")
	}
}

func TestRunStepsPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	var ran []string
	step := func(name string, o Outcome, err error) Step {
		return Step{Title: name, Run: func(context.Context) (Outcome, error) {
			ran = append(ran, name)
			return o, err
		}}
	}
	errBoom := errors.New("boom")
	err := RunSteps(context.Background(), p, []Step{
		step("one", Outcome{Message: "first"}, nil),
		step("two", Outcome{Level: LevelWarn, Message: "second", Notes: []string{"note"}}, nil),
		step("three", Outcome{}, errBoom),
		step("four", Outcome{Message: "never"}, nil),
	})

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Title != "three" || !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(ran, ",") != "one,two,three" {
		t.Fatalf("ran = %v", ran)
	}
	want := "  ✓ first\n  ⚠ second\n  ℹ note\n  ✗ boom\n"
	if buf.String() != want {
		t.Fatalf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestStatusBoard(t *testing.T) {
	snap := state.StateSnapshot{
		HasPosition: true,
		Position:    state.Position{PhaseNum: 1, TotalPhases: 2, PhaseName: "Foundation", PlanNum: 1, TotalPlans: 2, Status: "In progress", LastActivity: "2026-02-05 -- Completed 01-01-PLAN.md"},
	}
	progress := state.RoadmapProgress{
		Phases: []state.PhaseProgress{
			{Number: 1, Name: "Foundation", CompletedPlans: 1, TotalPlans: 2, Status: "In progress", CompletedDate: "-"},
			{Number: 2, Name: "Infrastructure", CompletedPlans: 0, TotalPlans: 2, Status: "Not started", CompletedDate: "-"},
		},
		CompletedPlans: 1,
		TotalPlans:     4,
	}
	out := StatusBoard(snap, progress, false)
	for _, want := range []string{
		"Phase 1 of 2 (Foundation)",
		"Plan 1 of 2: In progress",
		"Last activity: 2026-02-05 -- Completed 01-01-PLAN.md",
		"25%",
		"1. Foundation",
		"2. Infrastructure",
		"Not started",
		"Completed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("board missing %q:\n%s", want, out)
		}
	}
}
