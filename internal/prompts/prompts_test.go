package prompts

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kingrea/gsd/internal/config"
	"github.com/kingrea/gsd/internal/markdown"
)

var testPhase = Phase{Number: 6, Name: "Planning Workflow", Details: "details here", Dir: filepath.Join("tmp", "phasedir")}

func TestResearch(t *testing.T) {
	p, err := Research(testPhase, "context here")
	if err != nil {
		t.Fatalf("Research returned error: %v", err)
	}
	for _, want := range []string{ResearcherAgent, "Phase 6", "Planning Workflow", "details here", "<user_decisions>\ncontext here\n</user_decisions>"} {
		if !strings.Contains(p.Text, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p.Text)
		}
	}
	if !strings.HasSuffix(p.OutputFile, "06-RESEARCH.md") || !strings.Contains(p.Text, p.OutputFile) {
		t.Fatalf("output file = %q", p.OutputFile)
	}
}

func TestPlanner(t *testing.T) {
	p, err := Planner(testPhase, "context content", "research content")
	if err != nil {
		t.Fatalf("Planner returned error: %v", err)
	}
	for _, want := range []string{PlannerAgent, "<user_decisions>", "<research>\nresearch content\n</research>", "06-NN-PLAN.md"} {
		if !strings.Contains(p.Text, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p.Text)
		}
	}
	if !strings.HasSuffix(p.OutputFile, "06-PLANS-DONE.md") {
		t.Fatalf("output file = %q", p.OutputFile)
	}

	bare, err := Planner(testPhase, "", "")
	if err != nil {
		t.Fatalf("Planner returned error: %v", err)
	}
	if strings.Contains(bare.Text, "<user_decisions>") || strings.Contains(bare.Text, "<research>") {
		t.Fatalf("empty blocks rendered:\n%s", bare.Text)
	}
	if !strings.Contains(bare.Text, PlannerAgent) {
		t.Fatalf("agent reference missing")
	}
	if strings.Contains(bare.Text, "\n\n\n") {
		t.Fatalf("blank lines left by omitted blocks:\n%q", bare.Text)
	}
}

func TestChecker(t *testing.T) {
	p, err := Checker(testPhase, "context content")
	if err != nil {
		t.Fatalf("Checker returned error: %v", err)
	}
	if !strings.Contains(p.Text, CheckerAgent) || !strings.HasSuffix(p.OutputFile, "06-CHECK.md") {
		t.Fatalf("prompt = %+v", p)
	}
}

func TestStages(t *testing.T) {
	cases := []struct {
		toggles config.WorkflowToggles
		want    []Stage
	}{
		{config.WorkflowToggles{Research: true, PlanCheck: true}, []Stage{StageResearch, StagePlan, StageCheck}},
		{config.WorkflowToggles{}, []Stage{StagePlan}},
		{config.WorkflowToggles{PlanCheck: true}, []Stage{StagePlan, StageCheck}},
	}
	for _, tc := range cases {
		if got := Stages(tc.toggles); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Stages(%+v) = %v, want %v", tc.toggles, got, tc.want)
		}
	}
}

func TestContextTemplate(t *testing.T) {
	out, err := ContextTemplate(6, "Planning Workflow", "2026-02-05")
	if err != nil {
		t.Fatalf("ContextTemplate returned error: %v", err)
	}
	if !strings.HasPrefix(out, "# Phase 6: Planning Workflow - Context\n") {
		t.Fatalf("header:\n%s", out)
	}
	for _, name := range ContextSections {
		if !strings.Contains(out, "## "+name+"\n") {
			t.Fatalf("missing section %q", name)
		}
		if _, ok := markdown.FindSection(out, name, 2); !ok {
			t.Fatalf("section %q not found by markdown.FindSection", name)
		}
	}
}
