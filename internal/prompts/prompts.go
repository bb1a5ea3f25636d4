// Package prompts renders the agent prompts used while planning a phase.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/kingrea/gsd/internal/config"
	"github.com/kingrea/gsd/internal/workflow"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	ResearcherAgent = "agents/gsd-phase-researcher.md"
	PlannerAgent    = "agents/gsd-planner.md"
	CheckerAgent    = "agents/gsd-plan-checker.md"
)

// Phase identifies the phase a prompt is built for.
type Phase struct {
	Number  int
	Name    string
	Details string
	Dir     string
}

// Prompt is a rendered agent prompt and the file the agent must write.
type Prompt struct {
	Agent      string
	Text       string
	OutputFile string
}

type promptData struct {
	Number     int
	Name       string
	Details    string
	PhaseDir   string
	Prefix     string
	Context    string
	Research   string
	OutputFile string
}

func newData(p Phase, output string) promptData {
	return promptData{
		Number:     p.Number,
		Name:       p.Name,
		Details:    p.Details,
		PhaseDir:   p.Dir,
		Prefix:     workflow.PhasePrefix(p.Number),
		OutputFile: output,
	}
}

// Research builds the phase researcher prompt. context is the phase
// CONTEXT.md content and may be empty.
func Research(p Phase, context string) (Prompt, error) {
	data := newData(p, workflow.ExpectedPlanFiles(p.Dir, p.Number).Research)
	data.Context = context
	return build("research.tmpl", ResearcherAgent, data)
}

// Planner builds the planner prompt. The user decisions and research blocks
// are included only when their content is non-empty.
func Planner(p Phase, context, research string) (Prompt, error) {
	data := newData(p, workflow.ExpectedPlanFiles(p.Dir, p.Number).PlansDone)
	data.Context = context
	data.Research = research
	return build("planner.tmpl", PlannerAgent, data)
}

// Checker builds the plan checker prompt.
func Checker(p Phase, context string) (Prompt, error) {
	data := newData(p, workflow.ExpectedPlanFiles(p.Dir, p.Number).Check)
	data.Context = context
	return build("checker.tmpl", CheckerAgent, data)
}

func build(name, agent string, data promptData) (Prompt, error) {
	text, err := render(name, data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Agent: agent, Text: text, OutputFile: data.OutputFile}, nil
}

func render(name string, data any) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("prompts: load %q: %w", name, err)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("prompts: parse %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompts: render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Stage is one agent run in the plan-phase pipeline.
type Stage string

const (
	StageResearch Stage = "research"
	StagePlan     Stage = "plan"
	StageCheck    Stage = "check"
)

// Stages lists the pipeline stages enabled by the workflow toggles. Planning
// always runs.
func Stages(t config.WorkflowToggles) []Stage {
	var stages []Stage
	if t.Research {
		stages = append(stages, StageResearch)
	}
	stages = append(stages, StagePlan)
	if t.PlanCheck {
		stages = append(stages, StageCheck)
	}
	return stages
}

// ContextSections are the headings of a phase CONTEXT.md.
var ContextSections = []string{"Decisions", "Claude's Discretion", "Deferred Ideas"}

// ContextTemplate renders an empty CONTEXT.md for a phase.
func ContextTemplate(number int, name, date string) (string, error) {
	return render("context.tmpl", struct {
		Number   int
		Name     string
		Date     string
		Sections []string
	}{number, name, date, ContextSections})
}
