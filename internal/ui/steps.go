package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Level grades a finished step.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarn
	LevelInfo
)

// Outcome is what a step reports when it finishes without error.
type Outcome struct {
	Level   Level
	Message string
	// Notes are printed as info lines below the outcome.
	Notes []string
}

// Step is one unit of work shown with a spinner while it runs.
type Step struct {
	Title string
	Run   func(ctx context.Context) (Outcome, error)
}

// StepError names the step that failed.
type StepError struct {
	Title string
	Err   error
}

func (e *StepError) Error() string {
	return e.Title + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RunSteps runs steps in order and stops at the first error. On a terminal
// each step shows a spinner; elsewhere outcomes are printed as plain lines.
func RunSteps(ctx context.Context, p *Printer, steps []Step) error {
	if p.styled && IsTerminal(p.out) {
		return runInteractive(ctx, p, steps)
	}
	return runPlain(ctx, p, steps)
}

func runPlain(ctx context.Context, p *Printer, steps []Step) error {
	for _, step := range steps {
		outcome, err := step.Run(ctx)
		if err != nil {
			p.Error("%s", err)
			return &StepError{Title: step.Title, Err: err}
		}
		report(p, outcome)
	}
	return nil
}

func report(p *Printer, o Outcome) {
	switch o.Level {
	case LevelWarn:
		p.Warn("%s", o.Message)
	case LevelInfo:
		p.Info("%s", o.Message)
	default:
		p.Success("%s", o.Message)
	}
	for _, note := range o.Notes {
		p.Info("%s", note)
	}
}

type stepDoneMsg struct {
	outcome Outcome
	err     error
}

type stepsModel struct {
	ctx     context.Context
	printer *Printer
	steps   []Step
	index   int
	spinner spinner.Model
	err     error
}

func newStepsModel(ctx context.Context, p *Printer, steps []Step) stepsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorBlue)
	return stepsModel{ctx: ctx, printer: p, steps: steps, spinner: s}
}

func (m stepsModel) runCurrent() tea.Cmd {
	step := m.steps[m.index]
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := step.Run(ctx)
		return stepDoneMsg{outcome: outcome, err: err}
	}
}

func (m stepsModel) Init() tea.Cmd {
	if len(m.steps) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.runCurrent())
}

func (m stepsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	case stepDoneMsg:
		line := capture(func(p *Printer) {
			if msg.err != nil {
				p.Error("%s", msg.err)
				return
			}
			report(p, msg.outcome)
		}, m.printer.styled)
		if msg.err != nil {
			m.err = &StepError{Title: m.steps[m.index].Title, Err: msg.err}
			return m, tea.Sequence(tea.Println(line), tea.Quit)
		}
		m.index++
		if m.index >= len(m.steps) {
			return m, tea.Sequence(tea.Println(line), tea.Quit)
		}
		return m, tea.Sequence(tea.Println(line), m.runCurrent())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m stepsModel) View() string {
	if m.err != nil || m.index >= len(m.steps) {
		return ""
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), m.steps[m.index].Title)
}

// capture renders printer output to a string without the trailing newline.
func capture(fn func(*Printer), styled bool) string {
	var buf strings.Builder
	fn(newPrinter(&buf, styled))
	return strings.TrimSuffix(buf.String(), "\n")
}

func runInteractive(ctx context.Context, p *Printer, steps []Step) error {
	program := tea.NewProgram(newStepsModel(ctx, p, steps), tea.WithOutput(p.out), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("ui: run steps: %w", err)
	}
	return final.(stepsModel).err
}
