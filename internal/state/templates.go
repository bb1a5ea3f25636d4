package state

import (
	"fmt"
	"strings"
)

// InitOptions seeds the planning documents of a new project.
type InitOptions struct {
	ProjectName string
	CoreValue   string
	// Phases names the roadmap phases in order. When empty, TotalPhases
	// placeholder phases are generated.
	Phases       []string
	TotalPhases  int
	CurrentPhase int
	// Date stamps the documents (YYYY-MM-DD).
	Date string
}

func (o InitOptions) normalized() InitOptions {
	if o.ProjectName == "" {
		o.ProjectName = "Untitled Project"
	}
	if o.CoreValue == "" {
		o.CoreValue = "TBD"
	}
	if len(o.Phases) == 0 {
		for i := 1; i <= o.TotalPhases; i++ {
			o.Phases = append(o.Phases, fmt.Sprintf("Phase %d", i))
		}
	}
	if o.TotalPhases < len(o.Phases) {
		o.TotalPhases = len(o.Phases)
	}
	if o.CurrentPhase < 1 {
		o.CurrentPhase = 1
	}
	return o
}

func (o InitOptions) currentPhaseName() string {
	if o.CurrentPhase <= len(o.Phases) {
		return o.Phases[o.CurrentPhase-1]
	}
	return ""
}

// RenderState renders a fresh STATE.md.
func RenderState(opts InitOptions) string {
	o := opts.normalized()
	name := o.currentPhaseName()
	phaseLine := fmt.Sprintf("Phase: %d of %d", o.CurrentPhase, o.TotalPhases)
	focus := fmt.Sprintf("Phase %d", o.CurrentPhase)
	if name != "" {
		phaseLine += " (" + name + ")"
		focus += " - " + name
	}

	var b strings.Builder
	b.WriteString("# Project State\n\n")
	b.WriteString("## Project Reference\n\n")
	b.WriteString("See: .planning/PROJECT.md (updated " + o.Date + ")\n\n")
	b.WriteString("**Core value:** " + o.CoreValue + "\n")
	b.WriteString(focusLabel + " " + focus + "\n\n")
	b.WriteString("## Current Position\n\n")
	b.WriteString(phaseLine + "\n")
	b.WriteString("Plan: 0 of 0 in current phase\n")
	b.WriteString("Status: Initializing\n")
	b.WriteString("Last activity: " + o.Date + " -- Project initialized\n\n")
	b.WriteString("Progress: " + RenderProgressBar(0, 0) + "\n\n")
	b.WriteString("## Performance Metrics\n\n")
	b.WriteString("**Velocity:**\n- Total plans completed: 0\n- Average duration: -\n- Total execution time: -\n\n")
	b.WriteString("## Accumulated Context\n\n")
	b.WriteString("### Decisions\n\nNone yet.\n\n")
	b.WriteString("### Pending Todos\n\nNone yet.\n\n")
	b.WriteString("### Blockers/Concerns\n\nNone yet.\n\n")
	b.WriteString("## Session Continuity\n\n")
	b.WriteString("Last session: " + o.Date + "\n")
	b.WriteString("Stopped at: Project initialized\n")
	b.WriteString("Resume file: None\n")
	return b.String()
}

// RenderRoadmap renders a fresh ROADMAP.md with a details block and a progress
// table row per phase.
func RenderRoadmap(opts InitOptions) string {
	o := opts.normalized()
	var b strings.Builder
	b.WriteString("# Roadmap: " + o.ProjectName + "\n\n")
	b.WriteString("## Overview\n\n" + o.CoreValue + "\n\n")
	b.WriteString("## Phases\n\n")
	for i, name := range o.Phases {
		fmt.Fprintf(&b, "- [ ] **Phase %d: %s**\n", i+1, name)
	}
	b.WriteString("\n## Phase Details\n")
	for i, name := range o.Phases {
		depends := "Nothing (first phase)"
		if i > 0 {
			depends = fmt.Sprintf("Phase %d", i)
		}
		fmt.Fprintf(&b, "\n### Phase %d: %s\n", i+1, name)
		b.WriteString("**Goal**: TBD\n")
		b.WriteString("**Depends on**: " + depends + "\n")
		b.WriteString("**Requirements**: TBD\n")
		b.WriteString("**Success Criteria** (what must be TRUE):\n  1. TBD\n")
		b.WriteString("**Plans**: TBD\n")
	}
	b.WriteString("\n## Progress\n\n")
	b.WriteString("| Phase | Plans Complete | Status | Completed |\n")
	b.WriteString("|-------|----------------|--------|-----------|\n")
	for i, name := range o.Phases {
		fmt.Fprintf(&b, "| %d. %s | 0/0 | Not started | - |\n", i+1, name)
	}
	return b.String()
}

// RenderProject renders a fresh PROJECT.md.
func RenderProject(opts InitOptions) string {
	o := opts.normalized()
	return "# " + o.ProjectName + "\n\n" +
		"## What This Is\n\nTBD\n\n" +
		"## Core Value\n\n" + o.CoreValue + "\n\n" +
		"## Requirements\n\n### Validated\n\nNone yet.\n\n### Active\n\nSee REQUIREMENTS.md\n\n### Out of Scope\n\nNone yet.\n\n" +
		"## Constraints\n\nNone yet.\n\n" +
		"## Key Decisions\n\n| Decision | Rationale | Outcome |\n|----------|-----------|---------|\n\n" +
		"---\n*Last updated: " + o.Date + " after initialization*\n"
}

// RenderRequirements renders a fresh REQUIREMENTS.md.
func RenderRequirements(opts InitOptions) string {
	o := opts.normalized()
	return "# Requirements: " + o.ProjectName + "\n\n" +
		"**Defined:** " + o.Date + "\n" +
		"**Core Value:** " + o.CoreValue + "\n\n" +
		"## v1 Requirements\n\nNone yet.\n\n" +
		"## v2 Requirements\n\nNone yet.\n\n" +
		"## Out of Scope\n\nNone yet.\n\n" +
		"## Traceability\n\n| Requirement | Phase | Status |\n|-------------|-------|--------|\n"
}
