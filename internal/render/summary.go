package render

import (
	"fmt"
	"strings"

	"github.com/kingrea/gsd/internal/frontmatter"
)

// Default body text for summary sections with nothing to report.
const (
	NoAccomplishments = "- Plan completed as specified"
	NoDecisions       = "None - followed plan as specified"
	NoDeviations      = "None - plan executed exactly as written."
	NoIssues          = "None"
	DefaultReadiness  = "Ready for next plan"
)

// FileChange is a file touched by a plan.
type FileChange struct {
	Path    string
	Purpose string
}

// Decision is a choice made while executing a plan.
type Decision struct {
	Decision  string
	Rationale string
}

// TaskCommit is the commit recorded for one task.
type TaskCommit struct {
	Name   string
	Commit string
	Type   string
	Files  []string
}

// SummaryData feeds Summary.
type SummaryData struct {
	// Phase is the phase directory slug, e.g. "07-execution-workflow".
	Phase     string
	Plan      string
	Title     string
	OneLiner  string
	Subsystem string
	Tags      []string

	Requires []string
	Provides []string
	Affects  []string

	TechAdded []string
	Patterns  []string

	FilesCreated  []FileChange
	FilesModified []FileChange
	Decisions     []Decision

	Duration  string
	Completed string

	Tasks           []TaskCommit
	Accomplishments []string
	Deviations      string
	Issues          string
	NextReadiness   string
}

// Summary renders a plan's SUMMARY.md.
func Summary(d SummaryData) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "phase: %s\n", d.Phase)
	fmt.Fprintf(&b, "plan: %s\n", d.Plan)
	fmt.Fprintf(&b, "subsystem: %s\n", d.Subsystem)
	fmt.Fprintf(&b, "tags: %s\n\n", frontmatter.InlineList(d.Tags))

	b.WriteString("# Dependency graph\n")
	fmt.Fprintf(&b, "requires:%s\n", frontmatter.BlockList(d.Requires, 2))
	fmt.Fprintf(&b, "provides:%s\n", frontmatter.BlockList(d.Provides, 2))
	fmt.Fprintf(&b, "affects: %s\n\n", frontmatter.InlineList(d.Affects))

	b.WriteString("# Tech tracking\n")
	b.WriteString("tech-stack:\n")
	fmt.Fprintf(&b, "  added: %s\n", frontmatter.InlineList(d.TechAdded))
	fmt.Fprintf(&b, "  patterns: %s\n\n", frontmatter.InlineList(d.Patterns))

	b.WriteString("key-files:\n")
	fmt.Fprintf(&b, "  created:%s\n", frontmatter.BlockList(paths(d.FilesCreated), 4))
	fmt.Fprintf(&b, "  modified:%s\n\n", frontmatter.BlockList(paths(d.FilesModified), 4))

	decisions := make([]string, len(d.Decisions))
	for i, dec := range d.Decisions {
		decisions[i] = dec.Decision
	}
	fmt.Fprintf(&b, "key-decisions:%s\n\n", frontmatter.BlockList(decisions, 2))
	fmt.Fprintf(&b, "patterns-established:%s\n\n", frontmatter.BlockList(d.Patterns, 2))

	b.WriteString("# Metrics\n")
	fmt.Fprintf(&b, "duration: %s\n", d.Duration)
	fmt.Fprintf(&b, "completed: %s\n", d.Completed)
	b.WriteString("---\n\n")

	phaseNum, _, _ := strings.Cut(d.Phase, "-")
	fmt.Fprintf(&b, "# Phase %s: %s Summary\n\n", phaseNum, d.Title)
	fmt.Fprintf(&b, "**%s**\n\n", d.OneLiner)

	b.WriteString("## Performance\n\n")
	fmt.Fprintf(&b, "- **Duration:** %s\n", d.Duration)
	fmt.Fprintf(&b, "- **Tasks:** %d\n", len(d.Tasks))
	fmt.Fprintf(&b, "- **Files modified:** %d\n\n", len(d.FilesCreated)+len(d.FilesModified))

	b.WriteString("## Accomplishments\n")
	if len(d.Accomplishments) > 0 {
		b.WriteString(bullets(d.Accomplishments) + "\n\n")
	} else {
		b.WriteString(NoAccomplishments + "\n\n")
	}

	b.WriteString("## Task Commits\n\nEach task was committed atomically:\n\n")
	if len(d.Tasks) == 0 {
		b.WriteString("- None\n")
	}
	for i, t := range d.Tasks {
		fmt.Fprintf(&b, "%d. **%s** - `%s` (%s)\n", i+1, t.Name, t.Commit, t.Type)
	}

	b.WriteString("\n## Files Created/Modified\n")
	if len(d.FilesCreated)+len(d.FilesModified) == 0 {
		b.WriteString("- None\n")
	}
	for _, f := range d.FilesCreated {
		fmt.Fprintf(&b, "- `%s` - %s (created)\n", f.Path, f.Purpose)
	}
	for _, f := range d.FilesModified {
		fmt.Fprintf(&b, "- `%s` - %s (modified)\n", f.Path, f.Purpose)
	}

	b.WriteString("\n## Decisions Made\n")
	if len(d.Decisions) == 0 {
		b.WriteString(NoDecisions + "\n")
	}
	for _, dec := range d.Decisions {
		fmt.Fprintf(&b, "- **%s** -- %s\n", dec.Decision, dec.Rationale)
	}

	b.WriteString("\n## Deviations from Plan\n\n")
	b.WriteString(orDefault(deviations(d.Deviations), NoDeviations) + "\n")

	b.WriteString("\n## Issues Encountered\n")
	b.WriteString(orDefault(d.Issues, NoIssues) + "\n")

	b.WriteString("\n## Next Phase Readiness\n")
	b.WriteString(orDefault(d.NextReadiness, DefaultReadiness) + "\n")

	fmt.Fprintf(&b, "\n---\n*Phase: %s*\n*Completed: %s*\n", d.Phase, d.Completed)
	return b.String()
}

func deviations(s string) string {
	if strings.TrimSpace(s) == "None" {
		return NoDeviations
	}
	return s
}

func paths(files []FileChange) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
