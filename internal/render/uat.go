package render

import (
	"fmt"
	"strings"

	"github.com/kingrea/gsd/internal/workflow"
)

// Test results recorded in a UAT report.
const (
	ResultPass    = "pass"
	ResultFail    = "fail"
	ResultPending = "pending"
)

// UATTest is one user acceptance test.
type UATTest struct {
	Name     string
	Expected string
	// Result is pass, fail or pending. Anything else counts as pending.
	Result string
	// Issue and Severity are only written when set.
	Issue    string
	Severity string
}

// UATData feeds UAT.
type UATData struct {
	// Phase is the phase directory slug, e.g. "08-verification-polish".
	Phase     string
	PhaseName string
	Tests     []UATTest
	// Status defaults to the outcome derived from Tests.
	Status  string
	Created string
	Updated string
}

// UATCounts tallies test results.
type UATCounts struct {
	Passed  int
	Failed  int
	Pending int
	Total   int
}

// Counts tallies the results of d.Tests.
func (d UATData) Counts() UATCounts {
	c := UATCounts{Total: len(d.Tests)}
	for _, t := range d.Tests {
		switch t.Result {
		case ResultPass:
			c.Passed++
		case ResultFail:
			c.Failed++
		default:
			c.Pending++
		}
	}
	return c
}

// Outcome is "failed" when any test failed, "testing" while any are pending,
// and "passed" otherwise.
func (c UATCounts) Outcome() string {
	switch {
	case c.Failed > 0:
		return "failed"
	case c.Pending > 0:
		return "testing"
	default:
		return "passed"
	}
}

// UAT renders a phase's UAT.md.
func UAT(d UATData) string {
	counts := d.Counts()
	status := d.Status
	if status == "" {
		status = counts.Outcome()
	}
	updated := orDefault(d.Updated, d.Created)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "phase: %s\n", d.Phase)
	fmt.Fprintf(&b, "created: %s\n", d.Created)
	fmt.Fprintf(&b, "updated: %s\n", updated)
	fmt.Fprintf(&b, "passed: %d\n", counts.Passed)
	fmt.Fprintf(&b, "failed: %d\n", counts.Failed)
	fmt.Fprintf(&b, "pending: %d\n", counts.Pending)
	fmt.Fprintf(&b, "total: %d\n", counts.Total)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# Phase %s: %s - UAT\n\n", phaseLabel(d.Phase), d.PhaseName)
	b.WriteString("## Tests\n")
	if len(d.Tests) == 0 {
		b.WriteString("\nNo tests recorded.\n")
	}
	for i, t := range d.Tests {
		result := t.Result
		if result == "" {
			result = ResultPending
		}
		fmt.Fprintf(&b, "\n### Test %d: %s\n\n", i+1, t.Name)
		fmt.Fprintf(&b, "**Expected:** %s\n", t.Expected)
		fmt.Fprintf(&b, "**Result:** %s\n", result)
		if t.Issue != "" {
			fmt.Fprintf(&b, "**Issue:** %s\n", t.Issue)
		}
		if t.Severity != "" {
			fmt.Fprintf(&b, "**Severity:** %s\n", t.Severity)
		}
	}

	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- Passed: %d\n", counts.Passed)
	fmt.Fprintf(&b, "- Failed: %d\n", counts.Failed)
	fmt.Fprintf(&b, "- Pending: %d\n", counts.Pending)
	fmt.Fprintf(&b, "- Total: %d\n", counts.Total)
	return b.String()
}

// phaseLabel turns "08-verification-polish" into "8". Slugs without a numeric
// prefix are used as-is.
func phaseLabel(phase string) string {
	if n, ok := workflow.PhaseNumber(phase); ok {
		return fmt.Sprint(n)
	}
	return phase
}
