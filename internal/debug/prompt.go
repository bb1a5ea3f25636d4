package debug

import (
	"fmt"
	"strings"
)

var guidelines = []string{
	"Update the debug file BEFORE taking action (not after)",
	"Use scientific method: hypothesis -> test -> confirm/eliminate",
	"Append to Eliminated and Evidence sections (never delete entries)",
	`When fixing, update status to "fixing" first`,
	`After fix, update status to "verifying" and run verification`,
	`When verified, update status to "resolved" with Resolution details`,
}

// Prompt renders the investigation prompt handed to the debugging agent.
// Symptoms, eliminated hypotheses and evidence are left out while they
// still hold placeholders.
func Prompt(s Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Debug Session: %s\n\n", s.Slug)
	fmt.Fprintf(&b, "**Status:** %s\n", s.Status)
	fmt.Fprintf(&b, "**Trigger:** %s\n\n", s.Trigger)

	b.WriteString("### Current Focus\n")
	fmt.Fprintf(&b, "- Hypothesis: %s\n", s.Focus.Hypothesis)
	fmt.Fprintf(&b, "- Test: %s\n", s.Focus.Test)
	fmt.Fprintf(&b, "- Expecting: %s\n", s.Focus.Expecting)
	fmt.Fprintf(&b, "- Next action: %s\n\n", s.Focus.NextAction)

	b.WriteString("### Investigation Context")
	if s.Symptoms.Filled() {
		b.WriteString("\n\n**Symptoms:**\n")
		fmt.Fprintf(&b, "- Expected: %s\n", s.Symptoms.Expected)
		fmt.Fprintf(&b, "- Actual: %s\n", s.Symptoms.Actual)
		fmt.Fprintf(&b, "- Errors: %s\n", s.Symptoms.Errors)
		fmt.Fprintf(&b, "- Reproduction: %s", s.Symptoms.Reproduction)
	}
	if e := Entries(s.Eliminated, PlaceholderEliminated); e != "" {
		b.WriteString("\n\n**Eliminated:**\n" + e)
	}
	if e := Entries(s.Evidence, PlaceholderEvidence); e != "" {
		b.WriteString("\n\n**Evidence:**\n" + e)
	}

	b.WriteString("\n\n### Guidelines\n")
	for i, g := range guidelines {
		b.WriteString("- " + g)
		if i < len(guidelines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
