// Package render builds planning documents and commit messages from
// structured data. Every function is pure and deterministic.
package render

import (
	"fmt"
	"slices"
	"strings"
)

// CommitTypes is the conventional-commit allow-list, in display order.
var CommitTypes = []string{"feat", "fix", "test", "refactor", "perf", "chore", "docs", "style"}

// FallbackCommitType replaces any type outside CommitTypes.
const FallbackCommitType = "chore"

// ValidCommitType reports whether t is in CommitTypes.
func ValidCommitType(t string) bool {
	return slices.Contains(CommitTypes, t)
}

// TaskCommitMessage renders "type(planID): description", followed by a bullet
// list of details when any are given.
func TaskCommitMessage(commitType, planID, description string, details ...string) string {
	if !ValidCommitType(commitType) {
		commitType = FallbackCommitType
	}
	msg := fmt.Sprintf("%s(%s): %s", commitType, planID, description)
	if len(details) > 0 {
		msg += "\n\n" + bullets(details)
	}
	return msg
}

// PlanCommitMessage renders the metadata commit that closes out a plan.
func PlanCommitMessage(planID, planName string, taskNames []string, summaryPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "docs(%s): complete %s\n\n", planID, planName)
	fmt.Fprintf(&b, "Tasks completed: %d/%d\n", len(taskNames), len(taskNames))
	if len(taskNames) > 0 {
		b.WriteString(bullets(taskNames) + "\n")
	}
	fmt.Fprintf(&b, "\nSUMMARY: %s", summaryPath)
	return b.String()
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
