package render

import (
	"fmt"
	"strings"
)

// CheckStatus is the outcome of one verification check.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckFail CheckStatus = "fail"
	CheckSkip CheckStatus = "skip"
)

// TruthCheck verifies one must-have truth.
type TruthCheck struct {
	Text   string
	Status CheckStatus
}

// ArtifactCheck verifies one must-have artifact.
type ArtifactCheck struct {
	Path      string
	Exists    bool
	Substance string
	Wired     bool
	Status    CheckStatus
	// Detail explains a failure, e.g. missing exports.
	Detail string
}

// KeyLinkCheck verifies one must-have key link.
type KeyLinkCheck struct {
	From   string
	To     string
	Via    string
	Status CheckStatus
}

// PlanVerification groups the checks for one plan.
type PlanVerification struct {
	PlanID    string
	Truths    []TruthCheck
	Artifacts []ArtifactCheck
	KeyLinks  []KeyLinkCheck
}

// CheckSummary totals the checks of a report.
type CheckSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

func (s *CheckSummary) add(status CheckStatus) {
	s.Total++
	switch status {
	case CheckPass:
		s.Passed++
	case CheckFail:
		s.Failed++
	default:
		s.Skipped++
	}
}

// VerificationData feeds Verification.
type VerificationData struct {
	Phase     string
	PhaseName string
	Created   string
	Plans     []PlanVerification
	// Summary is computed from Plans when left zero.
	Summary CheckSummary
}

// Tally counts every check in d.Plans.
func (d VerificationData) Tally() CheckSummary {
	var s CheckSummary
	for _, p := range d.Plans {
		for _, t := range p.Truths {
			s.add(t.Status)
		}
		for _, a := range p.Artifacts {
			s.add(a.Status)
		}
		for _, k := range p.KeyLinks {
			s.add(k.Status)
		}
	}
	return s
}

// Passed reports whether no check failed.
func (d VerificationData) Passed() bool {
	return d.summary().Failed == 0
}

func (d VerificationData) summary() CheckSummary {
	if d.Summary == (CheckSummary{}) {
		return d.Tally()
	}
	return d.Summary
}

// Verification renders a phase's VERIFICATION.md. The status is fail when
// any check failed.
func Verification(d VerificationData) string {
	sum := d.summary()
	status := CheckPass
	if sum.Failed > 0 {
		status = CheckFail
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "phase: %s\n", d.Phase)
	fmt.Fprintf(&b, "created: %s\n", d.Created)
	fmt.Fprintf(&b, "total: %d\n", sum.Total)
	fmt.Fprintf(&b, "passed: %d\n", sum.Passed)
	fmt.Fprintf(&b, "failed: %d\n", sum.Failed)
	fmt.Fprintf(&b, "skipped: %d\n", sum.Skipped)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# Phase %s: %s - Verification\n\n", phaseLabel(d.Phase), d.PhaseName)
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%d/%d checks passed", sum.Passed, sum.Total)
	if sum.Failed > 0 || sum.Skipped > 0 {
		fmt.Fprintf(&b, " (%d failed, %d skipped)", sum.Failed, sum.Skipped)
	}
	b.WriteString("\n")

	for _, p := range d.Plans {
		fmt.Fprintf(&b, "\n## Plan %s\n\n", p.PlanID)

		b.WriteString("### Truths\n\n")
		if len(p.Truths) == 0 {
			b.WriteString("None\n")
		}
		for _, t := range p.Truths {
			fmt.Fprintf(&b, "- %s %q\n", checkbox(t.Status), t.Text)
		}

		b.WriteString("\n### Artifacts\n\n")
		if len(p.Artifacts) == 0 {
			b.WriteString("None\n")
		} else {
			b.WriteString("| Path | Exists | Substance | Wired | Status |\n")
			b.WriteString("|------|--------|-----------|-------|--------|\n")
		}
		for _, a := range p.Artifacts {
			substance := orDefault(a.Substance, "-")
			if a.Detail != "" {
				substance += " (" + a.Detail + ")"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n", a.Path, yesNo(a.Exists), substance, yesNo(a.Wired), a.Status)
		}

		b.WriteString("\n### Key Links\n\n")
		if len(p.KeyLinks) == 0 {
			b.WriteString("None\n")
		}
		for _, k := range p.KeyLinks {
			fmt.Fprintf(&b, "- %s `%s` -> `%s`", checkbox(k.Status), k.From, k.To)
			if k.Via != "" {
				fmt.Fprintf(&b, " (%s)", k.Via)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func checkbox(s CheckStatus) string {
	if s == CheckPass {
		return "[x]"
	}
	return "[ ]"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
