// Package state reads and patches STATE.md and ROADMAP.md.
//
// Every mutator is a structural patch: it locates one section, table row, or
// line and rewrites only that region, so hand edits elsewhere in the document
// survive byte for byte. The pure functions in this package operate on text;
// Store wraps them in whole-document read-modify-write cycles.
package state

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kingrea/gsd/internal/markdown"
)

var (
	// ErrSectionNotFound indicates the named heading does not exist.
	ErrSectionNotFound = errors.New("section not found")
	// ErrPhaseNotFound indicates no roadmap row or detail block matched.
	ErrPhaseNotFound = errors.New("phase not found")
	// ErrCheckboxNotFound indicates no checklist line names the plan.
	ErrCheckboxNotFound = errors.New("plan checkbox not found")
)

// SectionCurrentPosition holds the execution cursor in STATE.md.
const SectionCurrentPosition = "Current Position"

const (
	barWidth   = 10
	barFilled  = "█"
	barEmpty   = "░"
	focusLabel = "**Current focus:**"
)

// UpdateSection replaces the body of a level-two section of doc. The heading
// must already exist; sections are never created.
func UpdateSection(doc, name, body string) (string, error) {
	out, ok := markdown.ReplaceSectionBody(doc, name, 2, body)
	if !ok {
		return doc, fmt.Errorf("state: %w: %q", ErrSectionNotFound, name)
	}
	return out, nil
}

// ProgressPercent returns round(completed/total*100), or 0 when total is 0.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// RenderProgressBar draws a ten-cell bar followed by the percentage, e.g.
// "[███░░░░░░░] 33%".
func RenderProgressBar(completed, total int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(completed) / float64(total) * barWidth))
	}
	filled = min(max(filled, 0), barWidth)
	return "[" + strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barWidth-filled) + "] " +
		strconv.Itoa(ProgressPercent(completed, total)) + "%"
}

// Position is the execution cursor recorded in STATE.md.
type Position struct {
	PhaseNum     int
	TotalPhases  int
	PhaseName    string
	PlanNum      int
	TotalPlans   int
	Status       string
	LastActivity string
	ProgressPct  int
}

var (
	phaseLineRe    = regexp.MustCompile(`^Phase:\s*(\d+)\s+of\s+(\d+)(?:\s*\((.*)\))?`)
	planLineRe     = regexp.MustCompile(`^Plan:\s*(\d+)\s+of\s+(\d+)`)
	progressLineRe = regexp.MustCompile(`^Progress:.*?(\d+)%`)
)

// ParsePosition reads the Current Position section. It reports false when the
// section is missing; individual missing lines leave zero values.
func ParsePosition(doc string) (Position, bool) {
	body, ok := markdown.SplitSections(doc, 2).Get(SectionCurrentPosition)
	if !ok {
		return Position{}, false
	}
	var pos Position
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if m := phaseLineRe.FindStringSubmatch(ln); m != nil {
			pos.PhaseNum, _ = strconv.Atoi(m[1])
			pos.TotalPhases, _ = strconv.Atoi(m[2])
			pos.PhaseName = strings.TrimSpace(m[3])
			continue
		}
		if m := planLineRe.FindStringSubmatch(ln); m != nil {
			pos.PlanNum, _ = strconv.Atoi(m[1])
			pos.TotalPlans, _ = strconv.Atoi(m[2])
			continue
		}
		if m := progressLineRe.FindStringSubmatch(ln); m != nil {
			pos.ProgressPct, _ = strconv.Atoi(m[1])
			continue
		}
		if v, ok := strings.CutPrefix(ln, "Status:"); ok {
			pos.Status = strings.TrimSpace(v)
			continue
		}
		if v, ok := strings.CutPrefix(ln, "Last activity:"); ok {
			pos.LastActivity = strings.TrimSpace(v)
		}
	}
	return pos, true
}

// PositionUpdate carries every field UpdatePosition rewrites.
type PositionUpdate struct {
	PhaseNum    int
	TotalPhases int
	PhaseName   string
	PlanNum     int
	TotalPlans  int
	Status      string
	// LastActivity is left untouched when empty.
	LastActivity string
	// CompletedPlans and TotalPlansGlobal drive the progress bar.
	CompletedPlans   int
	TotalPlansGlobal int
}

// UpdatePosition rewrites the Phase, Plan, Status, Last activity and Progress
// lines of the Current Position section, then the Current focus line. Lines
// that are missing from the document are left missing.
func UpdatePosition(doc string, u PositionUpdate) (string, error) {
	sec, ok := markdown.FindSection(doc, SectionCurrentPosition, 2)
	if !ok {
		return doc, fmt.Errorf("state: %w: %q", ErrSectionNotFound, SectionCurrentPosition)
	}
	phaseLine := fmt.Sprintf("Phase: %d of %d", u.PhaseNum, u.TotalPhases)
	if u.PhaseName != "" {
		phaseLine += " (" + u.PhaseName + ")"
	}
	lines := [][2]string{
		{"Phase:", phaseLine},
		{"Plan:", fmt.Sprintf("Plan: %d of %d in current phase", u.PlanNum, u.TotalPlans)},
		{"Status:", "Status: " + u.Status},
		{"Progress:", "Progress: " + RenderProgressBar(u.CompletedPlans, u.TotalPlansGlobal)},
	}
	if u.LastActivity != "" {
		lines = append(lines, [2]string{"Last activity:", "Last activity: " + u.LastActivity})
	}

	region := sec.Raw(doc)
	for _, l := range lines {
		region, _ = markdown.ReplacePrefixedLine(region, l[0], l[1])
	}
	out := doc[:sec.BodyStart] + region + doc[sec.End:]

	focus := fmt.Sprintf("%s Phase %d", focusLabel, u.PhaseNum)
	if u.PhaseName != "" {
		focus += " - " + u.PhaseName
	}
	out, _ = markdown.ReplacePrefixedLine(out, focusLabel, focus)
	return out, nil
}
