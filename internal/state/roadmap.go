package state

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kingrea/gsd/internal/markdown"
	"github.com/kingrea/gsd/internal/workflow"
)

// PhaseProgress is one row of the roadmap progress table.
type PhaseProgress struct {
	Number         int
	Name           string
	CompletedPlans int
	TotalPlans     int
	Status         string
	CompletedDate  string
}

// RoadmapProgress is the parsed progress table with aggregate counts.
type RoadmapProgress struct {
	Phases         []PhaseProgress
	TotalPlans     int
	CompletedPlans int
}

// Percent returns the overall completion percentage.
func (r RoadmapProgress) Percent() int {
	return ProgressPercent(r.CompletedPlans, r.TotalPlans)
}

var (
	phaseCellRe = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)
	countCellRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
)

type tableRow struct {
	start, end int
	cells      []string
	progress   PhaseProgress
}

// progressRows finds the rows of the Phase | Plans Complete | Status |
// Completed table. Rows of other tables, and the header and separator rows,
// never match.
func progressRows(doc string) []tableRow {
	var rows []tableRow
	offset := 0
	inTable := false
	for _, ln := range strings.SplitAfter(doc, "\n") {
		start := offset
		offset += len(ln)
		text := strings.TrimRight(ln, "\r\n")
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, "|") {
			inTable = false
			continue
		}
		cells := splitRow(trimmed)
		if isProgressHeader(cells) {
			inTable = true
			continue
		}
		if !inTable || len(cells) < 3 {
			continue
		}
		pm := phaseCellRe.FindStringSubmatch(cells[0])
		cm := countCellRe.FindStringSubmatch(cells[1])
		if pm == nil || cm == nil {
			continue
		}
		num, _ := strconv.Atoi(pm[1])
		done, _ := strconv.Atoi(cm[1])
		total, _ := strconv.Atoi(cm[2])
		row := tableRow{
			start: start,
			end:   start + len(text),
			cells: cells,
			progress: PhaseProgress{
				Number:         num,
				Name:           strings.TrimSpace(pm[2]),
				CompletedPlans: done,
				TotalPlans:     total,
				Status:         cells[2],
			},
		}
		if len(cells) > 3 {
			row.progress.CompletedDate = cells[3]
		}
		rows = append(rows, row)
	}
	return rows
}

func isProgressHeader(cells []string) bool {
	return len(cells) >= 3 && cells[0] == "Phase" && cells[1] == "Plans Complete" && cells[2] == "Status"
}

func splitRow(row string) []string {
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	parts := strings.Split(row, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseRoadmapProgress reads the progress table rows in document order.
func ParseRoadmapProgress(doc string) RoadmapProgress {
	out := RoadmapProgress{Phases: []PhaseProgress{}}
	for _, row := range progressRows(doc) {
		out.Phases = append(out.Phases, row.progress)
		out.TotalPlans += row.progress.TotalPlans
		out.CompletedPlans += row.progress.CompletedPlans
	}
	return out
}

// UpdateRoadmapProgress rewrites the completed/total, status and date cells of
// the row for phaseNum. An empty date is written as "-".
func UpdateRoadmapProgress(doc string, phaseNum, completed, total int, status, completedDate string) (string, error) {
	if completedDate == "" {
		completedDate = "-"
	}
	for _, row := range progressRows(doc) {
		if row.progress.Number != phaseNum {
			continue
		}
		line := fmt.Sprintf("| %s | %d/%d | %s | %s |", row.cells[0], completed, total, status, completedDate)
		raw := doc[row.start:row.end]
		indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]
		return doc[:row.start] + indent + line + doc[row.end:], nil
	}
	return doc, fmt.Errorf("state: %w: phase %d in progress table", ErrPhaseNotFound, phaseNum)
}

// UpdatePlanCheckbox sets or clears the "- [ ] NN-MM-PLAN.md" checklist line
// for a plan.
func UpdatePlanCheckbox(doc string, phaseNum, planNum int, checked bool) (string, error) {
	file := workflow.PlanFileName(phaseNum, planNum)
	re := regexp.MustCompile(`(?m)^[ \t]*[-*] \[([ xX])\][ \t]+(?:\*\*)?` + regexp.QuoteMeta(file))
	loc := re.FindStringSubmatchIndex(doc)
	if loc == nil {
		return doc, fmt.Errorf("state: %w: %s", ErrCheckboxNotFound, file)
	}
	mark := " "
	if checked {
		mark = "x"
	}
	return doc[:loc[2]] + mark + doc[loc[3]:], nil
}

// Phase is one "### Phase N: Name" block of the roadmap's Phase Details.
type Phase struct {
	Number          int
	Name            string
	Goal            string
	DependsOn       string
	Requirements    []string
	SuccessCriteria []string
	Plans           string
	// Details is the full block body.
	Details string
}

var (
	phaseHeadingRe = regexp.MustCompile(`^Phase\s+(\d+):\s*(.+)$`)
	criterionRe    = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// PhaseDetails extracts the detail block for phaseNum from a roadmap.
func PhaseDetails(doc string, phaseNum int) (Phase, error) {
	for _, sec := range markdown.Headings(doc, 3) {
		m := phaseHeadingRe.FindStringSubmatch(sec.Name)
		if m == nil {
			continue
		}
		if n, _ := strconv.Atoi(m[1]); n != phaseNum {
			continue
		}
		body := sec.Body(doc)
		// The last detail block stops at the next level-two heading.
		if idx := strings.Index(body, "\n## "); idx >= 0 {
			body = strings.TrimRight(body[:idx], " \t\r\n")
		}
		p := Phase{Number: phaseNum, Name: strings.TrimSpace(m[2]), Details: body}
		p.Goal = boldField(body, "Goal")
		p.DependsOn = boldField(body, "Depends on")
		p.Plans = boldField(body, "Plans")
		if reqs := boldField(body, "Requirements"); reqs != "" {
			for _, r := range strings.Split(reqs, ",") {
				if r = strings.TrimSpace(r); r != "" {
					p.Requirements = append(p.Requirements, r)
				}
			}
		}
		p.SuccessCriteria = successCriteria(body)
		return p, nil
	}
	return Phase{}, fmt.Errorf("state: %w: phase %d in roadmap details", ErrPhaseNotFound, phaseNum)
}

// boldField reads "**Label**: value" (or "**Label:** value").
func boldField(body, label string) string {
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		for _, prefix := range []string{"**" + label + "**:", "**" + label + ":**"} {
			if v, ok := strings.CutPrefix(ln, prefix); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func successCriteria(body string) []string {
	var out []string
	inList := false
	for _, ln := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "**Success Criteria**") {
			inList = true
			continue
		}
		if !inList || trimmed == "" {
			continue
		}
		m := criterionRe.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		out = append(out, m[1])
	}
	return out
}
