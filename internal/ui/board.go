package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kingrea/gsd/internal/state"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	completeCell = cellStyle.Foreground(colorGreen)
	activeCell   = cellStyle.Foreground(colorYellow)
	pendingCell  = cellStyle.Foreground(colorDim)
)

// StatusBoard renders the current position and the roadmap progress table.
// Colors are applied only when styled is set.
func StatusBoard(snap state.StateSnapshot, progress state.RoadmapProgress, styled bool) string {
	var b strings.Builder
	if snap.HasPosition {
		pos := snap.Position
		name := ""
		if pos.PhaseName != "" {
			name = " (" + pos.PhaseName + ")"
		}
		fmt.Fprintf(&b, "Phase %d of %d%s\n", pos.PhaseNum, pos.TotalPhases, name)
		fmt.Fprintf(&b, "Plan %d of %d: %s\n", pos.PlanNum, pos.TotalPlans, pos.Status)
		if pos.LastActivity != "" {
			fmt.Fprintf(&b, "Last activity: %s\n", pos.LastActivity)
		}
	}
	fmt.Fprintf(&b, "Progress: %s\n\n", state.RenderProgressBar(progress.CompletedPlans, progress.TotalPlans))

	rows := make([][]string, 0, len(progress.Phases))
	for _, ph := range progress.Phases {
		rows = append(rows, []string{
			fmt.Sprintf("%d. %s", ph.Number, ph.Name),
			fmt.Sprintf("%d/%d", ph.CompletedPlans, ph.TotalPlans),
			ph.Status,
			ph.CompletedDate,
		})
	}
	t := table.New().
		Headers("Phase", "Plans", "Status", "Completed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if !styled {
				return cellStyle
			}
			if row == table.HeaderRow {
				return headerStyle
			}
			switch progress.Phases[row].Status {
			case "Complete":
				return completeCell
			case "In progress":
				return activeCell
			default:
				return pendingCell
			}
		})
	if styled {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(lipgloss.NewStyle().Foreground(colorBorder))
	} else {
		t = t.Border(lipgloss.NormalBorder())
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}
