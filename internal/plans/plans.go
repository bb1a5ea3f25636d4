// Package plans discovers the plan documents of a phase and reads their
// frontmatter. Completion is derived from the presence of a companion
// SUMMARY.md sharing the plan's identifier; plan documents never record it.
package plans

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/gsd/internal/workflow"
)

var (
	// ErrPhaseDirMissing indicates the phase directory does not exist.
	ErrPhaseDirMissing = errors.New("Phase directory does not exist")
	// ErrNoPlans indicates the phase directory holds no plan documents.
	ErrNoPlans = errors.New("No PLAN.md files found")
)

// Plan is one plan document and its derived completion state.
type Plan struct {
	ID            string
	File          string
	Path          string
	Wave          int
	Autonomous    bool
	DependsOn     []string
	FilesModified []string
	IsComplete    bool
	Meta          Meta
}

// WaveNumber returns the plan's wave.
func (p Plan) WaveNumber() int {
	return p.Wave
}

// Discovery is the result of scanning a phase directory.
type Discovery struct {
	Plans      []Plan
	Completed  []Plan
	Incomplete []Plan
}

// Discover lists the plan documents in phaseDir in file name order, parses
// their frontmatter, and marks the ones with a matching summary as complete.
func Discover(phaseDir string) (Discovery, error) {
	names, err := readNames(phaseDir)
	if err != nil {
		return Discovery{}, err
	}
	planFiles, summaries := partition(names)
	if len(planFiles) == 0 {
		return Discovery{}, fmt.Errorf("plans: %w in %s", ErrNoPlans, phaseDir)
	}

	var out Discovery
	for _, file := range planFiles {
		path := filepath.Join(phaseDir, file)
		content, err := os.ReadFile(path)
		if err != nil {
			return Discovery{}, fmt.Errorf("plans: read %s: %w", file, err)
		}
		id, _ := workflow.PlanIDFromFile(file)
		meta := ParseMeta(string(content))
		plan := Plan{
			ID:            id,
			File:          file,
			Path:          path,
			Wave:          meta.Wave,
			Autonomous:    meta.Autonomous,
			DependsOn:     meta.DependsOn,
			FilesModified: meta.FilesModified,
			IsComplete:    summaries[id],
			Meta:          meta,
		}
		out.Plans = append(out.Plans, plan)
		if plan.IsComplete {
			out.Completed = append(out.Completed, plan)
		} else {
			out.Incomplete = append(out.Incomplete, plan)
		}
	}
	return out, nil
}

// Completion summarises how many plans of a phase have summaries.
type Completion struct {
	TotalPlans      int
	CompletedPlans  int
	AllComplete     bool
	IncompletePlans []string
}

// CompletionStatus counts plan and summary files without parsing either.
// AllComplete requires at least one plan.
func CompletionStatus(phaseDir string) (Completion, error) {
	names, err := readNames(phaseDir)
	if err != nil {
		return Completion{}, err
	}
	planFiles, summaries := partition(names)
	out := Completion{TotalPlans: len(planFiles)}
	for _, file := range planFiles {
		id, _ := workflow.PlanIDFromFile(file)
		if summaries[id] {
			out.CompletedPlans++
			continue
		}
		out.IncompletePlans = append(out.IncompletePlans, id)
	}
	out.AllComplete = out.TotalPlans > 0 && out.CompletedPlans == out.TotalPlans
	return out, nil
}

func readNames(phaseDir string) ([]string, error) {
	entries, err := os.ReadDir(phaseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("plans: %w: %s", ErrPhaseDirMissing, phaseDir)
		}
		return nil, fmt.Errorf("plans: read %s: %w", phaseDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// partition returns sorted plan file names and the set of ids with summaries.
func partition(names []string) ([]string, map[string]bool) {
	var planFiles []string
	summaries := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, workflow.SuffixPlan):
			planFiles = append(planFiles, name)
		case strings.HasSuffix(name, workflow.SuffixSummary):
			summaries[strings.TrimSuffix(name, workflow.SuffixSummary)] = true
		}
	}
	sort.Strings(planFiles)
	return planFiles, summaries
}
