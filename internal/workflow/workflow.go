// internal/workflow/workflow.go
//
// Defines the .planning directory structure and file naming conventions.
// Every document the assistant reads or writes lives under .planning/ so the
// whole planning state can be committed alongside the code.

package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PlanningDir is the project-local root for all planning state.
const PlanningDir = ".planning"

// Directory names within .planning/
const (
	PhasesDir = "phases"
	DebugDir  = "debug"
	LogsDir   = "logs"
)

// Top-level planning documents
const (
	FileState        = "STATE.md"
	FileRoadmap      = "ROADMAP.md"
	FileProject      = "PROJECT.md"
	FileRequirements = "REQUIREMENTS.md"
	FileConfig       = "config.json"
)

// Per-plan and per-phase document suffixes. Plans are {phase}-{plan}-PLAN.md
// and their companions share the {phase}-{plan} prefix.
const (
	SuffixPlan         = "-PLAN.md"
	SuffixSummary      = "-SUMMARY.md"
	SuffixResearch     = "-RESEARCH.md"
	SuffixPlansDone    = "-PLANS-DONE.md"
	SuffixCheck        = "-CHECK.md"
	SuffixContext      = "-CONTEXT.md"
	SuffixUAT          = "-UAT.md"
	SuffixVerification = "-VERIFICATION.md"
)

// DebugPrefix starts every debug session file name: DEBUG-{slug}.md.
const DebugPrefix = "DEBUG-"

// Workflow manages the .planning directory structure
type Workflow struct {
	// Base path to the .planning directory
	planningDir string
}

// New creates a Workflow rooted at planningDir (usually <project>/.planning).
func New(planningDir string) *Workflow {
	return &Workflow{planningDir: planningDir}
}

// ForProject creates a Workflow for the .planning directory inside projectDir.
func ForProject(projectDir string) *Workflow {
	return New(filepath.Join(projectDir, PlanningDir))
}

// Dir returns the .planning directory path
func (w *Workflow) Dir() string {
	return w.planningDir
}

// ProjectDir returns the directory containing .planning
func (w *Workflow) ProjectDir() string {
	return filepath.Dir(w.planningDir)
}

// StatePath returns the path to STATE.md
func (w *Workflow) StatePath() string {
	return filepath.Join(w.planningDir, FileState)
}

// RoadmapPath returns the path to ROADMAP.md
func (w *Workflow) RoadmapPath() string {
	return filepath.Join(w.planningDir, FileRoadmap)
}

// ProjectPath returns the path to PROJECT.md
func (w *Workflow) ProjectPath() string {
	return filepath.Join(w.planningDir, FileProject)
}

// RequirementsPath returns the path to REQUIREMENTS.md
func (w *Workflow) RequirementsPath() string {
	return filepath.Join(w.planningDir, FileRequirements)
}

// ConfigPath returns the path to config.json
func (w *Workflow) ConfigPath() string {
	return filepath.Join(w.planningDir, FileConfig)
}

// PhasesDir returns the path to phases/
func (w *Workflow) PhasesDir() string {
	return filepath.Join(w.planningDir, PhasesDir)
}

// DebugDir returns the path to debug/
func (w *Workflow) DebugDir() string {
	return filepath.Join(w.planningDir, DebugDir)
}

// LogsDir returns the path to logs/
func (w *Workflow) LogsDir() string {
	return filepath.Join(w.planningDir, LogsDir)
}

// DebugSessionPath returns the path to DEBUG-{slug}.md
func (w *Workflow) DebugSessionPath(slug string) string {
	return filepath.Join(w.DebugDir(), DebugPrefix+slug+".md")
}

// Initialize creates the planning directory structure
func (w *Workflow) Initialize() error {
	dirs := []string{
		w.Dir(),
		w.PhasesDir(),
		w.DebugDir(),
		w.LogsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// EnsurePhaseDir creates phases/NN-slug for the phase and returns its path.
func (w *Workflow) EnsurePhaseDir(num int, name string) (string, error) {
	dir := filepath.Join(w.PhasesDir(), PhasePrefix(num)+"-"+Slugify(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// FindPhaseDir locates the existing phases/NN-* directory for a phase.
func (w *Workflow) FindPhaseDir(num int) (string, error) {
	entries, err := os.ReadDir(w.PhasesDir())
	if err != nil {
		return "", fmt.Errorf("workflow: read phases: %w", err)
	}
	prefix := PhasePrefix(num) + "-"
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("workflow: phase %d directory not found in %s", num, w.PhasesDir())
	}
	sort.Strings(names)
	return filepath.Join(w.PhasesDir(), names[0]), nil
}

// PhasePrefix zero-pads a phase or plan number to two digits.
func PhasePrefix(num int) string {
	return fmt.Sprintf("%02d", num)
}

// PlanID returns the {phase}-{plan} identifier, e.g. "07-01".
func PlanID(phase, plan int) string {
	return PhasePrefix(phase) + "-" + PhasePrefix(plan)
}

// PlanFileName returns the plan document name for a phase and plan number.
func PlanFileName(phase, plan int) string {
	return PlanID(phase, plan) + SuffixPlan
}

// PlanIDFromFile strips the -PLAN.md suffix from a plan file name.
func PlanIDFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, SuffixPlan) {
		return "", false
	}
	return strings.TrimSuffix(name, SuffixPlan), true
}

// PhaseNumber extracts the leading number of a phase directory or slug such as
// "08-verification".
func PhaseNumber(phase string) (int, bool) {
	head, _, _ := strings.Cut(filepath.Base(phase), "-")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return n, true
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its words with hyphens.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// ExpectedFiles lists the documents a phase produces during planning.
type ExpectedFiles struct {
	Research  string
	PlansDone string
	Check     string
}

// ExpectedPlanFiles returns the planning outputs for a phase directory.
func ExpectedPlanFiles(phaseDir string, phase int) ExpectedFiles {
	prefix := PhasePrefix(phase)
	return ExpectedFiles{
		Research:  filepath.Join(phaseDir, prefix+SuffixResearch),
		PlansDone: filepath.Join(phaseDir, prefix+SuffixPlansDone),
		Check:     filepath.Join(phaseDir, prefix+SuffixCheck),
	}
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
