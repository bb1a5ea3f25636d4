package workflow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeCreatesTree(t *testing.T) {
	project := t.TempDir()
	wf := ForProject(project)
	if err := wf.Initialize(); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	for _, dir := range []string{wf.Dir(), wf.PhasesDir(), wf.DebugDir(), wf.LogsDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
	if wf.ProjectDir() != project {
		t.Fatalf("ProjectDir = %s, want %s", wf.ProjectDir(), project)
	}
	if err := wf.Initialize(); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}
}

func TestEnsurePhaseDirAndFind(t *testing.T) {
	wf := ForProject(t.TempDir())
	dir, err := wf.EnsurePhaseDir(1, "Test Phase")
	if err != nil {
		t.Fatalf("EnsurePhaseDir returned error: %v", err)
	}
	if filepath.Base(dir) != "01-test-phase" {
		t.Fatalf("phase dir = %s, want 01-test-phase", filepath.Base(dir))
	}
	found, err := wf.FindPhaseDir(1)
	if err != nil || found != dir {
		t.Fatalf("FindPhaseDir = %s, %v; want %s", found, err, dir)
	}
	if _, err := wf.FindPhaseDir(9); err == nil {
		t.Fatalf("expected error for a missing phase")
	}
}

func TestNaming(t *testing.T) {
	if got := PlanFileName(7, 1); got != "07-01-PLAN.md" {
		t.Fatalf("PlanFileName = %s", got)
	}
	if id, ok := PlanIDFromFile("07-02-PLAN.md"); !ok || id != "07-02" {
		t.Fatalf("PlanIDFromFile = %s, %v", id, ok)
	}
	if _, ok := PlanIDFromFile("07-02-SUMMARY.md"); ok {
		t.Fatalf("summary file should not yield a plan id")
	}
	if n, ok := PhaseNumber("08-verification-polish"); !ok || n != 8 {
		t.Fatalf("PhaseNumber = %d, %v", n, ok)
	}
	if got := Slugify("  Verification & Polish!"); got != "verification-polish" {
		t.Fatalf("Slugify = %q", got)
	}
	files := ExpectedPlanFiles("/p/06-x", 6)
	if filepath.Base(files.Research) != "06-RESEARCH.md" ||
		filepath.Base(files.PlansDone) != "06-PLANS-DONE.md" ||
		filepath.Base(files.Check) != "06-CHECK.md" {
		t.Fatalf("unexpected expected files %+v", files)
	}
	wf := New("/p/.planning")
	if wf.DebugSessionPath("login-bug") != filepath.Join("/p/.planning", "debug", "DEBUG-login-bug.md") {
		t.Fatalf("DebugSessionPath = %s", wf.DebugSessionPath("login-bug"))
	}
}
