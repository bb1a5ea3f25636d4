package plans

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func planContent(wave int, extra string) string {
	return fmt.Sprintf("---\nphase: 07-execute\nwave: %d\n%s---\n\n# Plan\n", wave, extra)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "07-02-PLAN.md", planContent(1, "depends_on: []\n"))
	writeFile(t, dir, "07-01-PLAN.md", planContent(1, "files_modified: [src/a.js, src/b.js]\n"))
	writeFile(t, dir, "07-03-PLAN.md", planContent(2, "autonomous: false\ndepends_on: [07-01, 07-02]\n"))
	writeFile(t, dir, "07-01-SUMMARY.md", "done")
	writeFile(t, dir, "notes.md", "ignored")

	got, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got.Plans) != 3 || len(got.Completed) != 1 || len(got.Incomplete) != 2 {
		t.Fatalf("plans/completed/incomplete = %d/%d/%d", len(got.Plans), len(got.Completed), len(got.Incomplete))
	}
	if got.Completed[0].ID != "07-01" {
		t.Fatalf("completed id = %s, want 07-01", got.Completed[0].ID)
	}
	ids := []string{got.Plans[0].ID, got.Plans[1].ID, got.Plans[2].ID}
	if !reflect.DeepEqual(ids, []string{"07-01", "07-02", "07-03"}) {
		t.Fatalf("order = %v", ids)
	}
	third := got.Plans[2]
	if third.Wave != 2 || third.Autonomous || !reflect.DeepEqual(third.DependsOn, []string{"07-01", "07-02"}) {
		t.Fatalf("third plan = %+v", third)
	}
	if !got.Plans[1].Autonomous || got.Plans[1].Wave != 1 {
		t.Fatalf("defaults not applied: %+v", got.Plans[1])
	}
	if !reflect.DeepEqual(got.Plans[0].FilesModified, []string{"src/a.js", "src/b.js"}) {
		t.Fatalf("files modified = %v", got.Plans[0].FilesModified)
	}
}

func TestDiscoverErrors(t *testing.T) {
	empty := t.TempDir()
	_, err := Discover(empty)
	if !errors.Is(err, ErrNoPlans) || !strings.Contains(err.Error(), "No PLAN.md") {
		t.Fatalf("expected no-plans error, got %v", err)
	}

	_, err = Discover(filepath.Join(empty, "missing"))
	if !errors.Is(err, ErrPhaseDirMissing) || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing-dir error, got %v", err)
	}
}

func TestDiscoverPlanWithoutFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-01-PLAN.md", "# Just a body\n")
	got, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if p := got.Plans[0]; p.Wave != 1 || !p.Autonomous || p.Meta.MustHaves != nil {
		t.Fatalf("unexpected plan %+v", p)
	}
}

func TestCompletionStatus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "03-01-PLAN.md", "x")
	writeFile(t, dir, "03-02-PLAN.md", "x")
	writeFile(t, dir, "03-01-SUMMARY.md", "x")

	got, err := CompletionStatus(dir)
	if err != nil {
		t.Fatalf("CompletionStatus returned error: %v", err)
	}
	if got.TotalPlans != 2 || got.CompletedPlans != 1 || got.AllComplete {
		t.Fatalf("unexpected completion %+v", got)
	}
	if !reflect.DeepEqual(got.IncompletePlans, []string{"03-02"}) {
		t.Fatalf("incomplete = %v", got.IncompletePlans)
	}

	writeFile(t, dir, "03-02-SUMMARY.md", "x")
	got, _ = CompletionStatus(dir)
	if !got.AllComplete {
		t.Fatalf("expected all complete")
	}

	got, err = CompletionStatus(t.TempDir())
	if err != nil || got.AllComplete || got.TotalPlans != 0 {
		t.Fatalf("empty dir = %+v, %v", got, err)
	}
}

func TestParseMustHaves(t *testing.T) {
	if ParseMustHaves("---\nphase: 08\n---\n") != nil {
		t.Fatalf("expected nil without must_haves")
	}
	content := `---
phase: 08-verification
must_haves:
  truths:
    - "Parser works correctly"
  artifacts:
    - path: src/verify-work.js
      provides: verification helpers
      exports: [parseMustHaves, checkArtifactExists]
      min_lines: 50
  key_links:
    - from: src/verify-work.js
      to: src/output.js
      via: require
      pattern: "require.*output"
---
`
	mh := ParseMustHaves(content)
	if mh == nil {
		t.Fatalf("must_haves not parsed")
	}
	if !reflect.DeepEqual(mh.Truths, []string{"Parser works correctly"}) {
		t.Fatalf("truths = %v", mh.Truths)
	}
	want := Artifact{
		Path:     "src/verify-work.js",
		Provides: "verification helpers",
		Exports:  []string{"parseMustHaves", "checkArtifactExists"},
		MinLines: 50,
	}
	if len(mh.Artifacts) != 1 || !reflect.DeepEqual(mh.Artifacts[0], want) {
		t.Fatalf("artifacts = %+v", mh.Artifacts)
	}
	link := KeyLink{From: "src/verify-work.js", To: "src/output.js", Via: "require", Pattern: "require.*output"}
	if len(mh.KeyLinks) != 1 || mh.KeyLinks[0] != link {
		t.Fatalf("key_links = %+v", mh.KeyLinks)
	}

	empty := ParseMustHaves("---\nmust_haves:\n---\n")
	if empty == nil || len(empty.Truths) != 0 || len(empty.Artifacts) != 0 {
		t.Fatalf("present but empty must_haves = %+v", empty)
	}
}
