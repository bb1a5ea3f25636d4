package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kingrea/gsd/internal/plans"
	"github.com/kingrea/gsd/internal/render"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func numbered(n int, format string) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, format+"\n", i, i)
	}
	return b.String()
}

func TestArtifactExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.go")
	writeFile(t, path, "package x\n")
	if !ArtifactExists(path) {
		t.Fatalf("existing file reported missing")
	}
	if ArtifactExists(filepath.Join(dir, "missing.go")) || ArtifactExists(dir) {
		t.Fatalf("missing file or directory reported as artifact")
	}
}

func TestArtifactSubstance(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name     string
		content  string
		artifact plans.Artifact
		want     Substance
		missing  []string
		stubs    bool
	}{
		{
			name:     "substantive",
			content:  numbered(25, "func Fn%d() int { return %d }"),
			artifact: plans.Artifact{MinLines: 10, Exports: []string{"Fn0", "Fn1"}},
			want:     SubstanceSubstantive,
		},
		{
			name:     "stub",
			content:  "// TODO: implement\nfunc stub() {}\n// placeholder\n",
			artifact: plans.Artifact{MinLines: 10},
			want:     SubstanceStub,
			stubs:    true,
		},
		{
			name:     "missing export",
			content:  numbered(20, "func internal%d() int { return %d }"),
			artifact: plans.Artifact{MinLines: 10, Exports: []string{"MissingExport"}},
			want:     SubstancePartial,
			missing:  []string{"MissingExport"},
		},
		{
			name:     "long file with marker",
			content:  numbered(30, "func F%d() int { return %d }") + "// FIXME: edge case\n",
			artifact: plans.Artifact{MinLines: 10},
			want:     SubstancePartial,
			stubs:    true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".go")
			writeFile(t, path, tc.content)
			got, err := ArtifactSubstance(path, tc.artifact)
			if err != nil {
				t.Fatalf("ArtifactSubstance returned error: %v", err)
			}
			if got.Status != tc.want {
				t.Fatalf("status = %s, want %s (%+v)", got.Status, tc.want, got)
			}
			if !reflect.DeepEqual(got.MissingExports, tc.missing) {
				t.Fatalf("missing exports = %v, want %v", got.MissingExports, tc.missing)
			}
			if got.HasStubs() != tc.stubs {
				t.Fatalf("HasStubs = %v, want %v", got.HasStubs(), tc.stubs)
			}
		})
	}

	if _, err := ArtifactSubstance(filepath.Join(dir, "nope.go"), plans.Artifact{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestKeyLinkWired(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cmd/main.go"), "import \"example.com/app/internal/upstream\"\n")

	cases := []struct {
		name string
		link plans.KeyLink
		want bool
	}{
		{"regexp", plans.KeyLink{From: "cmd/main.go", To: "internal/upstream/upstream.go", Pattern: `import.*upstream`}, true},
		{"regexp miss", plans.KeyLink{From: "cmd/main.go", Pattern: `import.*platform`}, false},
		{"invalid regexp literal", plans.KeyLink{From: "cmd/main.go", Pattern: `upstream"(`}, false},
		{"no pattern uses target name", plans.KeyLink{From: "cmd/main.go", To: "internal/upstream/upstream.go"}, true},
		{"missing source", plans.KeyLink{From: "cmd/other.go", Pattern: "x"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := KeyLinkWired(root, tc.link)
			if err != nil {
				t.Fatalf("KeyLinkWired returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("KeyLinkWired = %v, want %v", got, tc.want)
			}
		})
	}
}

const planWithMustHaves = `---
phase: 08-verification
plan: 01
wave: 1
must_haves:
  truths:
    - "Versions compare correctly"
  artifacts:
    - path: "internal/upstream/upstream.go"
      provides: "version comparison"
      exports: ["Compare"]
      min_lines: 5
    - path: "internal/missing/missing.go"
      provides: "nothing yet"
  key_links:
    - from: "cmd/main.go"
      to: "internal/upstream/upstream.go"
      via: "import"
      pattern: "upstream"
---

# Plan
`

func TestPhase(t *testing.T) {
	root := t.TempDir()
	phaseDir := filepath.Join(root, ".planning", "phases", "08-verification")
	writeFile(t, filepath.Join(phaseDir, "08-01-PLAN.md"), planWithMustHaves)
	writeFile(t, filepath.Join(phaseDir, "08-02-PLAN.md"), "---\nwave: 2\n---\n")
	writeFile(t, filepath.Join(root, "internal/upstream/upstream.go"), numbered(6, "var v%d = %d")+"func Compare() {}\n")
	writeFile(t, filepath.Join(root, "cmd/main.go"), "import \"x/internal/upstream\"\n")

	data, err := Phase(root, phaseDir, PhaseOptions{PhaseName: "Verification", Created: "2026-02-06"})
	if err != nil {
		t.Fatalf("Phase returned error: %v", err)
	}
	if data.Phase != "08-verification" || len(data.Plans) != 2 {
		t.Fatalf("data = %+v", data)
	}
	first := data.Plans[0]
	if len(first.Truths) != 1 || first.Truths[0].Status != render.CheckSkip {
		t.Fatalf("truths = %+v", first.Truths)
	}
	if len(first.Artifacts) != 2 {
		t.Fatalf("artifacts = %+v", first.Artifacts)
	}
	if a := first.Artifacts[0]; !a.Exists || a.Substance != string(SubstanceSubstantive) || !a.Wired || a.Status != render.CheckPass {
		t.Fatalf("first artifact = %+v", a)
	}
	if a := first.Artifacts[1]; a.Exists || a.Status != render.CheckFail {
		t.Fatalf("missing artifact = %+v", a)
	}
	if len(first.KeyLinks) != 1 || first.KeyLinks[0].Status != render.CheckPass {
		t.Fatalf("key links = %+v", first.KeyLinks)
	}
	if len(data.Plans[1].Artifacts) != 0 {
		t.Fatalf("plan without must-haves produced checks")
	}

	sum := data.Tally()
	if sum.Total != 4 || sum.Passed != 2 || sum.Failed != 1 || sum.Skipped != 1 {
		t.Fatalf("tally = %+v", sum)
	}
	if !strings.Contains(render.Verification(data), "status: fail") {
		t.Fatalf("report should fail with a missing artifact")
	}

	if _, err := Phase(root, filepath.Join(root, "nope"), PhaseOptions{}); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected does-not-exist error, got %v", err)
	}
}

func TestOutputsAndReport(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "06-RESEARCH.md")
	writeFile(t, present, "# Research\n\nfindings\n")
	missing := filepath.Join(dir, "06-CHECK.md")

	outputs, err := Outputs(context.Background(), []string{present, missing})
	if err != nil {
		t.Fatalf("Outputs returned error: %v", err)
	}
	if !outputs[0].Exists || outputs[0].Lines != 3 || outputs[0].Bytes != int64(len("# Research\n\nfindings\n")) {
		t.Fatalf("present output = %+v", outputs[0])
	}
	if outputs[1].Exists || outputs[1].Path != missing {
		t.Fatalf("missing output = %+v", outputs[1])
	}

	report := Report(outputs)
	if report.Total != 2 || report.Found != 1 || report.Missing != 1 {
		t.Fatalf("report = %+v", report)
	}
	want := "Agent Output Summary:\n- " + present + ": OK (3 lines)\n- " + missing + ": MISSING\nFound: 1/2 outputs"
	if report.Text != want {
		t.Fatalf("report text =\n%s\nwant\n%s", report.Text, want)
	}
}

func TestOutputsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Outputs(ctx, []string{"a", "b"}); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}
