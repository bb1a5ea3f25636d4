// Package verify checks a phase's must-haves against the working tree and
// collects the output files agents were expected to write.
package verify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kingrea/gsd/internal/plans"
	"github.com/kingrea/gsd/internal/workflow"
)

// Substance grades how complete an artifact looks.
type Substance string

const (
	SubstanceStub        Substance = "STUB"
	SubstancePartial     Substance = "PARTIAL"
	SubstanceSubstantive Substance = "SUBSTANTIVE"
)

var stubMarkerRe = regexp.MustCompile(`(?i)\b(TODO|FIXME|XXX|HACK)\b|placeholder|not (yet )?implemented|coming soon`)

// SubstanceReport explains an artifact grade.
type SubstanceReport struct {
	Status         Substance
	Lines          int
	MinLines       int
	StubMarkers    []string
	MissingExports []string
}

// HasStubs reports whether any stub marker was found.
func (r SubstanceReport) HasStubs() bool {
	return len(r.StubMarkers) > 0
}

// Detail summarizes why an artifact is not substantive.
func (r SubstanceReport) Detail() string {
	var parts []string
	if r.Lines < r.MinLines {
		parts = append(parts, fmt.Sprintf("%d/%d lines", r.Lines, r.MinLines))
	}
	if len(r.MissingExports) > 0 {
		parts = append(parts, "missing "+strings.Join(r.MissingExports, ", "))
	}
	if len(r.StubMarkers) > 0 {
		parts = append(parts, "stub markers: "+strings.Join(r.StubMarkers, ", "))
	}
	return strings.Join(parts, "; ")
}

// ArtifactExists reports whether path is an existing file.
func ArtifactExists(path string) bool {
	return workflow.FileExists(path)
}

// ArtifactSubstance grades the file at path against a must-have artifact.
// Files shorter than MinLines are stubs; stub markers or missing exports make
// a file partial.
func ArtifactSubstance(path string, a plans.Artifact) (SubstanceReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SubstanceReport{}, fmt.Errorf("verify: read artifact: %w", err)
	}
	content := string(data)
	report := SubstanceReport{Lines: countLines(content), MinLines: max(a.MinLines, 1)}

	seen := map[string]bool{}
	for _, m := range stubMarkerRe.FindAllString(content, -1) {
		key := strings.ToLower(m)
		if !seen[key] {
			seen[key] = true
			report.StubMarkers = append(report.StubMarkers, m)
		}
	}
	for _, name := range a.Exports {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if !re.MatchString(content) {
			report.MissingExports = append(report.MissingExports, name)
		}
	}

	switch {
	case report.Lines < report.MinLines:
		report.Status = SubstanceStub
	case report.HasStubs() || len(report.MissingExports) > 0:
		report.Status = SubstancePartial
	default:
		report.Status = SubstanceSubstantive
	}
	return report, nil
}

// KeyLinkWired reports whether link.From, resolved against root, references
// its target. The link pattern is matched as a regular expression and falls
// back to a literal search when it does not compile. Without a pattern the
// target's base name is searched for. A missing From file is not wired.
func KeyLinkWired(root string, link plans.KeyLink) (bool, error) {
	data, err := os.ReadFile(filepath.Join(root, link.From))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("verify: read key link source: %w", err)
	}
	content := string(data)

	if link.Pattern == "" {
		target := strings.TrimSuffix(filepath.Base(link.To), filepath.Ext(link.To))
		return target != "" && strings.Contains(content, target), nil
	}
	re, err := regexp.Compile(link.Pattern)
	if err != nil {
		return strings.Contains(content, link.Pattern), nil
	}
	return re.MatchString(content), nil
}

// countLines counts lines, not counting a trailing newline as an extra one.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
