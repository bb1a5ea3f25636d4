package markdown

import (
	"strings"
	"testing"
)

const stateDoc = `# Project State

## Project Reference

**Current focus:** Phase 2 - Infrastructure

## Current Position

Phase: 2 of 3 (Infrastructure)
Plan: 1 of 2 in current phase

### Notes

nested heading stays in the body

## Session Continuity

Last session: 2026-01-01
`

func TestSplitSections(t *testing.T) {
	sections := SplitSections(stateDoc, 2)
	if got := sections[Preamble]; got != "# Project State" {
		t.Fatalf("preamble = %q", got)
	}
	pos, ok := sections.Get("Current Position")
	if !ok {
		t.Fatalf("Current Position missing")
	}
	if !strings.HasPrefix(pos, "Phase: 2 of 3") || !strings.Contains(pos, "### Notes") {
		t.Fatalf("Current Position body = %q", pos)
	}
	if got := sections["Session Continuity"]; got != "Last session: 2026-01-01" {
		t.Fatalf("Session Continuity = %q", got)
	}
	if len(sections) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(sections))
	}
}

func TestSplitSectionsWithoutHeadings(t *testing.T) {
	sections := SplitSections("\n\nJust some text\n\n", 2)
	if len(sections) != 1 || sections[Preamble] != "Just some text" {
		t.Fatalf("unexpected sections %#v", sections)
	}
}

func TestSplitSectionsDuplicateHeadingLastWins(t *testing.T) {
	sections := SplitSections("## A\nfirst\n## A\nsecond\n", 2)
	if sections["A"] != "second" {
		t.Fatalf("A = %q, want second", sections["A"])
	}
}

func TestSplitSectionsIgnoresFencedHeadings(t *testing.T) {
	doc := "## Real\n```\n## Fake\n```\ntext\n"
	sections := SplitSections(doc, 2)
	if _, ok := sections["Fake"]; ok {
		t.Fatalf("fenced heading was split")
	}
	if !strings.Contains(sections["Real"], "## Fake") {
		t.Fatalf("Real body = %q", sections["Real"])
	}
}

func TestReplaceSectionBodyIsolatesOtherSections(t *testing.T) {
	before := SplitSections(stateDoc, 2)
	out, ok := ReplaceSectionBody(stateDoc, "Session Continuity", 2, "Last session: 2026-02-02\nStopped at: plan 2")
	if !ok {
		t.Fatalf("section not found")
	}
	after := SplitSections(out, 2)
	for name, body := range before {
		if name == "Session Continuity" {
			continue
		}
		if after[name] != body {
			t.Fatalf("section %q changed: %q -> %q", name, body, after[name])
		}
	}
	if after["Session Continuity"] != "Last session: 2026-02-02\nStopped at: plan 2" {
		t.Fatalf("new body = %q", after["Session Continuity"])
	}
	if !strings.HasPrefix(out, stateDoc[:strings.Index(stateDoc, "## Session Continuity")]) {
		t.Fatalf("bytes before the section changed")
	}
}

func TestReplaceSectionBodyIdempotent(t *testing.T) {
	once, _ := ReplaceSectionBody(stateDoc, "Project Reference", 2, "**Current focus:** Phase 3")
	twice, _ := ReplaceSectionBody(once, "Project Reference", 2, "**Current focus:** Phase 3")
	if once != twice {
		t.Fatalf("second replace changed the document:\n%s\n---\n%s", once, twice)
	}
}

func TestReplaceSectionBodyMissing(t *testing.T) {
	out, ok := ReplaceSectionBody(stateDoc, "Nope", 2, "x")
	if ok || out != stateDoc {
		t.Fatalf("expected unchanged document and ok=false")
	}
}

func TestAppendToSection(t *testing.T) {
	doc := "## Eliminated\n\nfirst\n\n## Evidence\n\nseen\n"
	out, ok := AppendToSection(doc, "Eliminated", 2, "second")
	if !ok {
		t.Fatalf("section not found")
	}
	want := "## Eliminated\n\nfirst\n\nsecond\n\n## Evidence\n\nseen\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	out, _ = AppendToSection(out, "Evidence", 2, "more")
	if !strings.HasSuffix(out, "seen\n\nmore\n") {
		t.Fatalf("append at end = %q", out)
	}
}

func TestParseKeyValues(t *testing.T) {
	body := "hypothesis: cache is stale\ntest:\nnext_action: restart\nhypothesis: ignored\n  expecting: indented\n"
	kv := ParseKeyValues(body, "hypothesis", "test", "expecting", "next_action")
	if kv["hypothesis"] != "cache is stale" {
		t.Fatalf("hypothesis = %q", kv["hypothesis"])
	}
	if v, ok := kv.Lookup("test"); !ok || v != "" {
		t.Fatalf("test = %q, %v; want present and empty", v, ok)
	}
	if _, ok := kv.Lookup("expecting"); ok {
		t.Fatalf("indented key should not match")
	}
	if kv.Get("missing", "(none)") != "(none)" {
		t.Fatalf("Get default not applied")
	}
}

func TestReplaceKeyValue(t *testing.T) {
	body := "root_cause: (pending)\nfix: (pending)\r\n"
	out := ReplaceKeyValue(body, "fix", "bump timeout")
	if out != "root_cause: (pending)\nfix: bump timeout\r\n" {
		t.Fatalf("got %q", out)
	}
	if got := ReplaceKeyValue(body, "missing", "x"); got != body {
		t.Fatalf("absent key changed body")
	}
	if got := ReplaceKeyValue(body, "fix", "(pending)"); got != body {
		t.Fatalf("same value should be a no-op")
	}
}

func TestReplacePrefixedLine(t *testing.T) {
	out, ok := ReplacePrefixedLine(stateDoc, "**Current focus:**", "**Current focus:** Phase 3 - Polish")
	if !ok || !strings.Contains(out, "**Current focus:** Phase 3 - Polish\n") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, ok := ReplacePrefixedLine(stateDoc, "Nope:", "x"); ok {
		t.Fatalf("expected no match")
	}
}
