package frontmatter

import (
	"errors"
	"reflect"
	"testing"
)

const planDoc = `---
phase: 07-execute
plan: 01
type: execute
wave: 2
depends_on: ["07-00"]
files_modified:
  - src/execute-phase.js
  - "test/execute-phase.test.js"
autonomous: false
# comment lines are ignored

must_haves:
  truths:
    - "Plans are discovered in order"
  artifacts:
    - path: src/execute-phase.js
      provides: plan discovery
      exports: [discoverPlans, groupByWave]
      min_lines: 40
    - path: src/other.js
      provides: "other: thing"
  key_links:
    - from: src/cli.js
      to: src/execute-phase.js
      via: require
      pattern: "require\\(.*execute-phase"
---

# Plan body
`

func TestParse(t *testing.T) {
	doc, err := Parse(planDoc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	f := doc.Fields
	if f.String("phase") != "07-execute" {
		t.Fatalf("phase = %q", f.String("phase"))
	}
	if f.Int("plan", 0) != 1 || f.String("plan") != "01" {
		t.Fatalf("plan = %d / %q", f.Int("plan", 0), f.String("plan"))
	}
	if f.Int("wave", 1) != 2 {
		t.Fatalf("wave = %d, want 2", f.Int("wave", 1))
	}
	if f.Bool("autonomous", true) {
		t.Fatalf("autonomous should be false")
	}
	if got := f.Strings("depends_on"); !reflect.DeepEqual(got, []string{"07-00"}) {
		t.Fatalf("depends_on = %v", got)
	}
	want := []string{"src/execute-phase.js", "test/execute-phase.test.js"}
	if got := f.Strings("files_modified"); !reflect.DeepEqual(got, want) {
		t.Fatalf("files_modified = %v, want %v", got, want)
	}
	if doc.Body != "\n# Plan body\n" {
		t.Fatalf("body = %q", doc.Body)
	}
}

func TestParseNestedRecords(t *testing.T) {
	f := Fields(planDoc)
	mh, ok := f.Map("must_haves")
	if !ok {
		t.Fatalf("must_haves missing")
	}
	if got := mh.Strings("truths"); !reflect.DeepEqual(got, []string{"Plans are discovered in order"}) {
		t.Fatalf("truths = %v", got)
	}
	artifacts := mh.Records("artifacts")
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].String("path") != "src/execute-phase.js" || artifacts[0].Int("min_lines", 0) != 40 {
		t.Fatalf("artifact[0] = %#v", artifacts[0])
	}
	if got := artifacts[0].Strings("exports"); !reflect.DeepEqual(got, []string{"discoverPlans", "groupByWave"}) {
		t.Fatalf("exports = %v", got)
	}
	if artifacts[1].String("provides") != "other: thing" {
		t.Fatalf("quoted provides = %q", artifacts[1].String("provides"))
	}
	links := mh.Records("key_links")
	if len(links) != 1 || links[0].String("via") != "require" {
		t.Fatalf("key_links = %#v", links)
	}
	if links[0].String("pattern") != `require\\(.*execute-phase` {
		t.Fatalf("pattern = %q", links[0].String("pattern"))
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("# No frontmatter\n"); !errors.Is(err, ErrMissingFrontMatter) {
		t.Fatalf("expected ErrMissingFrontMatter, got %v", err)
	}
	if _, err := Parse("---\nstatus: open\n"); !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected ErrMalformedFrontMatter, got %v", err)
	}
	if Fields("plain text") != nil {
		t.Fatalf("Fields should be nil without frontmatter")
	}
}

func TestParseScalarsAndEmptyValues(t *testing.T) {
	f := Fields("---\r\ntrigger: Error: boom\r\ncount: -3\r\nempty:\r\nnone: []\r\nquoted: \"42\"\r\n---\r\n")
	if f.String("trigger") != "Error: boom" {
		t.Fatalf("trigger = %q", f.String("trigger"))
	}
	if f.Int("count", 0) != -3 {
		t.Fatalf("count = %d", f.Int("count", 0))
	}
	if v, ok := f.Lookup("empty"); !ok || v.Kind != KindString || v.Str != "" {
		t.Fatalf("empty = %#v, %v", v, ok)
	}
	if v, ok := f.Lookup("none"); !ok || v.Kind != KindList || len(v.List) != 0 {
		t.Fatalf("none = %#v", v)
	}
	if v := f["quoted"]; v.Kind != KindString || v.Str != "42" {
		t.Fatalf("quoted = %#v", v)
	}
	if f.Has("absent") || f.Strings("absent") != nil {
		t.Fatalf("absent key should not resolve")
	}
}

func TestReplaceField(t *testing.T) {
	doc := "---\nstatus: gathering\nupdated: 2026-01-01\nnested:\n  status: keep\n---\n\nstatus: body line\n"
	out := ReplaceField(doc, "status", "investigating")
	want := "---\nstatus: investigating\nupdated: 2026-01-01\nnested:\n  status: keep\n---\n\nstatus: body line\n"
	if out != want {
		t.Fatalf("got %q", out)
	}
	if got := ReplaceField(doc, "missing", "x"); got != doc {
		t.Fatalf("absent key should leave the document unchanged")
	}
	if got := ReplaceField("no block\nstatus: x\n", "status", "y"); got != "no block\nstatus: x\n" {
		t.Fatalf("document without frontmatter changed: %q", got)
	}
	if again := ReplaceField(out, "status", "investigating"); again != out {
		t.Fatalf("replace is not idempotent")
	}
}

func TestEncodeHelpers(t *testing.T) {
	if InlineList(nil) != "[]" || InlineList([]string{"a", "b"}) != "[a, b]" {
		t.Fatalf("InlineList mismatch")
	}
	if BlockList(nil, 2) != " []" {
		t.Fatalf("empty BlockList = %q", BlockList(nil, 2))
	}
	if got := BlockList([]string{"x"}, 4); got != "\n    - \"x\"" {
		t.Fatalf("BlockList = %q", got)
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	items := []string{`Use "atomic" writes`, "plain", `a, "b, c"`}
	if got := Quote(items[0]); got != `"Use \"atomic\" writes"` {
		t.Fatalf("Quote = %s", got)
	}
	doc := "---\nblock:" + BlockList(items, 2) + "\ninline: [" + Quote(items[2]) + ", " + Quote(items[1]) + "]\n---\n"
	f := Fields(doc)
	if got := f.Strings("block"); !reflect.DeepEqual(got, items) {
		t.Fatalf("block = %q, want %q", got, items)
	}
	if got := f.Strings("inline"); !reflect.DeepEqual(got, []string{items[2], items[1]}) {
		t.Fatalf("inline = %q", got)
	}
}

func TestRawKeepsInlineText(t *testing.T) {
	f := Fields("---\ntrigger: [prod] login fails\nquoted: \"x\"\nlist: []\nblock:\n  - a\n---\n")
	cases := map[string]string{
		"trigger": "[prod] login fails",
		"quoted":  `"x"`,
		"list":    "[]",
		"block":   "",
		"absent":  "",
	}
	for key, want := range cases {
		if got := f.Raw(key); got != want {
			t.Fatalf("Raw(%q) = %q, want %q", key, got, want)
		}
	}
	if f.String("quoted") != "x" {
		t.Fatalf("String(quoted) = %q", f.String("quoted"))
	}
}
