// Package debug manages persistent debug session files under .planning/debug.
//
// A session records a scientific-method investigation: symptoms, the current
// hypothesis, eliminated hypotheses, evidence and the final resolution. The
// Eliminated and Evidence sections only ever grow; Apply is the sole mutation
// path for them.
package debug

import (
	"fmt"
	"strings"

	"github.com/kingrea/gsd/internal/frontmatter"
	"github.com/kingrea/gsd/internal/markdown"
)

// Status is the lifecycle stage of a debug session.
type Status string

const (
	StatusGathering     Status = "gathering"
	StatusInvestigating Status = "investigating"
	StatusFixing        Status = "fixing"
	StatusVerifying     Status = "verifying"
	StatusResolved      Status = "resolved"
)

var statusRank = map[Status]int{
	StatusGathering:     0,
	StatusInvestigating: 1,
	StatusFixing:        2,
	StatusVerifying:     3,
	StatusResolved:      4,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusResolved
}

// Section headings, in file order.
const (
	SectionFocus      = "Current Focus"
	SectionSymptoms   = "Symptoms"
	SectionEliminated = "Eliminated"
	SectionEvidence   = "Evidence"
	SectionResolution = "Resolution"
)

// Placeholder text written for unset fields.
const (
	PlaceholderFocus      = "(none yet)"
	PlaceholderNextAction = "Gather symptoms"
	PlaceholderSymptom    = "(to be filled)"
	PlaceholderResolution = "(pending)"
	PlaceholderEliminated = "(append-only -- hypotheses disproven with evidence)"
	PlaceholderEvidence   = "(append-only -- findings with implications)"
)

const titlePrefix = "# Debug: "

// Focus is the Current Focus section.
type Focus struct {
	Hypothesis string
	Test       string
	Expecting  string
	NextAction string
}

func (f *Focus) fields() []field {
	return []field{
		{"hypothesis", &f.Hypothesis, PlaceholderFocus},
		{"test", &f.Test, PlaceholderFocus},
		{"expecting", &f.Expecting, PlaceholderFocus},
		{"next_action", &f.NextAction, PlaceholderNextAction},
	}
}

// Symptoms is the Symptoms section.
type Symptoms struct {
	Expected     string
	Actual       string
	Errors       string
	Reproduction string
	Started      string
}

func (s *Symptoms) fields() []field {
	return []field{
		{"expected", &s.Expected, PlaceholderSymptom},
		{"actual", &s.Actual, PlaceholderSymptom},
		{"errors", &s.Errors, PlaceholderSymptom},
		{"reproduction", &s.Reproduction, PlaceholderSymptom},
		{"started", &s.Started, PlaceholderSymptom},
	}
}

// Filled reports whether the symptoms have been recorded.
func (s Symptoms) Filled() bool {
	return s.Expected != "" && s.Expected != PlaceholderSymptom
}

// Resolution is the Resolution section.
type Resolution struct {
	RootCause    string
	Fix          string
	Verification string
	FilesChanged string
}

func (r *Resolution) fields() []field {
	return []field{
		{"root_cause", &r.RootCause, PlaceholderResolution},
		{"fix", &r.Fix, PlaceholderResolution},
		{"verification", &r.Verification, PlaceholderResolution},
		{"files_changed", &r.FilesChanged, PlaceholderResolution},
	}
}

// field binds a section key to a struct field and its placeholder.
type field struct {
	key         string
	value       *string
	placeholder string
}

func keys(fields []field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// Session is a parsed debug session file.
type Session struct {
	Slug    string
	Status  Status
	Trigger string
	Created string
	Updated string

	Focus      Focus
	Symptoms   Symptoms
	Resolution Resolution
	// Eliminated and Evidence hold the raw section text, placeholder included.
	Eliminated string
	Evidence   string

	// Path is set when the session was loaded from disk.
	Path string
}

// NewSession seeds a fresh session file.
type NewSession struct {
	Slug    string
	Trigger string
	// Status defaults to gathering.
	Status  Status
	Created string
	Updated string
	// Unset fields are written as placeholders. Symptoms.Started defaults to
	// Created.
	Focus    Focus
	Symptoms Symptoms
}

// Content renders a new session file.
func Content(n NewSession) string {
	status := n.Status
	if status == "" {
		status = StatusGathering
	}
	updated := n.Updated
	if updated == "" {
		updated = n.Created
	}
	symptoms := n.Symptoms
	if symptoms.Started == "" {
		symptoms.Started = n.Created
	}
	focus := n.Focus
	var resolution Resolution

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "trigger: %s\n", oneLine(n.Trigger))
	fmt.Fprintf(&b, "created: %s\n", n.Created)
	fmt.Fprintf(&b, "updated: %s\n", updated)
	b.WriteString("---\n\n")
	b.WriteString(titlePrefix + n.Slug + "\n\n")

	writeKeyValues(&b, SectionFocus, focus.fields())
	writeKeyValues(&b, SectionSymptoms, symptoms.fields())
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", SectionEliminated, PlaceholderEliminated)
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", SectionEvidence, PlaceholderEvidence)
	writeKeyValues(&b, SectionResolution, resolution.fields())
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeKeyValues(b *strings.Builder, heading string, fields []field) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, f := range fields {
		v := oneLine(*f.value)
		if v == "" {
			v = f.placeholder
		}
		fmt.Fprintf(b, "%s: %s\n", f.key, v)
	}
	b.WriteString("\n")
}

// Parse reads a session file. Frontmatter values are taken verbatim, so a
// trigger that looks like a list or a quoted string survives a round trip.
// Missing fields and sections parse as empty strings; only a missing
// frontmatter block is an error.
func Parse(content string) (Session, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return Session{}, fmt.Errorf("debug: parse session: %w", err)
	}
	s := Session{
		Status:  Status(doc.Fields.Raw("status")),
		Trigger: doc.Fields.Raw("trigger"),
		Created: doc.Fields.Raw("created"),
		Updated: doc.Fields.Raw("updated"),
	}
	for _, ln := range strings.Split(doc.Body, "\n") {
		if slug, ok := strings.CutPrefix(strings.TrimRight(ln, "\r"), titlePrefix); ok {
			s.Slug = strings.TrimSpace(slug)
			break
		}
	}

	sections := markdown.SplitSections(doc.Body, 2)
	readKeyValues(sections[SectionFocus], s.Focus.fields())
	readKeyValues(sections[SectionSymptoms], s.Symptoms.fields())
	readKeyValues(sections[SectionResolution], s.Resolution.fields())
	s.Eliminated = sections[SectionEliminated]
	s.Evidence = sections[SectionEvidence]
	return s, nil
}

func readKeyValues(body string, fields []field) {
	kv := markdown.ParseKeyValues(body, keys(fields)...)
	for _, f := range fields {
		*f.value = kv.Get(f.key, "")
	}
}

// Entries returns the appended text of an append-only section, or "" while it
// still holds its placeholder.
func Entries(raw, placeholder string) string {
	return strings.TrimSpace(strings.Replace(raw, placeholder, "", 1))
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps a key: value entry on a single line.
func oneLine(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
