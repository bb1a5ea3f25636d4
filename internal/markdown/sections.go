// Package markdown locates heading-delimited sections and key: value lines in
// planning documents. It is deliberately narrow: headings are matched at one
// depth per call and everything else is opaque text, so callers can patch a
// single region and leave the rest of a document byte-identical.
package markdown

import (
	"strings"
	"unicode"
)

// Preamble is the Sections key holding text before the first heading.
const Preamble = "_preamble"

// Sections maps heading text to trimmed body text.
type Sections map[string]string

// Get returns the body for name and whether the heading was present.
func (s Sections) Get(name string) (string, bool) {
	body, ok := s[name]
	return body, ok
}

// Section is the byte span of one heading and its body within a document.
type Section struct {
	Name  string
	Level int
	// Start is the offset of the heading line.
	Start int
	// BodyStart is the offset just past the heading line's newline.
	BodyStart int
	// End is the offset of the next heading at the same depth, or len(text).
	End int
}

// Body returns the section body with surrounding blank lines trimmed.
func (s Section) Body(text string) string {
	return trimBlankLines(text[s.BodyStart:s.End])
}

// Raw returns the untrimmed body bytes.
func (s Section) Raw(text string) string {
	return text[s.BodyStart:s.End]
}

type line struct {
	start int
	end   int // excludes the newline
	next  int // offset of the following line
	text  string
}

func scanLines(text string) []line {
	var lines []line
	for pos := 0; pos < len(text); {
		idx := strings.IndexByte(text[pos:], '\n')
		if idx < 0 {
			lines = append(lines, line{start: pos, end: len(text), next: len(text), text: text[pos:]})
			break
		}
		end := pos + idx
		lines = append(lines, line{start: pos, end: end, next: end + 1, text: text[pos:end]})
		pos = end + 1
	}
	return lines
}

// headingName reports the title of a heading line at exactly the given depth.
func headingName(s string, level int) (string, bool) {
	s = strings.TrimRight(s, "\r")
	marker := strings.Repeat("#", level)
	if !strings.HasPrefix(s, marker+" ") {
		return "", false
	}
	return strings.TrimSpace(s[len(marker)+1:]), true
}

func isFence(s string) bool {
	t := strings.TrimLeft(s, " ")
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

// Headings returns every heading span at the given depth in document order.
// Lines inside fenced code blocks are never treated as headings.
func Headings(text string, level int) []Section {
	var sections []Section
	inFence := false
	for _, ln := range scanLines(text) {
		if isFence(ln.text) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		name, ok := headingName(ln.text, level)
		if !ok {
			continue
		}
		if n := len(sections); n > 0 {
			sections[n-1].End = ln.start
		}
		sections = append(sections, Section{
			Name:      name,
			Level:     level,
			Start:     ln.start,
			BodyStart: ln.next,
			End:       len(text),
		})
	}
	return sections
}

// SplitSections maps each heading at the given depth to its trimmed body.
// Text before the first heading is stored under Preamble. When a heading name
// repeats, the later body wins.
func SplitSections(text string, level int) Sections {
	headings := Headings(text, level)
	out := Sections{}
	if len(headings) == 0 {
		out[Preamble] = trimBlankLines(text)
		return out
	}
	out[Preamble] = trimBlankLines(text[:headings[0].Start])
	for _, h := range headings {
		out[h.Name] = h.Body(text)
	}
	return out
}

// FindSection returns the first section named name at the given depth.
func FindSection(text, name string, level int) (Section, bool) {
	for _, h := range Headings(text, level) {
		if h.Name == name {
			return h, true
		}
	}
	return Section{}, false
}

// ReplaceSectionBody swaps the body of the named section for body. Bytes
// outside the section body are untouched. Reports false when the heading is
// absent.
func ReplaceSectionBody(text, name string, level int, body string) (string, bool) {
	sec, ok := FindSection(text, name, level)
	if !ok {
		return text, false
	}
	var b strings.Builder
	b.WriteString(text[:sec.BodyStart])
	if sec.BodyStart == len(text) && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(trimBlankLines(body))
	b.WriteString("\n")
	if sec.End < len(text) {
		b.WriteString("\n")
	}
	b.WriteString(text[sec.End:])
	return b.String(), true
}

// AppendToSection inserts entry at the end of the named section, directly
// before the next heading of the same depth or at the end of the document.
// Existing section content is kept.
func AppendToSection(text, name string, level int, entry string) (string, bool) {
	sec, ok := FindSection(text, name, level)
	if !ok {
		return text, false
	}
	entry = strings.TrimSpace(entry)
	if sec.End < len(text) {
		before := strings.TrimRightFunc(text[:sec.End], unicode.IsSpace)
		return before + "\n\n" + entry + "\n\n" + text[sec.End:], true
	}
	return strings.TrimRightFunc(text, unicode.IsSpace) + "\n\n" + entry + "\n", true
}

// trimBlankLines drops leading blank lines and trailing whitespace while
// keeping the indentation of the first non-blank line.
func trimBlankLines(s string) string {
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			if strings.TrimSpace(s) == "" {
				return ""
			}
			break
		}
		if strings.TrimSpace(s[:idx]) != "" {
			break
		}
		s = s[idx+1:]
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
