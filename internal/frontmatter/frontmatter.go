// Package frontmatter reads and patches the `---` fenced metadata block at the
// top of planning documents.
//
// The block is YAML-shaped but loosely written by hand and by agents (values
// such as `trigger: Error: boom` are common), so it is parsed line by line
// instead of with a strict YAML decoder. Supported forms are scalars, inline
// lists, block lists, lists of records and nested maps.
package frontmatter

import (
	"errors"
	"strings"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a fence.
	ErrMissingFrontMatter = errors.New("frontmatter: missing frontmatter")
	// ErrMalformedFrontMatter indicates the opening fence was never closed.
	ErrMalformedFrontMatter = errors.New("frontmatter: malformed frontmatter")
)

const fence = "---"

// Document is a parsed frontmatter block plus the body that follows it.
type Document struct {
	Fields Record
	// Raw is the text between the fences.
	Raw string
	// Body is everything after the closing fence line.
	Body string
}

// Parse extracts the metadata block and body from content.
func Parse(content string) (*Document, error) {
	text := normalizeNewlines(content)
	open, rest, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimRight(open, " \t") != fence {
		return nil, ErrMissingFrontMatter
	}
	var raw []string
	for {
		ln, tail, more := strings.Cut(rest, "\n")
		if strings.TrimRight(ln, " \t") == fence {
			return &Document{
				Fields: parseBlock(raw),
				Raw:    strings.Join(raw, "\n"),
				Body:   tail,
			}, nil
		}
		if !more {
			return nil, ErrMalformedFrontMatter
		}
		raw = append(raw, ln)
		rest = tail
	}
}

// Fields returns the parsed record, or nil when content has no well-formed
// frontmatter block.
func Fields(content string) Record {
	doc, err := Parse(content)
	if err != nil {
		return nil
	}
	return doc.Fields
}

// ReplaceField rewrites the top-level `key:` line inside the frontmatter
// block. Content is returned unchanged when the block or the key is absent;
// the key is never added. Only the key's own line is rewritten.
func ReplaceField(content, key, value string) string {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r\n") != fence {
		return content
	}
	for i := 1; i < len(lines); i++ {
		ln := strings.TrimRight(lines[i], "\r\n")
		if strings.TrimRight(ln, " \t") == fence {
			return content
		}
		k, _, ok := splitKey(ln)
		if !ok || k != key {
			continue
		}
		lines[i] = key + ": " + value + lines[i][len(ln):]
		return strings.Join(lines, "")
	}
	return content
}

func normalizeNewlines(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}
