package debug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kingrea/gsd/internal/frontmatter"
	"github.com/kingrea/gsd/internal/markdown"
)

var (
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid debug status")
	// ErrStatusRegression indicates a transition to an earlier stage, or any
	// transition out of resolved.
	ErrStatusRegression = errors.New("debug status cannot move backwards")
)

// Update is a partial change to a session. Empty fields are left alone.
type Update struct {
	Status     Status
	Focus      Focus
	Symptoms   Symptoms
	Resolution Resolution
	// AppendEliminated and AppendEvidence add an entry to the end of their
	// section. The first entry replaces the placeholder.
	AppendEliminated string
	AppendEvidence   string
}

// Apply patches content with u and stamps the updated field with today.
// Each key is only replaced inside its own section.
func Apply(content string, u Update, today string) (string, error) {
	if u.Status != "" {
		if !u.Status.Valid() {
			return content, fmt.Errorf("debug: %w: %q", ErrInvalidStatus, u.Status)
		}
		current := Status(frontmatter.Fields(content).Raw("status"))
		if current.Valid() && statusRank[u.Status] < statusRank[current] {
			return content, fmt.Errorf("debug: %w: %s to %s", ErrStatusRegression, current, u.Status)
		}
		content = frontmatter.ReplaceField(content, "status", string(u.Status))
	}
	content = frontmatter.ReplaceField(content, "updated", today)

	content = replaceFields(content, SectionFocus, u.Focus.fields())
	content = replaceFields(content, SectionSymptoms, u.Symptoms.fields())
	content = appendEntry(content, SectionEliminated, PlaceholderEliminated, u.AppendEliminated)
	content = appendEntry(content, SectionEvidence, PlaceholderEvidence, u.AppendEvidence)
	content = replaceFields(content, SectionResolution, u.Resolution.fields())
	return content, nil
}

func replaceFields(content, section string, fields []field) string {
	for _, f := range fields {
		v := oneLine(*f.value)
		if v == "" {
			continue
		}
		sec, ok := markdown.FindSection(content, section, 2)
		if !ok {
			return content
		}
		region := markdown.ReplaceKeyValue(sec.Raw(content), f.key, v)
		content = content[:sec.BodyStart] + region + content[sec.End:]
	}
	return content
}

func appendEntry(content, section, placeholder, entry string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return content
	}
	sec, ok := markdown.FindSection(content, section, 2)
	if !ok {
		return content
	}
	if sec.Body(content) == placeholder {
		out, _ := markdown.ReplaceSectionBody(content, section, 2, entry)
		return out
	}
	out, _ := markdown.AppendToSection(content, section, 2, entry)
	return out
}
