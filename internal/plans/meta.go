package plans

import "github.com/kingrea/gsd/internal/frontmatter"

// Meta is the typed view of a plan document's frontmatter.
type Meta struct {
	Phase         string
	Plan          string
	Type          string
	Wave          int
	DependsOn     []string
	FilesModified []string
	Autonomous    bool
	MustHaves     *MustHaves
}

// ParseMeta reads plan frontmatter. Missing fields fall back to wave 1 and
// autonomous true; a document without frontmatter yields only the defaults.
func ParseMeta(content string) Meta {
	fields := frontmatter.Fields(content)
	wave := fields.Int("wave", 1)
	if wave < 1 {
		wave = 1
	}
	return Meta{
		Phase:         fields.String("phase"),
		Plan:          fields.String("plan"),
		Type:          fields.String("type"),
		Wave:          wave,
		DependsOn:     nonNil(fields.Strings("depends_on")),
		FilesModified: nonNil(fields.Strings("files_modified")),
		Autonomous:    fields.Bool("autonomous", true),
		MustHaves:     mustHavesFrom(fields),
	}
}

// MustHaves declares what a plan must deliver for verification to pass.
type MustHaves struct {
	Truths    []string
	Artifacts []Artifact
	KeyLinks  []KeyLink
}

// Artifact is a file the plan must produce.
type Artifact struct {
	Path     string
	Provides string
	Exports  []string
	MinLines int
}

// KeyLink is a connection between two files that must exist once the plan is
// done, detected by matching Pattern in From.
type KeyLink struct {
	From    string
	To      string
	Via     string
	Pattern string
}

// ParseMustHaves returns the must_haves block of a plan, or nil when the plan
// declares none. A present but empty block yields a non-nil value.
func ParseMustHaves(content string) *MustHaves {
	return mustHavesFrom(frontmatter.Fields(content))
}

func mustHavesFrom(fields frontmatter.Record) *MustHaves {
	v, ok := fields.Lookup("must_haves")
	if !ok {
		return nil
	}
	mh := &MustHaves{Truths: []string{}, Artifacts: []Artifact{}, KeyLinks: []KeyLink{}}
	if v.Kind != frontmatter.KindMap {
		return mh
	}
	mh.Truths = nonNil(v.Map.Strings("truths"))
	for _, rec := range v.Map.Records("artifacts") {
		mh.Artifacts = append(mh.Artifacts, Artifact{
			Path:     rec.String("path"),
			Provides: rec.String("provides"),
			Exports:  nonNil(rec.Strings("exports")),
			MinLines: rec.Int("min_lines", 0),
		})
	}
	for _, rec := range v.Map.Records("key_links") {
		mh.KeyLinks = append(mh.KeyLinks, KeyLink{
			From:    rec.String("from"),
			To:      rec.String("to"),
			Via:     rec.String("via"),
			Pattern: rec.String("pattern"),
		})
	}
	return mh
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
