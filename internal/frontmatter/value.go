package frontmatter

import "strconv"

// Kind identifies the shape of a frontmatter value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
	KindRecords
	KindMap
)

// Value is one parsed field. Scalars keep their source text in Str. Raw holds
// the text after `key:` for any value written on the key's own line.
type Value struct {
	Kind    Kind
	Str     string
	Raw     string
	Int     int
	Bool    bool
	List    []string
	Records []Record
	Map     Record
}

// Record maps field names to values.
type Record map[string]Value

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Lookup returns the raw value for key.
func (r Record) Lookup(key string) (Value, bool) {
	v, ok := r[key]
	return v, ok
}

// String returns the source text of a scalar field, or "" otherwise.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	switch v.Kind {
	case KindString, KindInt, KindBool:
		return v.Str
	}
	return ""
}

// Raw returns the unparsed inline text of a field, or "" for block values.
func (r Record) Raw(key string) string {
	return r[key].Raw
}

// Int returns an integer field, or def when absent or not an integer.
func (r Record) Int(key string, def int) int {
	v, ok := r[key]
	if !ok || v.Kind != KindInt {
		return def
	}
	return v.Int
}

// Bool returns a boolean field, or def when absent or not a boolean.
func (r Record) Bool(key string, def bool) bool {
	v, ok := r[key]
	if !ok || v.Kind != KindBool {
		return def
	}
	return v.Bool
}

// Strings returns a list field. A non-empty scalar is treated as a
// one-element list; anything else yields nil.
func (r Record) Strings(key string) []string {
	v, ok := r[key]
	if !ok {
		return nil
	}
	switch v.Kind {
	case KindList:
		return append([]string(nil), v.List...)
	case KindString, KindInt:
		if v.Str != "" {
			return []string{v.Str}
		}
	}
	return nil
}

// Records returns a list-of-records field.
func (r Record) Records(key string) []Record {
	v, ok := r[key]
	if !ok || v.Kind != KindRecords {
		return nil
	}
	return v.Records
}

// Map returns a nested map field.
func (r Record) Map(key string) (Record, bool) {
	v, ok := r[key]
	if !ok || v.Kind != KindMap {
		return nil, false
	}
	return v.Map, true
}

func scalar(text string) Value {
	switch text {
	case "true":
		return Value{Kind: KindBool, Bool: true, Str: text}
	case "false":
		return Value{Kind: KindBool, Bool: false, Str: text}
	}
	if isInteger(text) {
		if n, err := strconv.Atoi(text); err == nil {
			return Value{Kind: KindInt, Int: n, Str: text}
		}
	}
	return Value{Kind: KindString, Str: text}
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
