package markdown

import "strings"

// KeyValues holds the key: value pairs found in a section body. Keys that
// were asked for but not found are absent, which is distinct from a key that
// is present with an empty value.
type KeyValues map[string]string

// Lookup returns the value for key and whether the key was present.
func (kv KeyValues) Lookup(key string) (string, bool) {
	v, ok := kv[key]
	return v, ok
}

// Get returns the value for key, or def when the key is absent.
func (kv KeyValues) Get(key, def string) string {
	if v, ok := kv[key]; ok {
		return v
	}
	return def
}

// ParseKeyValues resolves each of keys against "key: value" lines in body.
// The first matching line wins. Only lines starting at column zero count.
func ParseKeyValues(body string, keys ...string) KeyValues {
	out := KeyValues{}
	for _, ln := range scanLines(body) {
		text := strings.TrimRight(ln.text, "\r")
		for _, key := range keys {
			if _, seen := out[key]; seen {
				continue
			}
			if v, ok := valueAfterKey(text, key); ok {
				out[key] = v
			}
		}
	}
	return out
}

func valueAfterKey(text, key string) (string, bool) {
	prefix := key + ":"
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ReplaceKeyValue rewrites the value of the first "key: value" line in body.
// The body is returned unchanged when key is absent.
func ReplaceKeyValue(body, key, value string) string {
	for _, ln := range scanLines(body) {
		if _, ok := valueAfterKey(strings.TrimRight(ln.text, "\r"), key); ok {
			return splice(body, ln, key+": "+value)
		}
	}
	return body
}

// ReplacePrefixedLine rewrites the first line starting with prefix to
// replacement. Reports false, with text unchanged, when no line matches.
func ReplacePrefixedLine(text, prefix, replacement string) (string, bool) {
	for _, ln := range scanLines(text) {
		if strings.HasPrefix(ln.text, prefix) {
			return splice(text, ln, replacement), true
		}
	}
	return text, false
}

// splice replaces the content of ln, keeping its line terminator.
func splice(text string, ln line, replacement string) string {
	end := ln.end
	if strings.HasSuffix(ln.text, "\r") {
		end--
	}
	return text[:ln.start] + replacement + text[end:]
}
