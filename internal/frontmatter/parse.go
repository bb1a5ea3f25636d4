package frontmatter

import "strings"

type blockLine struct {
	indent int
	text   string
}

// parseBlock turns the lines between the fences into a record. Blank and
// comment lines are dropped up front so indentation decides structure.
func parseBlock(raw []string) Record {
	lines := make([]blockLine, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimRight(ln, " \t\r")
		trimmed := strings.TrimLeft(ln, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, blockLine{indent: len(ln) - len(trimmed), text: trimmed})
	}
	rec, _ := parseMapping(lines, 0, 0)
	return rec
}

func parseMapping(lines []blockLine, i, indent int) (Record, int) {
	rec := Record{}
	for i < len(lines) {
		ln := lines[i]
		if ln.indent < indent || (ln.indent == indent && isDash(ln.text)) {
			break
		}
		if ln.indent > indent {
			// Orphaned continuation; nothing owns it.
			i++
			continue
		}
		key, rest, ok := splitKey(ln.text)
		i++
		if !ok {
			continue
		}
		if rest != "" {
			rec[key] = parseInline(rest)
			continue
		}
		if i < len(lines) && ownsBlock(lines[i], indent) {
			var v Value
			v, i = parseNested(lines, i)
			rec[key] = v
			continue
		}
		rec[key] = Value{Kind: KindString}
	}
	return rec, i
}

// ownsBlock reports whether next belongs to a key declared at indent. Lists
// may sit at the key's own indentation.
func ownsBlock(next blockLine, indent int) bool {
	return next.indent > indent || (next.indent == indent && isDash(next.text))
}

func parseNested(lines []blockLine, i int) (Value, int) {
	child := lines[i].indent
	if isDash(lines[i].text) {
		return parseList(lines, i, child)
	}
	m, next := parseMapping(lines, i, child)
	return Value{Kind: KindMap, Map: m}, next
}

func parseList(lines []blockLine, i, indent int) (Value, int) {
	var (
		items   []string
		records []Record
	)
	for i < len(lines) && lines[i].indent == indent && isDash(lines[i].text) {
		item := strings.TrimLeft(strings.TrimPrefix(lines[i].text, "-"), " \t")
		if _, _, ok := splitKey(item); ok && !isQuoted(item) {
			// The record's fields line up with the first key after the dash.
			fieldIndent := indent + len(lines[i].text) - len(item)
			lines[i] = blockLine{indent: fieldIndent, text: item}
			var rec Record
			rec, i = parseMapping(lines, i, fieldIndent)
			records = append(records, rec)
			continue
		}
		items = append(items, unquote(item))
		i++
	}
	if len(records) > 0 && len(items) == 0 {
		return Value{Kind: KindRecords, Records: records}, i
	}
	return Value{Kind: KindList, List: items, Records: records}, i
}

func parseInline(rest string) Value {
	var v Value
	switch {
	case strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]"):
		v = Value{Kind: KindList, List: splitInline(rest[1 : len(rest)-1])}
	case isQuoted(rest):
		v = Value{Kind: KindString, Str: unquote(rest)}
	default:
		v = scalar(rest)
	}
	v.Raw = rest
	return v
}

// splitInline splits a flow list body on commas outside quotes.
func splitInline(body string) []string {
	items := []string{}
	if strings.TrimSpace(body) == "" {
		return items
	}
	var (
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		items = append(items, unquote(strings.TrimSpace(cur.String())))
		cur.Reset()
	}
	escaped := false
	for _, r := range body {
		switch {
		case escaped:
			escaped = false
		case quote == '"' && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ',':
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return items
}

// splitKey splits "key: value" where key is a bare identifier.
func splitKey(text string) (key, rest string, ok bool) {
	idx := strings.IndexByte(text, ':')
	if idx <= 0 {
		return "", "", false
	}
	key = text[:idx]
	for _, c := range key {
		if !(c == '_' || c == '-' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return "", "", false
		}
	}
	rest = text[idx+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", "", false
	}
	return key, strings.TrimSpace(rest), true
}

func isDash(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')
}

// unquote strips matching quotes. Double-quoted text also has its escaped
// quotes restored.
func unquote(s string) string {
	if !isQuoted(s) {
		return s
	}
	inner := s[1 : len(s)-1]
	if s[0] == '"' {
		inner = strings.ReplaceAll(inner, `\"`, `"`)
	}
	return inner
}
