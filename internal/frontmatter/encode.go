package frontmatter

import "strings"

// InlineList renders items as a flow list: "[a, b]" or "[]".
func InlineList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// BlockList renders the value part of a block list field. An empty list is
// rendered inline as " []" so the field reads `key: []`; otherwise each item
// becomes a quoted `- "item"` line at the given indentation.
func BlockList(items []string, indent int) string {
	if len(items) == 0 {
		return " []"
	}
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("- ")
		b.WriteString(Quote(item))
	}
	return b.String()
}

// Quote wraps s in double quotes, escaping any quotes inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
