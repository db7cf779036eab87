package theme

import "strings"

// ReplaceAll substitutes every non-overlapping occurrence of token in
// template with replacement using plain literal matching. The scan position
// advances past each inserted replacement, so a replacement which itself
// contains the token cannot cause re-scanning. The input is returned
// unchanged when the token does not occur.
func ReplaceAll(template, token, replacement string) string {
	if token == "" {
		return template
	}
	idx := strings.Index(template, token)
	if idx < 0 {
		return template
	}
	var b strings.Builder
	b.Grow(len(template) + len(replacement))
	for idx >= 0 {
		b.WriteString(template[:idx])
		b.WriteString(replacement)
		template = template[idx+len(token):]
		idx = strings.Index(template, token)
	}
	b.WriteString(template)
	return b.String()
}
