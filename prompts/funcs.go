package prompts

import (
	"strings"
	"text/template"

	"github.com/randalmurphal/fixkit/diffs"
)

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"fence":   fence,
		"trim":    strings.TrimSpace,
		"indent":  indent,
		"join":    strings.Join,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"default": defaultValue,
	}
}

// fence wraps s in a code fence wider than any backtick run in it.
func fence(s string) string {
	return diffs.FenceWrap(s, "")
}

// indent adds n spaces to the start of each non-empty line.
func indent(s string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns fallback if v is nil or an empty string.
func defaultValue(v, fallback any) any {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}
