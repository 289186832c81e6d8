package prompts

import (
	"regexp"
	"strings"
	"text/template"
)

var (
	actionPattern     = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// goKeywords pass through unchanged.
var goKeywords = map[string]bool{
	"else": true, "end": true, "if": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "nil": true,
	"true": true, "false": true,
}

// convertSyntax rewrites the Handlebars-like actions in src into
// text/template actions. funcs decides which leading identifiers are
// helper calls.
func convertSyntax(src string, funcs template.FuncMap) string {
	return actionPattern.ReplaceAllStringFunc(src, func(match string) string {
		inner := actionPattern.FindStringSubmatch(match)[1]
		return "{{" + convertAction(inner, funcs) + "}}"
	})
}

func convertAction(action string, funcs template.FuncMap) string {
	switch {
	case action == "/if" || action == "/each":
		return "end"
	case strings.HasPrefix(action, "#if "):
		return "if " + convertArguments(strings.TrimSpace(action[len("#if "):]))
	case strings.HasPrefix(action, "#each "):
		return "range " + convertArguments(strings.TrimSpace(action[len("#each "):]))
	}

	parts := splitArguments(action)
	if len(parts) == 0 {
		return action
	}
	head := parts[0]
	if _, ok := funcs[head]; ok {
		return head + " " + convertArguments(strings.Join(parts[1:], " "))
	}
	if len(parts) == 1 && identifierPattern.MatchString(head) && !goKeywords[head] {
		return "." + head
	}
	return action
}

// convertArguments prefixes bare identifiers with "." so they read
// variables. Literals and existing expressions are kept.
func convertArguments(args string) string {
	parts := splitArguments(args)
	for i, part := range parts {
		if identifierPattern.MatchString(part) && !goKeywords[part] {
			parts[i] = "." + part
		}
	}
	return strings.Join(parts, " ")
}

// splitArguments splits on spaces outside quoted strings.
func splitArguments(args string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, ch := range args {
		switch {
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
			current.WriteRune(ch)
		case quote != 0 && ch == quote:
			quote = 0
			current.WriteRune(ch)
		case quote == 0 && (ch == ' ' || ch == '\t'):
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return parts
}

// extractVariables returns the variables src reads, deduplicated in order
// of first appearance.
func extractVariables(src string, helpers map[string]bool) []string {
	seen := make(map[string]bool)
	var result []string

	add := func(name string) {
		if identifierPattern.MatchString(name) && !goKeywords[name] && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	for _, m := range actionPattern.FindAllStringSubmatch(src, -1) {
		action := m[1]
		switch {
		case strings.HasPrefix(action, "#if "), strings.HasPrefix(action, "#each "):
			_, rest, _ := strings.Cut(action, " ")
			for _, p := range splitArguments(rest) {
				add(p)
			}
		case strings.HasPrefix(action, "/"):
		default:
			parts := splitArguments(action)
			if len(parts) == 0 {
				continue
			}
			if helpers[parts[0]] {
				parts = parts[1:]
			} else if len(parts) > 1 {
				continue
			}
			for _, p := range parts {
				add(p)
			}
		}
	}
	return result
}
