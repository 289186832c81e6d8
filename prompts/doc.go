// Package prompts renders the prompts fixkit sends to a model.
//
// Prompts are written in a small Handlebars-like syntax that is converted
// to text/template before execution:
//
//	Rewrite the file `{{file}}` to satisfy this request:
//	{{request}}
//	{{#if content}}Current contents:
//	{{fence content}}{{/if}}
//
// Conversions:
//   - {{name}} reads a variable
//   - {{#if name}}...{{/if}} renders the body when name is non-empty
//   - {{#each items}}...{{/each}} iterates, with {{.}} as the element
//   - {{helper arg ...}} calls a helper; bare identifiers become variables
//
// A variable referenced but not provided is an execution error.
//
// # Built-in Helpers
//
//   - fence(s string) string - wrap s in a backtick fence wider than any run inside it
//   - trim(s string) string - strip surrounding whitespace
//   - indent(s string, n int) string - prefix every line with n spaces
//   - join(items []string, sep string) string
//   - default(v, fallback any) any - fallback when v is nil or ""
//
// The prompts used by the edit pipeline are exposed as functions: DiffEdit,
// WholeFile, FixRequest, CommitMessage, plus the WatchCode instructions.
package prompts
