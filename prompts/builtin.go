package prompts

import (
	"fmt"
	"strings"
)

// Templates for the edit pipeline.
const (
	DiffEditTemplate = "Change the file `{{file}}` to satisfy this request:\n{{request}}\n\n" +
		"{{#if content}}Current contents of `{{file}}`:\n{{fence content}}{{/if}}" +
		"Reply with the change as a unified diff inside a ```diff fenced block.\n" +
		"Start with `--- a/{{file}}` and `+++ b/{{file}}` lines, begin every hunk with an @@ line, " +
		"and prefix every line with a space, + or -.\n" +
		"Include enough unchanged lines around each change to locate it."

	WholeFileTemplate = "Rewrite the file `{{file}}` to satisfy this request:\n{{request}}\n" +
		"{{#if content}}Current contents:\n{{fence content}}{{/if}}" +
		"Return the full contents of the file inside triple backticks."

	FixRequestTemplate = "The following run of `{{command}}` failed:\n{{summary}}\n" +
		"Please fix the code in {{file}} so that the run succeeds."

	CommitMessageTemplate = "Generate a conventional commit message for the following changes.\n" +
		"Files:\n{{join files \"\\n\"}}\nDiff:\n{{diff}}\nCommit message:"
)

// WatchCode tells the model how to treat "AI" comments collected by watch mode.
const WatchCode = "I've written your instructions in comments in the code and marked them with \"ai\"\n" +
	"You can see the \"AI\" comments shown below (marked with █).\n" +
	"Find them in the code files I've shared with you, and follow their instructions.\n\n" +
	"After completing those instructions, also be sure to remove all the \"AI\" comments from the code too."

var builtin = NewEngine()

// DiffEdit asks for a change to file as a unified diff. content is the
// file's current text and may be empty for a new file.
func DiffEdit(file, content, request string) string {
	return mustRender(DiffEditTemplate, map[string]any{
		"file":    file,
		"content": content,
		"request": request,
	})
}

// WholeFile asks for a full rewrite of file inside a single fenced block.
func WholeFile(file, content, request string) string {
	return mustRender(WholeFileTemplate, map[string]any{
		"file":    file,
		"content": content,
		"request": request,
	})
}

// FixRequest asks for a fix to file after command failed with summary.
func FixRequest(command, summary, file string) string {
	return mustRender(FixRequestTemplate, map[string]any{
		"command": command,
		"summary": summary,
		"file":    file,
	})
}

// CommitMessage asks for a conventional commit message for the staged files
// and the head of their diff.
func CommitMessage(files []string, diff string) string {
	return mustRender(CommitMessageTemplate, map[string]any{
		"files": files,
		"diff":  diff,
	})
}

// WatchRequest combines WatchCode with the marked comment lines of file.
func WatchRequest(file string, marked []string) string {
	var b strings.Builder
	b.WriteString(WatchCode)
	fmt.Fprintf(&b, "\n\n%s:\n", file)
	for _, line := range marked {
		b.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// mustRender renders a built-in template. Built-ins are fixed text with
// every variable supplied, so failure is a programming error.
func mustRender(src string, vars map[string]any) string {
	out, err := builtin.Render(src, vars)
	if err != nil {
		panic(fmt.Sprintf("prompts: built-in template: %v", err))
	}
	return out
}
