// Package fixkit applies model-written code changes and keeps the build green.
//
// fixkit asks a language model for a change to one file, applies the reply
// as a unified diff (falling back to a whole-file rewrite), commits the
// result, and then runs the project's lint and test commands, asking the
// model to fix the first failure for a bounded number of attempts.
//
// Subpackages can be used independently:
//
//   - parser: fenced-block extraction and diff hunk discovery in replies
//   - diffs: fenced unified diffs and streaming progress rendering
//   - patch: typed hunks and tolerant hunk application
//   - prompts: prompt templates with {{variable}} syntax
//   - provider: the model interface, registry and mock
//   - command: providers backed by a local CLI (including ollama)
//   - vcs: git staging, commits and diffs
//   - commitmsg: commit message generation with a heuristic fallback
//   - edit: diff-first edits with whole-file fallback
//   - runner: lint and test command runners and presets
//   - autofix: the edit, verify and fix loop
//   - watch: "AI!" comment watch mode
//   - config: YAML/TOML configuration, schema and reload
//
// # Quick Start
//
//	import (
//		"github.com/randalmurphal/fixkit/autofix"
//		"github.com/randalmurphal/fixkit/edit"
//		"github.com/randalmurphal/fixkit/runner"
//		"github.com/randalmurphal/fixkit/vcs"
//	)
//
//	repo, _ := vcs.Open(".")
//	ed := edit.New(p, repo)
//	r, _ := runner.Detect(repo.Root())
//	results, err := autofix.ApplyWithRunner(ctx, ed, r, "src/lib.rs",
//		"add a function foo", "feat: add foo", autofix.DefaultRunOptions())
package fixkit
