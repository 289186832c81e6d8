// Package diffs renders unified diffs for display.
//
// Every rendering is wrapped in a backtick fence that is widened until it
// cannot collide with backticks inside the diff, so the output can be embedded
// in markdown or chat transcripts safely.
//
//	fmt.Print(diffs.UnifiedDiff(before, after, "main.go"))
//
// DiffPartialUpdate renders an in-flight whole-file rewrite: only the part of
// the original already covered by the stream is diffed, and the last line is
// replaced by a progress bar.
package diffs
