// Package parser extracts edits from raw model output.
//
// Model replies are loosely structured prose with fenced blocks mixed in.
// This package pulls out the pieces the edit pipeline needs:
//
//   - ExtractFenced: the body of the first fenced block (whole-file rewrites)
//   - FindDiffs: every hunk of every ```diff block, tagged with its file path
//
// Example usage:
//
//	body, err := parser.ExtractFenced(reply)
//	if errors.Is(err, parser.ErrMissingFence) {
//	    // the model did not return a fenced block
//	}
//
//	for _, h := range parser.FindDiffs(reply) {
//	    fmt.Printf("%s: %d lines\n", h.Path, len(h.Lines))
//	}
//
// Line terminators are preserved exactly, so hunks can be re-rendered
// byte for byte.
package parser
