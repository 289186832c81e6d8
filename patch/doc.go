// Package patch applies extracted diff hunks to file content.
//
// Hunks from model output rarely carry trustworthy line numbers, so hunks
// are located by their text: the context and removed lines form the "before"
// block that must be found in the current content, and the context and added
// lines form the "after" block that replaces it. Matching is exact first,
// then whitespace-insensitive.
//
//	hunk, err := patch.ParseHunk(fileHunk)
//	updated, err := patch.Apply(current, hunk)
//	if errors.Is(err, patch.ErrApply) {
//	    // the hunk does not match the file as it is on disk
//	}
//
// Apply works entirely in memory; callers write the result only after every
// hunk has applied.
package patch
