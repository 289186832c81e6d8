// Package edit turns a change request into a committed file edit.
//
// An Editor asks its Provider for the change, validates and applies the
// reply entirely in memory, and only then writes the file, stages it and
// commits. Two strategies are available:
//
//   - ApplyDiffEdit asks for a unified diff and applies its hunks. If the
//     reply has no diff block, a hunk is malformed, or a hunk does not match
//     the file, it falls back to ApplyWholeFileEdit with the same request.
//   - ApplyWholeFileEdit asks for the complete new file inside one fenced
//     block and writes it verbatim.
//
// Nothing is written when the reply is cancelled or unusable.
package edit
