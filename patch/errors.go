package patch

import "errors"

// Sentinel errors for patch operations.
var (
	// ErrParse indicates a hunk is structurally invalid.
	ErrParse = errors.New("invalid diff hunk")

	// ErrApply indicates a valid hunk does not match the current content.
	ErrApply = errors.New("diff hunk does not apply")
)
