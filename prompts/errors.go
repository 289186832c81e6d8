package prompts

import "errors"

var (
	// ErrEmpty means a prompt source had no text to render.
	ErrEmpty = errors.New("prompts: empty source")

	// ErrParse wraps syntax errors in a prompt source.
	ErrParse = errors.New("prompts: bad syntax")

	// ErrExecute wraps failures while filling in a prompt, including
	// references to variables that were not supplied.
	ErrExecute = errors.New("prompts: render failed")

	// ErrVariable names a variable a caller required but did not pass.
	ErrVariable = errors.New("prompts: missing variable")
)
