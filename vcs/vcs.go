// Package vcs is the version-control capability used by the edit pipeline.
//
// Repository is deliberately small: the pipeline only needs to stage the file
// it wrote, commit, and show what changed. Git implements it by shelling out
// to the git binary through a GitRunner, so tests can substitute a fake.
package vcs

import "errors"

// ErrGit is wrapped by every error returned from a failed git invocation.
var ErrGit = errors.New("git operation failed")

// Repository is a working tree the pipeline can commit to.
type Repository interface {
	// Root is the absolute path of the working tree.
	Root() string

	// Stage adds path (absolute or relative to Root) to the index.
	Stage(path string) error

	// Commit records the index with message and returns the new revision id.
	Commit(message string) (string, error)

	// DiffUnstaged returns the diff of the working tree against the index.
	DiffUnstaged() (string, error)

	// DiffStaged returns the diff of the index against HEAD.
	DiffStaged() (string, error)
}
