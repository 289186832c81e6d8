package edit

import (
	"context"

	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/vcs"
)

// ApplyDiffEdit runs a one-off diff edit. See Editor.ApplyDiffEdit.
func ApplyDiffEdit(ctx context.Context, p provider.Provider, repo vcs.Repository, file, changeRequest, commitMessage string) (*Outcome, error) {
	return New(p, repo).ApplyDiffEdit(ctx, file, changeRequest, commitMessage)
}

// ApplyWholeFileEdit runs a one-off whole-file edit. See Editor.ApplyWholeFileEdit.
func ApplyWholeFileEdit(ctx context.Context, p provider.Provider, repo vcs.Repository, file, changeRequest, commitMessage string) (*Outcome, error) {
	return New(p, repo).ApplyWholeFileEdit(ctx, file, changeRequest, commitMessage)
}
