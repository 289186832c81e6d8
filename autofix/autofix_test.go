package autofix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/runner"
	"github.com/randalmurphal/fixkit/tokens"
)

type editCall struct {
	file, request, message string
}

// recordingEditor implements Editor and records every edit.
type recordingEditor struct {
	calls []editCall
	err   error
}

func (e *recordingEditor) ApplyDiffEdit(_ context.Context, file, req, msg string) (*edit.Outcome, error) {
	e.calls = append(e.calls, editCall{file: file, request: req, message: msg})
	if e.err != nil {
		return nil, e.err
	}
	return &edit.Outcome{Revision: "r", Mode: edit.ModeDiff}, nil
}

// scriptedRunner returns the scripted rounds in order, repeating the last.
type scriptedRunner struct {
	rounds [][]runner.CommandResult
	runs   int
	err    error
}

func (r *scriptedRunner) Name() string { return "scripted" }

func (r *scriptedRunner) Run(context.Context, bool, bool) ([]runner.CommandResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	i := min(r.runs, len(r.rounds)-1)
	r.runs++
	return r.rounds[i], nil
}

var (
	pass = []runner.CommandResult{{Command: "cargo clippy", Status: 0}, {Command: "cargo test", Status: 0}}
	fail = []runner.CommandResult{
		{Command: "cargo clippy", Status: 0},
		{Command: "cargo test", Output: "test foo ... FAILED\npanicked at src/lib.rs:3\n", Status: 101},
	}
)

func TestApplyWithRunner_PassesFirstTime(t *testing.T) {
	ed := &recordingEditor{}
	r := &scriptedRunner{rounds: [][]runner.CommandResult{pass}}

	results, err := ApplyWithRunner(context.Background(), ed, r, "src/lib.rs", "add foo", "feat: foo", DefaultRunOptions())

	require.NoError(t, err)
	assert.Equal(t, pass, results)
	assert.Len(t, ed.calls, 1)
	assert.Equal(t, editCall{file: "src/lib.rs", request: "add foo", message: "feat: foo"}, ed.calls[0])
	assert.Equal(t, 1, r.runs)
}

func TestApplyWithRunner_FixesOnce(t *testing.T) {
	ed := &recordingEditor{}
	r := &scriptedRunner{rounds: [][]runner.CommandResult{fail, pass}}

	results, err := ApplyWithRunner(context.Background(), ed, r, "src/lib.rs", "add foo", "feat: foo", DefaultRunOptions())

	require.NoError(t, err)
	assert.True(t, Passed(results))
	require.Len(t, ed.calls, 2)
	assert.Equal(t, FixCommitMessage, ed.calls[1].message)
	assert.Equal(t, "The following run of `cargo test` failed:\n"+
		"test foo ... FAILED\npanicked at src/lib.rs:3\n(exit status: 101)\n"+
		"Please fix the code in src/lib.rs so that the run succeeds.", ed.calls[1].request)
}

func TestApplyWithRunner_GivesUp(t *testing.T) {
	ed := &recordingEditor{}
	r := &scriptedRunner{rounds: [][]runner.CommandResult{fail}}

	results, err := ApplyWithRunner(context.Background(), ed, r, "src/lib.rs", "add foo", "feat: foo", RunOptions{MaxFixAttempts: 1})

	require.NoError(t, err)
	assert.False(t, Passed(results))
	assert.Len(t, ed.calls, 2)
	assert.Equal(t, 2, r.runs)
}

func TestApplyWithRunner_AttemptBudget(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		ed := &recordingEditor{}
		r := &scriptedRunner{rounds: [][]runner.CommandResult{fail}}

		_, err := ApplyWithRunner(context.Background(), ed, r, "a.go", "req", "msg", RunOptions{MaxFixAttempts: n})

		require.NoError(t, err)
		assert.Len(t, ed.calls, n+1, "max=%d", n)
		assert.Equal(t, n+1, r.runs, "max=%d", n)
	}
}

func TestApplyWithRunner_Observer(t *testing.T) {
	r := &scriptedRunner{rounds: [][]runner.CommandResult{fail, pass}}
	var attempts []Attempt

	_, err := ApplyWithRunner(context.Background(), &recordingEditor{}, r, "a.go", "req", "msg", DefaultRunOptions(),
		WithObserver(func(a Attempt) { attempts = append(attempts, a) }))

	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Fixing)
	assert.Equal(t, "cargo test", attempts[0].Failed.Command)
	assert.Equal(t, 1, attempts[1].Number)
	assert.False(t, attempts[1].Fixing)
}

func TestApplyWithRunner_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := ApplyWithRunner(context.Background(), &recordingEditor{}, &scriptedRunner{}, "a", "r", "m", RunOptions{MaxFixAttempts: -1})
	assert.Error(t, err)

	_, err = ApplyWithRunner(context.Background(), &recordingEditor{err: boom}, &scriptedRunner{rounds: [][]runner.CommandResult{pass}}, "a", "r", "m", DefaultRunOptions())
	assert.ErrorIs(t, err, boom)

	_, err = ApplyWithRunner(context.Background(), &recordingEditor{}, &scriptedRunner{err: runner.ErrSpawn}, "a", "r", "m", DefaultRunOptions())
	assert.ErrorIs(t, err, runner.ErrSpawn)
}

func TestApplyWithRunner_LongOutputTruncated(t *testing.T) {
	long := []runner.CommandResult{{Command: "make", Output: strings.Repeat("x", 10000) + "\n", Status: 2}}
	ed := &recordingEditor{}
	r := &scriptedRunner{rounds: [][]runner.CommandResult{long, pass}}

	_, err := ApplyWithRunner(context.Background(), ed, r, "a.go", "req", "msg", DefaultRunOptions(), WithSummaryTokens(100))

	require.NoError(t, err)
	require.Len(t, ed.calls, 2)
	fix := ed.calls[1].request
	assert.Contains(t, fix, tokens.MiddleMarker)
	assert.Contains(t, fix, "(exit status: 2)")
	assert.Less(t, len(fix), 1000)
}

// fakeRepo implements vcs.Repository for the end-to-end test.
type fakeRepo struct {
	root    string
	commits []string
}

func (r *fakeRepo) Root() string                  { return r.root }
func (r *fakeRepo) Stage(string) error            { return nil }
func (r *fakeRepo) DiffUnstaged() (string, error) { return "", nil }
func (r *fakeRepo) DiffStaged() (string, error)   { return "", nil }
func (r *fakeRepo) Commit(msg string) (string, error) {
	r.commits = append(r.commits, msg)
	return "rev", nil
}

// TestApplyWithRunner_EndToEnd drives the real Editor with a mock provider
// and a shell runner that checks the file contents.
func TestApplyWithRunner_EndToEnd(t *testing.T) {
	repo := &fakeRepo{root: t.TempDir()}
	file := filepath.Join(repo.root, "value.txt")
	require.NoError(t, os.WriteFile(file, []byte("value=1\n"), 0o644))

	p := provider.NewMockProvider(
		"```diff\n@@ -1 +1 @@\n-value=1\n+value=2\n```\n",
		"```diff\n@@ -1 +1 @@\n-value=2\n+value=3\n```\n",
	)
	r := runner.New("check", repo.root, runner.WithTest("grep -q 'value=3' value.txt"))

	results, err := ApplyWithRunner(context.Background(), edit.New(p, repo), r, "value.txt", "bump value", "bump", DefaultRunOptions())

	require.NoError(t, err)
	assert.True(t, Passed(results))
	assert.Equal(t, []string{"bump", FixCommitMessage}, repo.commits)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "value=3\n", string(data))
	assert.True(t, strings.HasPrefix(p.LastCall(), "Change the file `value.txt` to satisfy this request:\nThe following run of `grep -q 'value=3' value.txt` failed:\n"))
}
