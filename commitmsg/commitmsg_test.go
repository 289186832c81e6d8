package commitmsg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fixkit/provider"
)

// stagedRepo implements vcs.Repository with a fixed staged diff.
type stagedRepo struct {
	diff string
	err  error
}

func (r *stagedRepo) Root() string                  { return "/repo" }
func (r *stagedRepo) Stage(string) error            { return nil }
func (r *stagedRepo) Commit(string) (string, error) { return "rev", nil }
func (r *stagedRepo) DiffUnstaged() (string, error) { return "", nil }
func (r *stagedRepo) DiffStaged() (string, error)   { return r.diff, r.err }

const sampleDiff = "diff --git a/src/lib.rs b/src/lib.rs\n" +
	"--- a/src/lib.rs\n+++ b/src/lib.rs\n@@ -1 +1 @@\n-old\n+new\n" +
	"diff --git a/README.md b/README.md\n"

func TestGenerate_UsesModelReply(t *testing.T) {
	p := provider.NewMockProvider("  feat: add new greeting\n")

	msg, err := Generate(context.Background(), p, &stagedRepo{diff: sampleDiff}, WithCoAuthors())

	require.NoError(t, err)
	assert.Equal(t, "feat: add new greeting", msg)
	assert.Contains(t, p.LastCall(), "Files:\nsrc/lib.rs\nREADME.md\n")
	assert.Contains(t, p.LastCall(), "+new")
}

func TestGenerate_StripsFence(t *testing.T) {
	p := provider.NewMockProvider("```\nfix: handle empty input\n```\n")

	msg, err := Generate(context.Background(), p, &stagedRepo{diff: sampleDiff}, WithCoAuthors())

	require.NoError(t, err)
	assert.Equal(t, "fix: handle empty input", msg)
}

func TestGenerate_FallbackOnEmptyReply(t *testing.T) {
	p := provider.NewMockProvider("   ")

	msg, err := Generate(context.Background(), p, &stagedRepo{diff: sampleDiff}, WithCoAuthors())

	require.NoError(t, err)
	assert.Equal(t, "docs: update src/lib.rs", msg)
}

func TestGenerate_FallbackOnProviderError(t *testing.T) {
	p := provider.NewMockProvider().WithError(provider.ErrUnavailable)

	msg, err := Generate(context.Background(), p, &stagedRepo{diff: sampleDiff}, WithCoAuthors())

	require.NoError(t, err)
	assert.Equal(t, "docs: update src/lib.rs", msg)
}

func TestGenerate_NilProviderAndDiffError(t *testing.T) {
	msg, err := Generate(context.Background(), nil, &stagedRepo{err: errors.New("no git")}, WithCoAuthors())

	require.NoError(t, err)
	assert.Equal(t, "chore: update", msg)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, provider.NewMockProvider("x"), &stagedRepo{diff: sampleDiff})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_CoAuthorsFromEnv(t *testing.T) {
	t.Setenv(CoAuthorsEnv, "Ada <ada@example.com>; ;Linus <linus@example.com>")

	msg, err := Generate(context.Background(), provider.NewMockProvider("feat: x"), &stagedRepo{diff: sampleDiff})

	require.NoError(t, err)
	assert.Equal(t, "feat: x\nCo-authored-by: Ada <ada@example.com>\nCo-authored-by: Linus <linus@example.com>", msg)
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		diff  string
		want  string
	}{
		{name: "test file", files: []string{"pkg/a_test.go", "README.md"}, want: "test: update pkg/a_test.go"},
		{name: "docs", files: []string{"docs/guide.md"}, want: "docs: update docs/guide.md"},
		{name: "fix in diff", files: []string{"main.go"}, diff: "+// Fix off by one", want: "fix: update main.go"},
		{name: "bug in diff", files: []string{"main.go"}, diff: "-BUG", want: "fix: update main.go"},
		{name: "config only", files: []string{"Cargo.toml", "package.json", "ci.yaml"}, want: "chore: update Cargo.toml"},
		{name: "feature", files: []string{"main.go", "Cargo.toml"}, want: "feat: update main.go"},
		{name: "nothing", want: "chore: update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.files, tt.diff))
		})
	}
}

func TestStagedFiles(t *testing.T) {
	assert.Equal(t, []string{"src/lib.rs", "README.md"}, StagedFiles(sampleDiff))
	assert.Nil(t, StagedFiles(""))
}

func TestHead(t *testing.T) {
	assert.Equal(t, "a\nb", head("a\nb\nc\n", 2))
	assert.Equal(t, "a", head("a\n", 20))
}
