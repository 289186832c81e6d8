package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fixkit/prompts"
)

// =============================================================================
// Comment Detection Tests
// =============================================================================

func TestFindAIComments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int
	}{
		{name: "slash suffix", content: "x := 1\n// make this faster AI!\n", want: []int{2}},
		{name: "hash prefix", content: "# AI! rename this\nprint(1)\n", want: []int{1}},
		{name: "sql dashes", content: "select 1; -- add a limit ai!\n", want: []int{1}},
		{name: "lisp semicolons", content: ";; ai! fix\n", want: []int{1}},
		{name: "inline trailing", content: "return x // handle nil AI!\n", want: []int{1}},
		{name: "crlf", content: "// do it AI!\r\nnext\r\n", want: []int{1}},
		{name: "middle of comment", content: "// the AI! marker is here\n", want: nil},
		{name: "not a comment", content: "AI!\nfmt.Println(\"AI!\")\n", want: nil},
		{name: "question", content: "// what is this AI?\n", want: nil},
		{name: "several", content: "// a AI!\ncode\n# AI! b\n", want: []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, c := range FindAIComments(tt.content) {
				got = append(got, c.Line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAIComments_KeepsWholeLine(t *testing.T) {
	got := FindAIComments("\treturn x // handle nil AI!\r\n")

	require.Len(t, got, 1)
	assert.Equal(t, "\treturn x // handle nil AI!", got[0].Text)
}

func TestCodePrompt(t *testing.T) {
	assert.Equal(t, "", CodePrompt("main.go", nil))

	got := CodePrompt("main.go", []Comment{{Line: 3, Text: "\t// speed up AI!"}})

	assert.True(t, strings.HasPrefix(got, prompts.WatchCode))
	assert.Contains(t, got, "main.go:\n█ // speed up AI!\n")
}

// =============================================================================
// Serve Tests
// =============================================================================

type handledCall struct {
	file, request string
}

func TestServe_HandlesMarkedFiles(t *testing.T) {
	root := t.TempDir()
	marked := filepath.Join(root, "pkg", "a.go")
	plain := filepath.Join(root, "b.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(marked), 0o755))
	require.NoError(t, os.WriteFile(marked, []byte("package pkg\n// add a test AI!\n"), 0o644))
	require.NoError(t, os.WriteFile(plain, []byte("package main\n"), 0o644))

	changes := make(chan []string, 3)
	changes <- []string{marked, plain, filepath.Join(root, "missing.go")}
	changes <- []string{marked} // unchanged since handled
	close(changes)

	var calls []handledCall
	Serve(context.Background(), changes, root, func(_ context.Context, file, request string) error {
		calls = append(calls, handledCall{file: file, request: request})
		return nil
	}, nil)

	require.Len(t, calls, 1)
	assert.Equal(t, "pkg/a.go", calls[0].file)
	assert.Contains(t, calls[0].request, "█ // add a test AI!")
}

func TestServe_RehandlesAfterEdit(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("// one AI!\n"), 0o644))

	changes := make(chan []string)
	requests := make(chan string, 2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Serve(context.Background(), changes, root, func(_ context.Context, _, request string) error {
			requests <- request
			return assert.AnError
		}, nil)
	}()

	changes <- []string{file}
	assert.Contains(t, <-requests, "// one AI!")

	// an unbuffered send only completes once the previous batch is finished
	changes <- nil
	require.NoError(t, os.WriteFile(file, []byte("// two AI!\n"), 0o644))
	changes <- []string{file}
	assert.Contains(t, <-requests, "// two AI!")

	close(changes)
	<-done
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		Serve(ctx, make(chan []string), t.TempDir(), nil, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

// =============================================================================
// Watcher Tests
// =============================================================================

func newTestWatcher(t *testing.T, root string) (*Watcher, <-chan []string) {
	t.Helper()
	w, err := New([]string{root}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return w, w.Changes(ctx)
}

func nextBatch(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case batch, ok := <-ch:
		require.True(t, ok, "changes channel closed")
		return batch
	case <-time.After(3 * time.Second):
		t.Fatal("no change batch reported")
		return nil
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	_, ch := newTestWatcher(t, root)

	file := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("b\n"), 0o644))

	assert.Equal(t, []string{file}, nextBatch(t, ch))
}

func TestWatcher_NewDirectories(t *testing.T) {
	root := t.TempDir()
	_, ch := newTestWatcher(t, root)

	dir := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// give the watcher a moment to register the new directory
	time.Sleep(100 * time.Millisecond)
	file := filepath.Join(dir, "x.go")
	require.NoError(t, os.WriteFile(file, []byte("x\n"), 0o644))

	var seen []string
	deadline := time.After(3 * time.Second)
	for !slices.Contains(seen, file) {
		select {
		case batch := <-ch:
			seen = append(seen, batch...)
		case <-deadline:
			t.Fatalf("file in new directory not reported, saw %v", seen)
		}
	}
}

func TestWatcher_IgnoresVendorAndGit(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"vendor", ".git", "src"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	_, ch := newTestWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "v.go"), []byte("v\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index"), []byte("i\n"), 0o644))
	kept := filepath.Join(root, "src", "s.go")
	require.NoError(t, os.WriteFile(kept, []byte("s\n"), 0o644))

	assert.Equal(t, []string{kept}, nextBatch(t, ch))
}

func TestWatcher_DoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	_, ch := newTestWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(outside, "o.go"), []byte("o\n"), 0o644))
	kept := filepath.Join(root, "k.go")
	require.NoError(t, os.WriteFile(kept, []byte("k\n"), 0o644))

	assert.Equal(t, []string{kept}, nextBatch(t, ch))
}

func TestWatcher_Ignored(t *testing.T) {
	w := &Watcher{ignore: DefaultIgnore}

	assert.True(t, w.Ignored("vendor/x.go"))
	assert.True(t, w.Ignored("a/node_modules/b.js"))
	assert.True(t, w.Ignored(".git"))
	assert.False(t, w.Ignored("src/vendors.go"))
}

func TestWatcher_ClosedChannel(t *testing.T) {
	w, err := New([]string{t.TempDir()})
	require.NoError(t, err)
	ch := w.Changes(context.Background())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Close")
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
