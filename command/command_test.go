package command

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fixkit/provider"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func chat(t *testing.T, p provider.Provider, prompt string) (string, error) {
	t.Helper()
	ctx := context.Background()
	ch, err := p.Chat(ctx, prompt)
	require.NoError(t, err)
	return provider.Collect(ctx, ch)
}

func TestNew_Defaults(t *testing.T) {
	c := New("llm")

	assert.Equal(t, "command", c.Name())
	assert.Equal(t, "llm", c.path)
	assert.Equal(t, 5*time.Minute, c.timeout)
}

func TestNewOllama(t *testing.T) {
	c := NewOllama("qwen2.5-coder:7b", WithPath("/opt/ollama"))

	assert.Equal(t, "ollama", c.Name())
	assert.Equal(t, "/opt/ollama", c.path)
	assert.Equal(t, []string{"run", "qwen2.5-coder:7b"}, c.buildArgs("ignored"))
}

func TestCLI_buildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{name: "no args", want: []string{}},
		{
			name: "model placeholder",
			opts: []Option{WithArgs("-m", "{model}", "--no-stream"), WithModel("gpt-4o")},
			want: []string{"-m", "gpt-4o", "--no-stream"},
		},
		{
			name: "prompt as argument",
			opts: []Option{WithArgs("-p"), WithPromptArg()},
			want: []string{"-p", "do it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New("x", tt.opts...).buildArgs("do it"))
		})
	}
}

func TestSetEnvVar(t *testing.T) {
	env := []string{"A=1", "B=2"}

	assert.Equal(t, []string{"A=1", "B=3"}, setEnvVar(env, "B", "3"))
	assert.Equal(t, []string{"A=1", "B=3", "C=4"}, setEnvVar(env, "C", "4"))
}

func TestCLI_Chat_StdinEcho(t *testing.T) {
	requireBinary(t, "cat")

	reply, err := chat(t, New("cat"), "```diff\n-old\n+new\n```")

	require.NoError(t, err)
	assert.Equal(t, "```diff\n-old\n+new\n```", reply)
}

func TestCLI_Chat_SystemPrompt(t *testing.T) {
	requireBinary(t, "cat")

	reply, err := chat(t, New("cat", WithSystemPrompt("be brief")), "hello\n")

	require.NoError(t, err)
	assert.Equal(t, "be brief\n\nhello\n", reply)
}

func TestCLI_Chat_PromptArgAndEnv(t *testing.T) {
	requireBinary(t, "sh")

	p := New("sh",
		WithArgs("-c", `printf '%s|%s' "$FIXKIT_TEST_TAG" "$0"`),
		WithPromptArg(),
		WithEnv(map[string]string{"FIXKIT_TEST_TAG": "tag"}),
	)
	reply, err := chat(t, p, "the prompt")

	require.NoError(t, err)
	assert.Equal(t, "tag|the prompt", reply)
}

func TestCLI_Chat_NonZeroExit(t *testing.T) {
	requireBinary(t, "sh")

	p := New("sh", WithArgs("-c", "echo partial; echo model exploded >&2; exit 3"), WithPromptArg())
	_, err := chat(t, p, "x")

	assert.ErrorIs(t, err, provider.ErrStream)
	assert.Contains(t, err.Error(), "model exploded")
}

func TestCLI_Chat_Timeout(t *testing.T) {
	requireBinary(t, "sleep")

	p := New("sleep", WithArgs("5"), WithTimeout(50*time.Millisecond))
	_, err := chat(t, p, "x")

	assert.ErrorIs(t, err, provider.ErrStream)
	assert.ErrorIs(t, err, provider.ErrTimeout)
}

func TestCLI_Chat_NotInstalled(t *testing.T) {
	_, err := New("/nonexistent/fixkit-model").Chat(context.Background(), "x")

	assert.ErrorIs(t, err, provider.ErrCLINotFound)
}

func TestCLI_Chat_EmptyPrompt(t *testing.T) {
	_, err := New("cat").Chat(context.Background(), "  \n")

	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
}

func TestRegistry_Command(t *testing.T) {
	_, err := provider.New("command", provider.Config{Provider: "command"})
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)

	cfg := provider.Config{Provider: "command", Model: "m", Options: map[string]any{
		"command": "llm",
		"args":    []any{"-m", "{model}"},
	}}
	p, err := provider.New("command", cfg)
	require.NoError(t, err)

	c, ok := p.(*CLI)
	require.True(t, ok)
	assert.Equal(t, "llm", c.path)
	assert.Equal(t, []string{"-m", "m"}, c.buildArgs("x"))
}

func TestRegistry_Ollama(t *testing.T) {
	_, err := provider.New("ollama", provider.Config{Provider: "ollama"})
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)

	p, err := provider.New("ollama", provider.Config{Provider: "ollama", Model: "llama3", Timeout: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
	assert.Equal(t, time.Minute, p.(*CLI).timeout)
}
