package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/fixkit/provider"
)

// modelPlaceholder in an argument is replaced by the configured model.
const modelPlaceholder = "{model}"

// CLI implements provider.Provider by running a command per prompt.
type CLI struct {
	name         string
	path         string
	args         []string
	promptArg    bool
	model        string
	workdir      string
	timeout      time.Duration
	systemPrompt string
	extraEnv     map[string]string
	logger       *slog.Logger
}

// New creates a provider that runs path for every prompt.
func New(path string, opts ...Option) *CLI {
	c := &CLI{
		name:    "command",
		path:    path,
		timeout: 5 * time.Minute,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOllama creates a provider that runs "ollama run <model>".
func NewOllama(model string, opts ...Option) *CLI {
	base := []Option{
		WithName("ollama"),
		WithArgs("run", modelPlaceholder),
		WithModel(model),
	}
	return New("ollama", append(base, opts...)...)
}

// Name implements provider.Provider.
func (c *CLI) Name() string {
	return c.name
}

// Chat implements provider.Provider.
// Stdout is forwarded as it arrives, one chunk per line.
func (c *CLI) Chat(ctx context.Context, prompt string) (<-chan provider.StreamChunk, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, provider.NewError(c.name, "chat", fmt.Errorf("%w: empty prompt", provider.ErrInvalidRequest), false)
	}

	full := c.buildPrompt(prompt)

	cmdCtx := ctx
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		cmdCtx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	cmd := exec.CommandContext(cmdCtx, c.path, c.buildArgs(full)...)
	cmd.Dir = c.workdir
	cmd.Env = c.buildEnv()
	if !c.promptArg {
		cmd.Stdin = strings.NewReader(full)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, provider.NewError(c.name, "chat", fmt.Errorf("stdout pipe: %w", err), false)
	}
	var stderr lockedBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", provider.ErrCLINotFound, c.path)
		}
		return nil, provider.NewError(c.name, "chat", fmt.Errorf("start: %w", err), false)
	}

	c.logger.Debug("provider command started",
		slog.String("provider", c.name),
		slog.String("path", c.path),
		slog.Int("prompt_bytes", len(full)))

	ch := make(chan provider.StreamChunk)

	go func() {
		defer close(ch)
		defer cancel()

		send := func(chunk provider.StreamChunk) bool {
			select {
			case ch <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		reader := bufio.NewReader(stdout)
		var readErr error
		for {
			line, err := reader.ReadString('\n')
			if line != "" && !send(provider.StreamChunk{Content: line}) {
				_ = cmd.Wait()
				return
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr = err
				}
				break
			}
		}

		waitErr := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			send(provider.StreamChunk{Error: ctx.Err()})
		case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
			send(provider.StreamChunk{Error: provider.NewError(c.name, "chat",
				fmt.Errorf("%w after %v", provider.ErrTimeout, c.timeout), true)})
		case waitErr != nil:
			send(provider.StreamChunk{Error: provider.NewError(c.name, "chat",
				fmt.Errorf("%s failed: %w\nstderr: %s", c.path, waitErr, strings.TrimSpace(stderr.String())), false)})
		case readErr != nil:
			send(provider.StreamChunk{Error: provider.NewError(c.name, "chat", readErr, false)})
		default:
			send(provider.StreamChunk{Done: true})
		}
	}()

	return ch, nil
}

func (c *CLI) buildPrompt(prompt string) string {
	if c.systemPrompt == "" {
		return prompt
	}
	return c.systemPrompt + "\n\n" + prompt
}

// buildArgs expands the model placeholder and appends the prompt when it is
// passed as an argument.
func (c *CLI) buildArgs(prompt string) []string {
	args := make([]string, 0, len(c.args)+1)
	for _, a := range c.args {
		args = append(args, strings.ReplaceAll(a, modelPlaceholder, c.model))
	}
	if c.promptArg {
		args = append(args, prompt)
	}
	return args
}

func (c *CLI) buildEnv() []string {
	env := os.Environ()
	for k, v := range c.extraEnv {
		env = setEnvVar(env, k, v)
	}
	return env
}

// setEnvVar sets or replaces an environment variable in the env slice.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// lockedBuffer is written by the exec stderr copier and read after Wait.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
