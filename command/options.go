package command

import (
	"log/slog"
	"maps"
	"time"
)

// Option configures a CLI.
type Option func(*CLI)

// WithName sets the provider name reported by Name.
func WithName(name string) Option {
	return func(c *CLI) { c.name = name }
}

// WithPath overrides the binary to run.
func WithPath(path string) Option {
	return func(c *CLI) { c.path = path }
}

// WithArgs sets the arguments placed before the prompt.
func WithArgs(args ...string) Option {
	return func(c *CLI) { c.args = args }
}

// WithPromptArg passes the prompt as the last argument instead of on stdin.
func WithPromptArg() Option {
	return func(c *CLI) { c.promptArg = true }
}

// WithModel sets the model substituted for "{model}" in args.
func WithModel(model string) Option {
	return func(c *CLI) { c.model = model }
}

// WithWorkdir sets the working directory.
func WithWorkdir(dir string) Option {
	return func(c *CLI) { c.workdir = dir }
}

// WithTimeout bounds a single reply. 0 disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *CLI) { c.timeout = d }
}

// WithSystemPrompt prepends text to every prompt.
func WithSystemPrompt(text string) Option {
	return func(c *CLI) { c.systemPrompt = text }
}

// WithEnv adds environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *CLI) {
		if c.extraEnv == nil {
			c.extraEnv = make(map[string]string)
		}
		maps.Copy(c.extraEnv, env)
	}
}

// WithLogger sets the logger for process lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *CLI) {
		if l != nil {
			c.logger = l
		}
	}
}
