// Package config loads fixkit's project configuration.
//
// Configuration lives in a .fixkit.yaml, .fixkit.yml or .fixkit.toml file at
// the project root. FIXKIT_* environment variables override file values.
//
//	cfg, path, err := config.LoadDefault(root)
//	if err != nil {
//		return err
//	}
//	cfg.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/fixkit/autofix"
	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/runner"
)

// ErrFormat indicates a config file with an unsupported extension.
var ErrFormat = errors.New("unsupported config format")

// FileNames are the config files LoadDefault looks for, in order.
var FileNames = []string{".fixkit.yaml", ".fixkit.yml", ".fixkit.toml"}

// Presets lists the accepted runner preset names.
var Presets = []string{"auto", "cargo", "npm", "go", "custom"}

// Config is the complete fixkit configuration.
type Config struct {
	// Provider selects and configures the model backend.
	Provider provider.Config `json:"provider" yaml:"provider" toml:"provider"`

	// Runner configures the lint and test commands.
	Runner RunnerConfig `json:"runner" yaml:"runner" toml:"runner"`

	// Fix controls the verification loop after an edit.
	Fix autofix.RunOptions `json:"fix" yaml:"fix" toml:"fix"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level" toml:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// RunnerConfig selects a runner preset and optionally overrides its commands.
type RunnerConfig struct {
	// Preset is a built-in runner or "custom". "auto" detects from marker files.
	Preset string `json:"preset,omitempty" yaml:"preset" toml:"preset" jsonschema:"enum=auto,enum=cargo,enum=npm,enum=go,enum=custom"`

	// Lint replaces the preset's lint commands when set.
	Lint []string `json:"lint,omitempty" yaml:"lint,omitempty" toml:"lint,omitempty"`

	// Test replaces the preset's test commands when set.
	Test []string `json:"test,omitempty" yaml:"test,omitempty" toml:"test,omitempty"`

	// Order is "lint-first" or "test-first". Empty keeps the preset's order.
	Order string `json:"order,omitempty" yaml:"order" toml:"order" jsonschema:"enum=lint-first,enum=test-first"`

	// Timeout bounds each command. 0 uses the runner default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Provider: provider.DefaultConfig(),
		Runner: RunnerConfig{
			Preset:  "auto",
			Timeout: runner.DefaultTimeout,
		},
		Fix:      autofix.DefaultRunOptions(),
		LogLevel: "info",
	}
}

// LoadFromEnv applies FIXKIT_* overrides on top of the current values.
//
// Besides the provider variables handled by provider.Config.LoadFromEnv:
//   - FIXKIT_LOG_LEVEL: log level
//   - FIXKIT_RUNNER_PRESET: runner preset
//   - FIXKIT_RUNNER_TIMEOUT: per-command timeout (e.g., "2m")
//   - FIXKIT_MAX_FIX_ATTEMPTS: fix attempts after the initial edit
//   - FIXKIT_SKIP_LINT, FIXKIT_SKIP_TEST: "true" or "false"
func (c *Config) LoadFromEnv() {
	c.Provider.LoadFromEnv()

	if v := os.Getenv("FIXKIT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FIXKIT_RUNNER_PRESET"); v != "" {
		c.Runner.Preset = v
	}
	if v := os.Getenv("FIXKIT_RUNNER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Runner.Timeout = d
		}
	}
	if v := os.Getenv("FIXKIT_MAX_FIX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fix.MaxFixAttempts = n
		}
	}
	if v := os.Getenv("FIXKIT_SKIP_LINT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Fix.SkipLint = b
		}
	}
	if v := os.Getenv("FIXKIT_SKIP_TEST"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Fix.SkipTest = b
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Runner.Validate(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	if err := c.Fix.Validate(); err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel. Empty means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Validate checks the preset, order and timeout.
func (r *RunnerConfig) Validate() error {
	if r.Preset != "" && !slices.Contains(Presets, r.Preset) {
		return fmt.Errorf("unknown preset %q (want one of %s)", r.Preset, strings.Join(Presets, ", "))
	}
	if r.Preset == "custom" && len(r.Lint) == 0 && len(r.Test) == 0 {
		return fmt.Errorf("custom preset needs lint or test commands")
	}
	if _, err := runner.ParseOrder(r.Order); err != nil {
		return err
	}
	if r.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", r.Timeout)
	}
	return nil
}

// BuildRunner creates the runner for root. Configured commands replace the
// preset's; if detection finds nothing but commands are configured, a
// custom runner is used.
func (r *RunnerConfig) BuildRunner(root string, opts ...runner.Option) (*runner.ShellRunner, error) {
	extra := []runner.Option{runner.WithTimeout(r.Timeout)}
	if len(r.Lint) > 0 {
		extra = append(extra, runner.WithLint(r.Lint...))
	}
	if len(r.Test) > 0 {
		extra = append(extra, runner.WithTest(r.Test...))
	}
	if r.Order != "" {
		order, err := runner.ParseOrder(r.Order)
		if err != nil {
			return nil, err
		}
		extra = append(extra, runner.WithOrder(order))
	}
	extra = append(extra, opts...)

	if r.Preset == "custom" {
		return runner.New("custom", root, extra...), nil
	}
	sr, err := runner.Preset(r.Preset, root, extra...)
	if errors.Is(err, runner.ErrNoRunner) && (len(r.Lint) > 0 || len(r.Test) > 0) {
		return runner.New("custom", root, extra...), nil
	}
	return sr, err
}
