package provider

import (
	"fmt"
	"os"
	"time"
)

// Config holds configuration for creating a Provider.
// Common fields apply to all providers; use Options for provider-specific settings.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "command", "ollama"
	Provider string `json:"provider" yaml:"provider" toml:"provider" jsonschema:"required,enum=command,enum=ollama"`

	// Model is the model to use (provider-specific name).
	// Examples: "qwen2.5-coder:7b", "gpt-4o"
	Model string `json:"model,omitempty" yaml:"model,omitempty" toml:"model"`

	// SystemPrompt is prepended to every prompt.
	// Optional.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty" toml:"system_prompt"`

	// Timeout is the maximum duration for one reply.
	// 0 uses the provider default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout"`

	// WorkDir is the directory the provider runs in.
	// Default: current directory.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty" toml:"work_dir"`

	// Env provides additional environment variables for CLI execution.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`

	// Options holds provider-specific configuration.
	//
	// Command:
	//   - "command": string (binary to run, required)
	//   - "args": []string (arguments placed before the prompt)
	//   - "prompt_arg": bool (pass the prompt as the last argument instead of stdin)
	//
	// Ollama:
	//   - "path": string (path to the ollama binary)
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
// Provider must still be set before use.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Minute,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the FIXKIT_ prefix and take precedence over
// existing values.
//
// Supported variables:
//   - FIXKIT_PROVIDER: Provider name
//   - FIXKIT_MODEL: Model name
//   - FIXKIT_SYSTEM_PROMPT: System prompt
//   - FIXKIT_TIMEOUT: Timeout duration (e.g., "5m")
//   - FIXKIT_WORK_DIR: Working directory
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("FIXKIT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("FIXKIT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("FIXKIT_SYSTEM_PROMPT"); v != "" {
		c.SystemPrompt = v
	}
	if v := os.Getenv("FIXKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("FIXKIT_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithWorkDir returns a copy of the config with the specified working directory.
func (c Config) WithWorkDir(dir string) Config {
	c.WorkDir = dir
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetStringSliceOption retrieves a string slice option, returning nil if not set.
// Handles both []string and []any (from YAML or JSON decoding).
func (c Config) GetStringSliceOption(key string) []string {
	switch v := c.Options[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
