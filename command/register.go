package command

import (
	"fmt"

	"github.com/randalmurphal/fixkit/provider"
)

func init() {
	provider.Register("command", FromConfig)
	provider.Register("ollama", ollamaFromConfig)
}

// FromConfig creates a generic command provider from a provider.Config.
// The "command" option names the binary.
func FromConfig(cfg provider.Config) (provider.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path := cfg.GetStringOption("command", "")
	if path == "" {
		return nil, fmt.Errorf("%w: command provider needs the %q option", provider.ErrInvalidRequest, "command")
	}
	return New(path, commonOptions(cfg)...), nil
}

func ollamaFromConfig(cfg provider.Config) (provider.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: ollama provider needs a model", provider.ErrInvalidRequest)
	}
	opts := commonOptions(cfg)
	if path := cfg.GetStringOption("path", ""); path != "" {
		opts = append(opts, WithPath(path))
	}
	return NewOllama(cfg.Model, opts...), nil
}

// commonOptions maps the shared config fields onto options.
func commonOptions(cfg provider.Config) []Option {
	opts := make([]Option, 0, 8)

	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.WorkDir != "" {
		opts = append(opts, WithWorkdir(cfg.WorkDir))
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, WithSystemPrompt(cfg.SystemPrompt))
	}
	if len(cfg.Env) > 0 {
		opts = append(opts, WithEnv(cfg.Env))
	}
	if args := cfg.GetStringSliceOption("args"); len(args) > 0 {
		opts = append(opts, WithArgs(args...))
	}
	if cfg.GetBoolOption("prompt_arg", false) {
		opts = append(opts, WithPromptArg())
	}
	return opts
}
