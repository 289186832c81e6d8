package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/randalmurphal/fixkit/config"
	"github.com/randalmurphal/fixkit/provider"
)

// settings is the resolved configuration for one invocation.
type settings struct {
	cfg    config.Config
	path   string
	root   string
	logger *slog.Logger
}

// load resolves the project root, reads the config file and environment,
// and installs the logger writing to stderr.
func (g *globals) load(stderr io.Writer) (*settings, error) {
	root, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolve --dir: %w", err)
	}

	var (
		cfg  config.Config
		path string
	)
	if g.configPath != "" {
		path = g.configPath
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault(root)
	}
	if err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	if g.provider != "" {
		cfg.Provider = cfg.Provider.WithProvider(g.provider)
	}
	if g.model != "" {
		cfg.Provider = cfg.Provider.WithModel(g.model)
	}
	if g.verbose {
		cfg.LogLevel = "debug"
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return &settings{cfg: cfg, path: path, root: root, logger: logger}, nil
}

// provider validates the config and creates the model provider. It runs in
// the project root unless configured otherwise.
func (s *settings) provider() (provider.Provider, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	pc := s.cfg.Provider
	if pc.WorkDir == "" {
		pc = pc.WithWorkDir(s.root)
	}
	return provider.FromConfig(pc)
}

// abs resolves file against the project directory.
func (s *settings) abs(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.root, file)
}
