package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoRunner indicates no preset matches a project.
var ErrNoRunner = errors.New("no runner detected")

// NewCargoRunner runs "cargo clippy" then "cargo test".
func NewCargoRunner(root string, opts ...Option) *ShellRunner {
	base := []Option{WithLint("cargo clippy"), WithTest("cargo test"), WithOrder(LintFirst)}
	return New("cargo", root, append(base, opts...)...)
}

// NewNpmRunner runs "npm test" then "npm run lint".
func NewNpmRunner(root string, opts ...Option) *ShellRunner {
	base := []Option{WithLint("npm run lint"), WithTest("npm test"), WithOrder(TestFirst)}
	return New("npm", root, append(base, opts...)...)
}

// NewGoRunner runs "go vet ./..." then "go test ./...".
func NewGoRunner(root string, opts ...Option) *ShellRunner {
	base := []Option{WithLint("go vet ./..."), WithTest("go test ./..."), WithOrder(LintFirst)}
	return New("go", root, append(base, opts...)...)
}

// presets in detection order, with the marker file that selects each.
var presets = []struct {
	name   string
	marker string
	build  func(string, ...Option) *ShellRunner
}{
	{name: "cargo", marker: "Cargo.toml", build: NewCargoRunner},
	{name: "npm", marker: "package.json", build: NewNpmRunner},
	{name: "go", marker: "go.mod", build: NewGoRunner},
}

// Preset returns the named preset runner for root. "auto" or "" detects.
func Preset(name, root string, opts ...Option) (*ShellRunner, error) {
	if name == "" || name == "auto" {
		return Detect(root, opts...)
	}
	for _, p := range presets {
		if p.name == name {
			return p.build(root, opts...), nil
		}
	}
	return nil, fmt.Errorf("unknown runner preset %q", name)
}

// Detect picks a preset from the marker files in root.
func Detect(root string, opts ...Option) (*ShellRunner, error) {
	for _, p := range presets {
		if _, err := os.Stat(filepath.Join(root, p.marker)); err == nil {
			return p.build(root, opts...), nil
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNoRunner, root)
}
