package prompts

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Engine renders prompt templates. Parsed templates are cached by source.
// An Engine is safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	funcs template.FuncMap
	cache map[string]*template.Template
}

// NewEngine creates an engine with the built-in helpers.
func NewEngine() *Engine {
	return &Engine{
		funcs: defaultFuncs(),
		cache: make(map[string]*template.Template),
	}
}

// AddFunc registers a helper. It is usable as {{name arg ...}}.
func (e *Engine) AddFunc(name string, fn any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
	clear(e.cache)
}

// Render executes src with vars.
func (e *Engine) Render(src string, vars map[string]any) (string, error) {
	tmpl, err := e.compile(src)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return buf.String(), nil
}

// Variables validates src and returns the variable names it references,
// in order of first appearance.
func (e *Engine) Variables(src string) ([]string, error) {
	if _, err := e.compile(src); err != nil {
		return nil, err
	}
	return extractVariables(src, e.helperNames()), nil
}

func (e *Engine) compile(src string) (*template.Template, error) {
	if src == "" {
		return nil, ErrEmpty
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[src]; ok {
		return tmpl, nil
	}

	converted := convertSyntax(src, e.funcs)
	tmpl, err := template.New("prompt").
		Option("missingkey=error").
		Funcs(e.funcs).
		Parse(converted)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	e.cache[src] = tmpl
	return tmpl, nil
}

func (e *Engine) helperNames() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make(map[string]bool, len(e.funcs))
	for name := range e.funcs {
		names[name] = true
	}
	return names
}

// ValidateVariables checks that all required variables are provided.
// Returns an error wrapping ErrVariable naming the first one missing.
func ValidateVariables(required []string, provided map[string]any) error {
	for _, name := range required {
		if _, ok := provided[name]; !ok {
			return fmt.Errorf("%w: %s", ErrVariable, name)
		}
	}
	return nil
}
