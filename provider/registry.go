package provider

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory builds a Provider from configuration.
type Factory func(cfg Config) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider available to New and FromConfig under name.
// It is meant to be called from an init function and panics on a
// duplicate name.
//
//	func init() {
//	    provider.Register("command", func(cfg provider.Config) (provider.Provider, error) {
//	        return command.FromConfig(cfg)
//	    })
//	}
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("provider %q registered twice", name))
	}
	registry[name] = factory
}

// New builds the provider registered as name. An unregistered name wraps
// ErrUnknownProvider and lists what is available.
func New(name string, cfg Config) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		known := Available()
		if len(known) == 0 {
			return nil, fmt.Errorf("%w: %q (none registered)", ErrUnknownProvider, name)
		}
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(known, ", "))
	}
	return factory(cfg)
}

// FromConfig validates cfg and builds the provider it names.
func FromConfig(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return New(cfg.Provider, cfg)
}

// Available returns the registered provider names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, ok := registry[name]
	return ok
}

// Unregister removes name. Tests use it to undo a Register.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, name)
}
