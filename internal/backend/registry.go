package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrBackendNotFound   = errors.New("backend not found")
	ErrBackendRegistered = errors.New("backend already registered")
	ErrBackendInvalid    = errors.New("backend name is required")
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

// Register adds a backend to the registry by name. Names are matched
// case-insensitively.
func Register(name string, backend Backend) error {
	if strings.TrimSpace(name) == "" {
		return ErrBackendInvalid
	}
	if backend == nil {
		return errors.New("backend is nil")
	}

	key := strings.ToLower(strings.TrimSpace(name))
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[key]; exists {
		return ErrBackendRegistered
	}

	registry[key] = backend
	return nil
}

// Unregister removes a backend. It reports whether the name was registered.
func Unregister(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[key]; !exists {
		return false
	}
	delete(registry, key)
	return true
}

// Get returns a backend by name.
func Get(name string) (Backend, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	backend, ok := registry[key]
	return backend, ok
}

// Lookup returns a backend by name, or ErrBackendNotFound naming the
// registered alternatives.
func Lookup(name string) (Backend, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBackendInvalid
	}
	instance, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrBackendNotFound, strings.TrimSpace(name), strings.Join(Names(), ", "))
	}
	return instance, nil
}

// Names returns all registered backend names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName returns the default backend name.
func DefaultName() string {
	return "simulator"
}
