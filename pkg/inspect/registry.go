package inspect

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Inspector)
)

// Register adds an inspector factory to the registry.
// Called by inspector implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Inspector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves an inspector factory by name.
func Get(name string) (func(*slog.Logger) Inspector, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates an inspector for the given engine type. A nil logger
// discards debug output.
func New(typ string, logger *slog.Logger) (Inspector, error) {
	if typ == "" {
		return nil, fmt.Errorf("inspector type not specified")
	}
	factory, ok := Get(typ)
	if !ok {
		return nil, &UnknownInspectorError{
			Type:      typ,
			Available: ListInspectors(),
		}
	}
	return factory(logger), nil
}

// ListInspectors returns all registered inspector names (sorted).
func ListInspectors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an inspector type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownInspectorError is returned when an unknown inspector type is
// requested.
type UnknownInspectorError struct {
	Type      string
	Available []string
}

func (e *UnknownInspectorError) Error() string {
	return fmt.Sprintf("unknown inspector type %q (available: %v)", e.Type, e.Available)
}
