package transform

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

// Factory builds a TransformFunc from declarative parameters.
type Factory func(params map[string]string) (metadata.TransformFunc, error)

var (
	catalogMu sync.RWMutex
	catalog   = map[string]Factory{
		"suffix": func(p map[string]string) (metadata.TransformFunc, error) {
			value, ok := p["value"]
			if !ok {
				return nil, fmt.Errorf("suffix requires a value parameter")
			}
			return mapString(func(s string) string { return s + value }), nil
		},
		"prefix": func(p map[string]string) (metadata.TransformFunc, error) {
			value, ok := p["value"]
			if !ok {
				return nil, fmt.Errorf("prefix requires a value parameter")
			}
			return mapString(func(s string) string { return value + s }), nil
		},
		"trim":      fixed(strings.TrimSpace),
		"lowercase": fixed(strings.ToLower),
		"uppercase": fixed(strings.ToUpper),
		"sanitize":  fixed(SanitizeHTML),
	}
)

// Register adds a named transform factory. Intended for init-time wiring.
func Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("transform: name is required")
	}
	if factory == nil {
		return fmt.Errorf("transform: factory for %q is nil", name)
	}
	catalogMu.Lock()
	defer catalogMu.Unlock()
	if _, exists := catalog[name]; exists {
		return fmt.Errorf("transform: %q already registered", name)
	}
	catalog[name] = factory
	return nil
}

// Lookup resolves a named transform.
func Lookup(name string, params map[string]string) (metadata.TransformFunc, error) {
	catalogMu.RLock()
	factory, ok := catalog[name]
	catalogMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transform: %q not found", name)
	}
	fn, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("transform: %s: %w", name, err)
	}
	return fn, nil
}

// Names returns the registered transform names, sorted.
func Names() []string {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fixed(fn func(string) string) Factory {
	return func(map[string]string) (metadata.TransformFunc, error) {
		return mapString(fn), nil
	}
}

// mapString applies fn to string values and passes anything else through.
func mapString(fn func(string) string) metadata.TransformFunc {
	return func(p metadata.TransformParams) any {
		s, ok := p.Value.(string)
		if !ok {
			return p.Value
		}
		return fn(s)
	}
}
