package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if the name is taken or the format does not define a complete
// reader/writer pair for exactly one shape.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[f.Info.Name]; exists {
		panic(fmt.Sprintf("format already registered: %s", f.Info.Name))
	}

	raw := f.ReadRaw != nil && f.WriteRaw != nil && f.ReadAspect == nil && f.WriteAspect == nil
	aspect := f.ReadAspect != nil && f.WriteAspect != nil && f.ReadRaw == nil && f.WriteRaw == nil
	if !raw && !aspect {
		panic(fmt.Sprintf("format %s must define exactly one reader/writer pair", f.Info.Name))
	}

	registry[f.Info.Name] = f
}

// Get returns a format by name. Names are case-sensitive.
func Get(name string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[name]
	return f, ok
}

// All returns every registered format sorted by name.
func All() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Format, 0, len(registry))
	for _, f := range registry {
		result = append(result, f)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Name < result[j].Info.Name
	})

	return result
}

// Names returns the registered format names, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.Info.Name
	}
	return names
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
