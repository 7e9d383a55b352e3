package hal

import (
	"fmt"
	"slices"
	"sync"
)

// PlatformFactory creates a new platform instance.
type PlatformFactory func() Platform

// Named platforms. Nothing is chosen automatically; callers ask for a
// platform by name.
var (
	registryMu sync.RWMutex
	platforms  = make(map[string]PlatformFactory)
)

// Register makes a platform available under name, replacing any earlier
// registration. Platform packages call it from init.
func Register(name string, factory PlatformFactory) {
	registryMu.Lock()
	platforms[name] = factory
	registryMu.Unlock()
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	delete(platforms, name)
	registryMu.Unlock()
}

// Available returns the registered names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup creates the platform registered under name. Unknown names return
// an error matching ErrPlatformNotRegistered that lists what is available.
func Lookup(name string) (Platform, error) {
	registryMu.RLock()
	factory, ok := platforms[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrPlatformNotRegistered, name, Available())
	}
	return factory(), nil
}
