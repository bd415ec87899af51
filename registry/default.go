package registry

import (
	"sync"

	"golift.io/loggerr"
)

// The package-level registry behind the convenience functions. Built lazily
// with default limits; code that wants its own limits creates a Registry.
var (
	defaultRegistry *Registry //nolint:gochecknoglobals
	defaultOnce     sync.Once //nolint:gochecknoglobals
)

// Default returns the shared package-level registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(nil)
	})

	return defaultRegistry
}

// GetOrCreate borrows from the shared registry. See Registry.GetOrCreate.
func GetOrCreate(spec *loggerr.Spec) (*Handle, error) {
	return Default().GetOrCreate(spec)
}

// Sweep sweeps the shared registry. See Registry.Sweep.
func Sweep() int {
	return Default().Sweep()
}

// EvictAll clears the shared registry. See Registry.EvictAll.
func EvictAll() error {
	return Default().EvictAll()
}

// GetStats snapshots the shared registry. See Registry.Stats.
func GetStats() Stats {
	return Default().Stats()
}
