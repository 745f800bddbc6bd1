package neighbor

import (
	"sort"
	"sync"
)

// Registered searcher names.
const (
	ListSearch2Name             = "PointListSearch2"
	ListSearch3Name             = "PointListSearch3"
	HashGridSearch2Name         = "PointHashGridSearch2"
	HashGridSearch3Name         = "PointHashGridSearch3"
	ParallelHashGridSearch2Name = "PointParallelHashGridSearch2"
	ParallelHashGridSearch3Name = "PointParallelHashGridSearch3"
)

var (
	registryMu sync.RWMutex
	builders2  = make(map[string]func() Searcher2)
	builders3  = make(map[string]func() Searcher3)
)

func init() {
	Register2(ListSearch2Name, func() Searcher2 { return NewListSearch2() })
	Register2(HashGridSearch2Name, func() Searcher2 {
		return NewHashGridSearch2(DefaultResolution2(), DefaultGridSpacing)
	})
	Register2(ParallelHashGridSearch2Name, func() Searcher2 {
		return NewParallelHashGridSearch2(DefaultResolution2(), DefaultGridSpacing)
	})

	Register3(ListSearch3Name, func() Searcher3 { return NewListSearch3() })
	Register3(HashGridSearch3Name, func() Searcher3 {
		return NewHashGridSearch3(DefaultResolution3(), DefaultGridSpacing)
	})
	Register3(ParallelHashGridSearch3Name, func() Searcher3 {
		return NewParallelHashGridSearch3(DefaultResolution3(), DefaultGridSpacing)
	})
}

// Register2 adds or replaces the builder for name.
func Register2(name string, build func() Searcher2) {
	registryMu.Lock()
	defer registryMu.Unlock()
	builders2[name] = build
}

// Register3 adds or replaces the builder for name.
func Register3(name string, build func() Searcher3) {
	registryMu.Lock()
	defer registryMu.Unlock()
	builders3[name] = build
}

// NewSearcher2 builds a default searcher of the named type, or returns nil
// if the name is unknown.
func NewSearcher2(name string) Searcher2 {
	registryMu.RLock()
	build, ok := builders2[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return build()
}

// NewSearcher3 builds a default searcher of the named type, or returns nil
// if the name is unknown.
func NewSearcher3(name string) Searcher3 {
	registryMu.RLock()
	build, ok := builders3[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return build()
}

func Names2() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(builders2)
}

func Names3() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(builders3)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
