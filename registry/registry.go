package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rediwo/redi-pgconf/types"
)

// connectors holds every registered driver connector
var (
	connectors = make(map[string]types.Connector)
	mu         sync.RWMutex
)

// Register registers a connector under name. Registering the same name
// twice panics.
func Register(name string, connector types.Connector) {
	mu.Lock()
	defer mu.Unlock()

	if connector == nil {
		panic(fmt.Sprintf("connector %s is nil", name))
	}
	if _, exists := connectors[name]; exists {
		panic(fmt.Sprintf("connector %s already registered", name))
	}

	connectors[name] = connector
}

// Get retrieves a registered connector
func Get(name string) (types.Connector, error) {
	mu.RLock()
	defer mu.RUnlock()

	connector, exists := connectors[name]
	if !exists {
		return nil, fmt.Errorf("driver %q not registered (available: %v)", name, namesLocked())
	}

	return connector, nil
}

// Names returns the registered connector names in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
