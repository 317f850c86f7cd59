package test

import (
	"fmt"
	"sync"
)

// testDSNRegistry holds the connection strings integration tests run against
var (
	testDSNRegistry = make(map[string]string)
	registryMutex   sync.RWMutex
)

// RegisterTestDSN registers the test connection string for a driver
func RegisterTestDSN(driver string, dsn string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	testDSNRegistry[driver] = dsn
}

// GetTestDSN returns the test connection string for a driver
func GetTestDSN(driver string) string {
	registryMutex.RLock()
	dsn, exists := testDSNRegistry[driver]
	registryMutex.RUnlock()

	if !exists {
		panic(fmt.Sprintf("no test DSN registered for driver: %s", driver))
	}

	return dsn
}
