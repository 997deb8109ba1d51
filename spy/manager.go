package spy

import (
	"fmt"
	"reflect"
	"sync"
)

// Driver-manager registry state. Registration is process-wide: discovery
// enumerates every driver registered here, not just the ones the facade
// loaded itself, so drivers registered by other parties are visible too.
var (
	managerMu      sync.RWMutex
	managerDrivers []Driver
)

// RegisterDriver adds d to the process-wide driver registry. Discovery
// scans drivers in registration order. Registering nil or the same
// driver instance twice is an error. Duplicate detection needs the
// driver's dynamic type to be comparable (any pointer type is);
// drivers of non-comparable value types register unchecked.
func RegisterDriver(d Driver) error {
	if d == nil {
		return fmt.Errorf("register driver: driver is nil")
	}
	comparable := reflect.TypeOf(d).Comparable()
	managerMu.Lock()
	defer managerMu.Unlock()
	for _, existing := range managerDrivers {
		if comparable && existing == d {
			return fmt.Errorf("register driver: %q already registered", d.Name())
		}
	}
	managerDrivers = append(managerDrivers, d)
	return nil
}

// Drivers returns a snapshot of the registered drivers in registration
// order. The slice is a copy; callers may not mutate registry state
// through it.
func Drivers() []Driver {
	managerMu.RLock()
	defer managerMu.RUnlock()
	out := make([]Driver, len(managerDrivers))
	copy(out, managerDrivers)
	return out
}

// resetDrivers clears the registry. Tests only.
func resetDrivers() {
	managerMu.Lock()
	managerDrivers = nil
	managerMu.Unlock()
}
