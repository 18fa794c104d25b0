package misc

import "sync"

var (
	runtimeVNPolicy  = DefaultVNPolicy()
	runtimeVerbosity = 0
	runtimeStateLock sync.RWMutex
)

// SetRuntimeVNPolicy updates the global VN placement policy.
func SetRuntimeVNPolicy(policy VNPolicy) {
	runtimeStateLock.Lock()
	defer runtimeStateLock.Unlock()

	runtimeVNPolicy = policy
}

// RuntimeVNPolicy returns the currently configured VN placement policy.
func RuntimeVNPolicy() VNPolicy {
	runtimeStateLock.RLock()
	defer runtimeStateLock.RUnlock()

	return runtimeVNPolicy
}

func SetRuntimeVerbosity(level int) {
	runtimeStateLock.Lock()
	defer runtimeStateLock.Unlock()

	runtimeVerbosity = level
}

func RuntimeVerbosity() int {
	runtimeStateLock.RLock()
	defer runtimeStateLock.RUnlock()

	return runtimeVerbosity
}
