package permission

import (
	"context"
	"sync"
)

// StaticRequester is a Requester backed by a fixed grant table. It stands in
// for the device bridge on headless runtimes and in local development; a
// mobile shell plugs in its own Requester instead.
type StaticRequester struct {
	mu     sync.RWMutex
	grants map[Capability]bool
}

// NewStaticRequester creates a StaticRequester granting the listed
// capabilities and denying everything else.
func NewStaticRequester(granted ...Capability) *StaticRequester {
	grants := make(map[Capability]bool, len(granted))
	for _, capability := range granted {
		grants[capability] = true
	}
	return &StaticRequester{grants: grants}
}

// Request reports the configured grant for the capability.
func (r *StaticRequester) Request(_ context.Context, capability Capability) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[capability], nil
}

// Check reports the configured grant for the capability.
func (r *StaticRequester) Check(_ context.Context, capability Capability) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[capability], nil
}

// SetGrant updates the grant table.
func (r *StaticRequester) SetGrant(capability Capability, granted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[capability] = granted
}
