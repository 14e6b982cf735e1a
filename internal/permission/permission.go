// Package permission gates device capability requests behind the tenant's
// permission opt-ins. A capability the tenant disabled is never requested
// from the device, and any device-level failure degrades to denied.
package permission

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Capability identifies one device capability.
type Capability string

const (
	CapCamera        Capability = "camera"
	CapPhotos        Capability = "photos"
	CapFiles         Capability = "files"
	CapLocation      Capability = "location"
	CapNotifications Capability = "notifications"
)

// Capabilities lists every capability in declaration order.
var Capabilities = []Capability{CapCamera, CapPhotos, CapFiles, CapLocation, CapNotifications}

// Status maps each capability to its granted state.
type Status map[Capability]bool

// DeniedStatus returns a status with every capability denied.
func DeniedStatus() Status {
	status := make(Status, len(Capabilities))
	for _, capability := range Capabilities {
		status[capability] = false
	}
	return status
}

// Requester is the bridge to the device permission APIs. Request may show a
// prompt; Check must be read-only.
type Requester interface {
	Request(ctx context.Context, capability Capability) (bool, error)
	Check(ctx context.Context, capability Capability) (bool, error)
}

// Manager applies the tenant's permission opt-ins to a Requester.
type Manager struct {
	mu        sync.RWMutex
	cfg       appconfig.Permissions
	requester Requester
}

// NewManager creates a Manager delegating to the given requester. All
// capabilities stay disabled until Initialize is called.
func NewManager(requester Requester) *Manager {
	return &Manager{requester: requester}
}

// Initialize sets the tenant's desired permission flags.
func (m *Manager) Initialize(cfg appconfig.Permissions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// Config returns the tenant's desired permission flags.
func (m *Manager) Config() appconfig.Permissions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// enabled reports whether the tenant opted into a capability.
func (m *Manager) enabled(capability Capability) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch capability {
	case CapCamera:
		return m.cfg.Camera
	case CapPhotos:
		return m.cfg.Photos
	case CapFiles:
		return m.cfg.Files
	case CapLocation:
		return m.cfg.Location
	case CapNotifications:
		return m.cfg.Notifications
	default:
		return false
	}
}

// Request asks the device to grant a capability. The tenant opt-out guard
// runs first: a disabled capability returns false without touching the
// device. A requester failure is logged and treated as denied.
func (m *Manager) Request(ctx context.Context, capability Capability) bool {
	if !m.enabled(capability) {
		return false
	}

	granted, err := m.requester.Request(ctx, capability)
	if err != nil {
		log.Warn().
			Str("capability", string(capability)).
			Err(err).
			Msg("Permission request failed, treating as denied")
		metrics.RecordPermissionRequest(string(capability), "error")
		return false
	}

	metrics.RecordPermissionRequest(string(capability), map[bool]string{true: "granted", false: "denied"}[granted])
	return granted
}

// Check returns the current grant state of a capability without prompting.
// Disabled capabilities are always denied.
func (m *Manager) Check(ctx context.Context, capability Capability) bool {
	if !m.enabled(capability) {
		return false
	}

	granted, err := m.requester.Check(ctx, capability)
	if err != nil {
		log.Warn().
			Str("capability", string(capability)).
			Err(err).
			Msg("Permission check failed, treating as denied")
		return false
	}
	return granted
}

// CheckAll returns the grant state of every capability. Read-only: it never
// triggers a prompt, and disabled capabilities stay denied without a device
// call.
func (m *Manager) CheckAll(ctx context.Context) Status {
	status := DeniedStatus()
	for _, capability := range Capabilities {
		if m.enabled(capability) {
			status[capability] = m.Check(ctx, capability)
		}
	}
	return status
}

// RequestAll requests every enabled capability concurrently and assembles
// the resulting status. Disabled capabilities are hard-set to denied without
// a request being issued. A single capability failure never aborts the batch.
func (m *Manager) RequestAll(ctx context.Context) Status {
	status := DeniedStatus()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, capability := range Capabilities {
		if !m.enabled(capability) {
			continue
		}
		g.Go(func() error {
			granted := m.Request(gctx, capability)
			mu.Lock()
			status[capability] = granted
			mu.Unlock()
			return nil
		})
	}
	// Goroutines only return nil; Wait is for completion.
	_ = g.Wait()

	return status
}
