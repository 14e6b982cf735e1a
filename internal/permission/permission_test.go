package permission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/stretchr/testify/assert"
)

// countingRequester records every device call so tests can assert the
// tenant opt-out guard short-circuits before the device is touched.
type countingRequester struct {
	mu           sync.Mutex
	requestCalls map[Capability]int
	checkCalls   map[Capability]int
	grants       map[Capability]bool
	errs         map[Capability]error
}

func newCountingRequester() *countingRequester {
	return &countingRequester{
		requestCalls: make(map[Capability]int),
		checkCalls:   make(map[Capability]int),
		grants:       make(map[Capability]bool),
		errs:         make(map[Capability]error),
	}
}

func (r *countingRequester) Request(_ context.Context, capability Capability) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestCalls[capability]++
	return r.grants[capability], r.errs[capability]
}

func (r *countingRequester) Check(_ context.Context, capability Capability) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkCalls[capability]++
	return r.grants[capability], r.errs[capability]
}

func TestManager_Request_DisabledNeverTouchesDevice(t *testing.T) {
	req := newCountingRequester()
	req.grants[CapCamera] = true

	m := NewManager(req)
	m.Initialize(appconfig.Permissions{Camera: false})

	assert.False(t, m.Request(context.Background(), CapCamera))
	assert.Zero(t, req.requestCalls[CapCamera], "disabled capability must not reach the device")
}

func TestManager_Request(t *testing.T) {
	tests := []struct {
		name    string
		granted bool
		err     error
		want    bool
	}{
		{"granted", true, nil, true},
		{"denied", false, nil, false},
		{"device error fails closed", true, errors.New("prompt unavailable"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newCountingRequester()
			req.grants[CapLocation] = tt.granted
			req.errs[CapLocation] = tt.err

			m := NewManager(req)
			m.Initialize(appconfig.Permissions{Location: true})

			assert.Equal(t, tt.want, m.Request(context.Background(), CapLocation))
			assert.Equal(t, 1, req.requestCalls[CapLocation])
		})
	}
}

func TestManager_UninitializedDeniesEverything(t *testing.T) {
	req := newCountingRequester()
	m := NewManager(req)

	for _, capability := range Capabilities {
		assert.False(t, m.Request(context.Background(), capability))
	}
	assert.Empty(t, req.requestCalls)
}

func TestManager_CheckAll(t *testing.T) {
	req := newCountingRequester()
	req.grants[CapCamera] = true
	req.grants[CapPhotos] = true

	m := NewManager(req)
	m.Initialize(appconfig.Permissions{Camera: true, Photos: true, Location: true})

	status := m.CheckAll(context.Background())

	assert.Equal(t, Status{
		CapCamera:        true,
		CapPhotos:        true,
		CapFiles:         false,
		CapLocation:      false, // enabled but not granted
		CapNotifications: false,
	}, status)
	assert.Zero(t, req.requestCalls[CapCamera], "CheckAll must never prompt")
	assert.Zero(t, req.checkCalls[CapFiles], "disabled capability must not reach the device")
}

func TestManager_RequestAll(t *testing.T) {
	req := newCountingRequester()
	req.grants[CapCamera] = true
	req.errs[CapNotifications] = errors.New("prompt failed")

	m := NewManager(req)
	m.Initialize(appconfig.Permissions{Camera: true, Notifications: true})

	status := m.RequestAll(context.Background())

	assert.True(t, status[CapCamera])
	assert.False(t, status[CapNotifications], "device error degrades to denied")
	assert.False(t, status[CapPhotos])
	assert.False(t, status[CapFiles])
	assert.False(t, status[CapLocation])

	assert.Equal(t, 1, req.requestCalls[CapCamera])
	assert.Equal(t, 1, req.requestCalls[CapNotifications])
	assert.Zero(t, req.requestCalls[CapPhotos])
}

func TestStaticRequester(t *testing.T) {
	req := NewStaticRequester(CapCamera)

	granted, err := req.Request(context.Background(), CapCamera)
	assert.NoError(t, err)
	assert.True(t, granted)

	granted, err = req.Check(context.Background(), CapFiles)
	assert.NoError(t, err)
	assert.False(t, granted)

	req.SetGrant(CapFiles, true)
	granted, _ = req.Check(context.Background(), CapFiles)
	assert.True(t, granted)
}

func TestDeniedStatus(t *testing.T) {
	status := DeniedStatus()
	assert.Len(t, status, len(Capabilities))
	for _, capability := range Capabilities {
		assert.False(t, status[capability])
	}
}
