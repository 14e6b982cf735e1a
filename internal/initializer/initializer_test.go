package initializer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/feature"
	"github.com/storeforge/appcore/internal/injector"
	"github.com/storeforge/appcore/internal/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInjector struct {
	store      *appconfig.Store
	injectErrs []error
	injects    atomic.Int64
	resets     atomic.Int64
	valid      bool
}

func (f *fakeInjector) Inject(_ context.Context, req injector.AppRequest) []error {
	f.injects.Add(1)
	f.store.Update(func(c *appconfig.Config) {
		c.Store.Branding.AppName = req.AppName
		c.AppRequest = req.Request
	})
	return f.injectErrs
}

func (f *fakeInjector) Validate() bool { return f.valid }
func (f *fakeInjector) Reset()         { f.resets.Add(1); f.store.Reset() }

type fakeAssets struct {
	fontErr   error
	fontCalls atomic.Int64
}

func (f *fakeAssets) LoadFonts(context.Context, []appconfig.Font) error {
	f.fontCalls.Add(1)
	return f.fontErr
}
func (f *fakeAssets) LoadIcons(context.Context, appconfig.Icons) error   { return nil }
func (f *fakeAssets) LoadSplash(context.Context, appconfig.Splash) error { return nil }

type fakePermissions struct {
	requests atomic.Int64
	status   permission.Status
}

func (f *fakePermissions) RequestAll(context.Context) permission.Status {
	f.requests.Add(1)
	return f.status
}

type fakeAnalytics struct {
	initErr error
	inits   atomic.Int64
	resets  atomic.Int64
}

func (f *fakeAnalytics) Initialize(context.Context, appconfig.Analytics) error {
	f.inits.Add(1)
	return f.initErr
}
func (f *fakeAnalytics) Reset() { f.resets.Add(1) }

type fakePush struct {
	initErr    error
	inits      atomic.Int64
	subscribed atomic.Int64
	resets     atomic.Int64
}

func (f *fakePush) Initialize(context.Context, appconfig.Push) error {
	f.inits.Add(1)
	return f.initErr
}
func (f *fakePush) SubscribeDefaults(context.Context, appconfig.AndroidPush) {
	f.subscribed.Add(1)
}
func (f *fakePush) Reset() { f.resets.Add(1) }

type fakeNotifications struct {
	initErr error
	resets  atomic.Int64
}

func (f *fakeNotifications) Initialize() error { return f.initErr }
func (f *fakeNotifications) Reset()            { f.resets.Add(1) }

type harness struct {
	store         *appconfig.Store
	injector      *fakeInjector
	assets        *fakeAssets
	permissions   *fakePermissions
	analytics     *fakeAnalytics
	push          *fakePush
	notifications *fakeNotifications
	init          *Initializer
}

func newHarness() *harness {
	h := &harness{
		store:         appconfig.NewStore(),
		assets:        &fakeAssets{},
		permissions:   &fakePermissions{status: permission.DeniedStatus()},
		analytics:     &fakeAnalytics{},
		push:          &fakePush{},
		notifications: &fakeNotifications{},
	}
	h.injector = &fakeInjector{store: h.store, valid: true}
	h.init = New(h.store, h.injector, h.assets, h.permissions, h.analytics, h.push, h.notifications)
	return h
}

func fullRequest() injector.AppRequest {
	return injector.AppRequest{
		AppName: "Acme Store",
		Request: appconfig.AppRequest{
			Fonts:       []appconfig.Font{{FamilyName: "Inter", URL: "https://cdn/inter.ttf", Weight: 400, Style: "normal"}},
			Permissions: appconfig.Permissions{Camera: true, Notifications: true},
			Analytics:   appconfig.Analytics{GA4ID: "G-123"},
			Push:        appconfig.Push{FCMServerKey: "server-key"},
		},
	}
}

func allOptions(req injector.AppRequest) Options {
	return Options{
		Request:                req,
		ValidateConfiguration:  true,
		LoadCustomAssets:       true,
		AutoRequestPermissions: true,
	}
}

func TestInitializer_FullRun(t *testing.T) {
	h := newHarness()

	res := h.init.Initialize(context.Background(), allOptions(fullRequest()))

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Contains(t, res.Features, feature.Camera)
	assert.Contains(t, res.Features, feature.Analytics)
	assert.Contains(t, res.Features, feature.Push)

	assert.EqualValues(t, 1, h.injector.injects.Load())
	assert.EqualValues(t, 1, h.assets.fontCalls.Load())
	assert.EqualValues(t, 1, h.analytics.inits.Load())
	assert.EqualValues(t, 1, h.push.inits.Load())
	assert.EqualValues(t, 1, h.push.subscribed.Load())
	assert.EqualValues(t, 1, h.permissions.requests.Load())
	assert.True(t, h.init.Initialized())
}

func TestInitializer_OptionalStepsSkipped(t *testing.T) {
	h := newHarness()

	res := h.init.Initialize(context.Background(), Options{Request: fullRequest()})

	assert.True(t, res.Success)
	assert.EqualValues(t, 0, h.assets.fontCalls.Load())
	assert.EqualValues(t, 0, h.permissions.requests.Load())
	// No permission step still reports every capability, denied.
	assert.Equal(t, permission.DeniedStatus(), res.Permissions)
}

func TestInitializer_ProvidersSkippedWhenDisabled(t *testing.T) {
	h := newHarness()

	res := h.init.Initialize(context.Background(), allOptions(injector.AppRequest{AppName: "Plain"}))

	assert.True(t, res.Success)
	assert.EqualValues(t, 0, h.analytics.inits.Load())
	assert.EqualValues(t, 0, h.push.inits.Load())
}

func TestInitializer_SecondCallSynthesizesResult(t *testing.T) {
	h := newHarness()
	h.injector.valid = false // first run carries a validation warning

	first := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	require.True(t, first.Success)
	require.Contains(t, first.Warnings, "configuration validation failed")

	second := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	assert.True(t, second.Success)
	assert.Equal(t, first.Features, second.Features)
	// Synthesized fresh, not a replay: exactly the one warning, no errors,
	// empty permission map.
	assert.Equal(t, []string{"App already initialized"}, second.Warnings)
	assert.Empty(t, second.Errors)
	assert.Empty(t, second.Permissions)
	assert.NotNil(t, second.Permissions)

	// Nothing re-ran.
	assert.EqualValues(t, 1, h.injector.injects.Load())
	assert.EqualValues(t, 1, h.assets.fontCalls.Load())
	assert.EqualValues(t, 1, h.permissions.requests.Load())
}

func TestInitializer_ConcurrentCallsCollapse(t *testing.T) {
	h := newHarness()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]Result, callers)
	for n := 0; n < callers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = h.init.Initialize(context.Background(), allOptions(fullRequest()))
		}(n)
	}
	wg.Wait()

	assert.EqualValues(t, 1, h.injector.injects.Load())
	for _, res := range results {
		assert.True(t, res.Success)
	}
}

func TestInitializer_AbortStepFailure(t *testing.T) {
	h := newHarness()
	h.analytics.initErr = errors.New("bad sentry dsn")
	granted := permission.DeniedStatus()
	granted[permission.CapCamera] = true
	h.permissions.status = granted

	res := h.init.Initialize(context.Background(), allOptions(fullRequest()))

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "initialize analytics")

	// Permissions run before the provider steps, so the grants obtained
	// before the abort are kept; the feature list degrades to empty.
	assert.EqualValues(t, 1, h.permissions.requests.Load())
	assert.True(t, res.Permissions[permission.CapCamera])
	assert.Empty(t, res.Features)

	// The sequence stopped at the failing step.
	assert.EqualValues(t, 0, h.push.inits.Load())

	// The failure is cached and replayed verbatim: initialized stays false,
	// no retry happens.
	assert.False(t, h.init.Initialized())
	again := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	assert.Equal(t, res, again)
	assert.EqualValues(t, 1, h.injector.injects.Load())
	assert.EqualValues(t, 1, h.analytics.inits.Load())
	assert.EqualValues(t, 1, h.permissions.requests.Load())
}

func TestInitializer_AssetFailureAborts(t *testing.T) {
	h := newHarness()
	h.assets.fontErr = errors.New("cdn unreachable")

	res := h.init.Initialize(context.Background(), allOptions(fullRequest()))

	assert.False(t, res.Success)
	assert.Empty(t, res.Features)
	assert.EqualValues(t, 0, h.permissions.requests.Load())
	assert.EqualValues(t, 0, h.analytics.inits.Load())
	assert.False(t, h.init.Initialized())
}

func TestInitializer_BestEffortFailuresBecomeWarnings(t *testing.T) {
	h := newHarness()
	h.injector.injectErrs = []error{errors.New("load icons: boom")}
	h.injector.valid = false

	opts := allOptions(fullRequest())
	opts.LoadCustomAssets = false
	res := h.init.Initialize(context.Background(), opts)

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Contains(t, res.Warnings, "inject configuration: load icons: boom")
	assert.Contains(t, res.Warnings, "configuration validation failed")
}

func TestInitializer_FeatureReady(t *testing.T) {
	h := newHarness()

	assert.False(t, h.init.FeatureReady(feature.Camera))

	res := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	require.True(t, res.Success)

	assert.True(t, h.init.FeatureReady(feature.Camera))
	assert.False(t, h.init.FeatureReady(feature.Location))
}

func TestInitializer_Reset(t *testing.T) {
	h := newHarness()

	res := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	require.True(t, res.Success)

	h.init.Reset()

	assert.False(t, h.init.Initialized())
	assert.EqualValues(t, 1, h.injector.resets.Load())
	assert.EqualValues(t, 1, h.analytics.resets.Load())
	assert.EqualValues(t, 1, h.push.resets.Load())
	assert.EqualValues(t, 1, h.notifications.resets.Load())

	again := h.init.Initialize(context.Background(), allOptions(fullRequest()))
	assert.True(t, again.Success)
	assert.EqualValues(t, 2, h.injector.injects.Load())
}
