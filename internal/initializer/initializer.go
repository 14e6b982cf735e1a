// Package initializer drives the one-shot application boot sequence:
// configuration injection, asset loading, provider setup, and permission
// prompts, in a fixed order with per-step failure policy.
package initializer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/feature"
	"github.com/storeforge/appcore/internal/injector"
	"github.com/storeforge/appcore/internal/metrics"
	"github.com/storeforge/appcore/internal/permission"
)

// ConfigInjector applies the tenant payload to the configuration store.
type ConfigInjector interface {
	Inject(ctx context.Context, req injector.AppRequest) []error
	Validate() bool
	Reset()
}

// AssetLoader is the explicit asset step surface.
type AssetLoader interface {
	LoadFonts(ctx context.Context, fonts []appconfig.Font) error
	LoadIcons(ctx context.Context, icons appconfig.Icons) error
	LoadSplash(ctx context.Context, splash appconfig.Splash) error
}

// PermissionRequester prompts for all enabled capabilities.
type PermissionRequester interface {
	RequestAll(ctx context.Context) permission.Status
}

// AnalyticsManager wires the analytics providers from injected config.
type AnalyticsManager interface {
	Initialize(ctx context.Context, cfg appconfig.Analytics) error
	Reset()
}

// PushManager wires the platform push provider from injected config.
type PushManager interface {
	Initialize(ctx context.Context, cfg appconfig.Push) error
	SubscribeDefaults(ctx context.Context, cfg appconfig.AndroidPush)
	Reset()
}

// NotificationService is the always-on local notification surface.
type NotificationService interface {
	Initialize() error
	Reset()
}

// Options selects which optional steps the boot sequence runs.
type Options struct {
	Request                injector.AppRequest
	ValidateConfiguration  bool
	LoadCustomAssets       bool
	AutoRequestPermissions bool
}

// Result is the recorded outcome of an initialization run. Once produced it
// is returned verbatim to every later caller.
type Result struct {
	Success     bool              `json:"success"`
	Features    []string          `json:"features"`
	Permissions permission.Status `json:"permissions"`
	Errors      []string          `json:"errors,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// stepPolicy decides what a step failure does to the run.
type stepPolicy int

const (
	// policyBestEffort records the failure as a warning and continues.
	policyBestEffort stepPolicy = iota
	// policyAbort records the failure as an error, marks the run failed, and
	// stops the sequence.
	policyAbort
)

type step struct {
	name   string
	policy stepPolicy
	run    func(ctx context.Context, res *Result) error
}

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateDone
)

// Initializer runs the boot sequence exactly once. Concurrent callers join
// the in-flight run. After a successful run later callers get a synthesized
// already-initialized result; a failed run is cached and replayed verbatim,
// there is no automatic retry.
type Initializer struct {
	store         *appconfig.Store
	injector      ConfigInjector
	assets        AssetLoader
	permissions   PermissionRequester
	analytics     AnalyticsManager
	push          PushManager
	notifications NotificationService

	mu     sync.Mutex
	state  runState
	done   chan struct{}
	result Result
}

// New wires the initializer over its collaborators.
func New(
	store *appconfig.Store,
	inj ConfigInjector,
	assets AssetLoader,
	permissions PermissionRequester,
	analytics AnalyticsManager,
	push PushManager,
	notifications NotificationService,
) *Initializer {
	return &Initializer{
		store:         store,
		injector:      inj,
		assets:        assets,
		permissions:   permissions,
		analytics:     analytics,
		push:          push,
		notifications: notifications,
	}
}

// Initialize runs the boot sequence, or joins/returns the existing run.
func (i *Initializer) Initialize(ctx context.Context, opts Options) Result {
	i.mu.Lock()
	switch i.state {
	case stateDone:
		res := i.result
		i.mu.Unlock()
		// A cached failure is replayed as-is. After success the caller gets
		// a fresh result synthesized from current state, not a replay of the
		// first run's permissions and warnings.
		if !res.Success {
			return res
		}
		log.Warn().Msg("App already initialized")
		return Result{
			Success:     true,
			Features:    feature.Enabled(i.store.Snapshot()),
			Permissions: permission.Status{},
			Warnings:    []string{"App already initialized"},
		}
	case stateRunning:
		done := i.done
		i.mu.Unlock()
		<-done
		i.mu.Lock()
		res := i.result
		i.mu.Unlock()
		return res
	}

	i.state = stateRunning
	i.done = make(chan struct{})
	done := i.done
	i.mu.Unlock()

	res := i.run(ctx, opts)

	i.mu.Lock()
	i.state = stateDone
	i.result = res
	i.mu.Unlock()
	close(done)

	return res
}

func (i *Initializer) run(ctx context.Context, opts Options) Result {
	start := time.Now()
	res := Result{Success: true, Permissions: permission.DeniedStatus()}

	steps := i.steps(opts)
	for _, s := range steps {
		err := s.run(ctx, &res)
		if err == nil {
			continue
		}
		switch s.policy {
		case policyBestEffort:
			log.Warn().Err(err).Str("step", s.name).Msg("Initialization step degraded")
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", s.name, err))
		case policyAbort:
			log.Error().Err(err).Str("step", s.name).Msg("Initialization step failed")
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", s.name, err))
			res.Success = false
		}
		if !res.Success {
			break
		}
	}

	// Features are computed only after the whole sequence ran. A failed run
	// degrades to an empty feature list.
	if res.Success {
		res.Features = feature.Enabled(i.store.Snapshot())
	} else {
		res.Features = []string{}
	}

	status := "success"
	if !res.Success {
		status = "failure"
	}
	metrics.RecordInitialization(time.Since(start), status)
	log.Info().
		Bool("success", res.Success).
		Strs("features", res.Features).
		Dur("duration", time.Since(start)).
		Msg("App initialization finished")
	return res
}

// steps assembles the ordered boot sequence for the given options.
func (i *Initializer) steps(opts Options) []step {
	steps := []step{
		{name: "inject configuration", policy: policyBestEffort, run: func(ctx context.Context, res *Result) error {
			errs := i.injector.Inject(ctx, opts.Request)
			for _, err := range errs {
				res.Warnings = append(res.Warnings, fmt.Sprintf("inject configuration: %v", err))
			}
			return nil
		}},
	}

	if opts.ValidateConfiguration {
		steps = append(steps, step{name: "validate configuration", policy: policyBestEffort, run: func(_ context.Context, res *Result) error {
			if !i.injector.Validate() {
				res.Warnings = append(res.Warnings, "configuration validation failed")
			}
			return nil
		}})
	}

	if opts.LoadCustomAssets {
		steps = append(steps, step{name: "load custom assets", policy: policyAbort, run: func(ctx context.Context, _ *Result) error {
			cfg := i.store.Snapshot()
			if len(cfg.AppRequest.Fonts) > 0 {
				if err := i.assets.LoadFonts(ctx, cfg.AppRequest.Fonts); err != nil {
					return err
				}
			}
			if cfg.AppRequest.Icons.AppIconURL != "" {
				if err := i.assets.LoadIcons(ctx, cfg.AppRequest.Icons); err != nil {
					return err
				}
			}
			if cfg.AppRequest.Splash.ImageURL != "" {
				if err := i.assets.LoadSplash(ctx, cfg.AppRequest.Splash); err != nil {
					return err
				}
			}
			return nil
		}})
	}

	// Permissions are requested before the provider steps so that an
	// analytics or push failure aborting the run keeps the grants already
	// obtained.
	if opts.AutoRequestPermissions {
		steps = append(steps, step{name: "request permissions", policy: policyBestEffort, run: func(ctx context.Context, res *Result) error {
			res.Permissions = i.permissions.RequestAll(ctx)
			return nil
		}})
	}

	steps = append(steps,
		step{name: "initialize analytics", policy: policyAbort, run: func(ctx context.Context, _ *Result) error {
			cfg := i.store.Snapshot()
			if !feature.AnalyticsEnabled(cfg) {
				return nil
			}
			return i.analytics.Initialize(ctx, cfg.AppRequest.Analytics)
		}},
		step{name: "initialize push", policy: policyAbort, run: func(ctx context.Context, _ *Result) error {
			cfg := i.store.Snapshot()
			if !feature.PushEnabled(cfg) {
				return nil
			}
			if err := i.push.Initialize(ctx, cfg.AppRequest.Push); err != nil {
				return err
			}
			i.push.SubscribeDefaults(ctx, cfg.AppRequest.Push.Android)
			return nil
		}},
		step{name: "initialize notifications", policy: policyAbort, run: func(_ context.Context, _ *Result) error {
			return i.notifications.Initialize()
		}},
	)

	return steps
}

// Initialized reports whether a run completed successfully. A failed run
// leaves this false even though its result is cached.
func (i *Initializer) Initialized() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state == stateDone && i.result.Success
}

// Result returns the cached run result, and whether a run has completed.
func (i *Initializer) Result() (Result, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.result, i.state == stateDone
}

// FeatureReady reports whether initialization succeeded and the named
// feature is enabled by the current configuration.
func (i *Initializer) FeatureReady(name string) bool {
	if !i.Initialized() {
		return false
	}
	return feature.Summary(i.store.Snapshot())[name]
}

// Reset tears the runtime back to its pre-boot state so Initialize can run
// again. Intended for tests and development resets.
func (i *Initializer) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.injector.Reset()
	i.analytics.Reset()
	i.push.Reset()
	i.notifications.Reset()

	i.state = stateIdle
	i.done = nil
	i.result = Result{}
	log.Info().Msg("Initializer reset")
}
