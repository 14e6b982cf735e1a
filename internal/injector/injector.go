// Package injector applies an inbound tenant app request to the runtime
// configuration store and fans the result out to the permission manager and
// asset cache.
package injector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/feature"
	"github.com/storeforge/appcore/internal/permission"
)

// AssetCache is the slice of the asset loader the injector needs.
type AssetCache interface {
	LoadFonts(ctx context.Context, fonts []appconfig.Font) error
	LoadIcons(ctx context.Context, icons appconfig.Icons) error
	LoadSplash(ctx context.Context, splash appconfig.Splash) error
	ClearCache() error
}

// AppRequest is the inbound payload: branding plus the appconfig request
// sub-tree the tenant configured.
type AppRequest struct {
	AppName string
	LogoURL string
	Colors  appconfig.Colors
	Request appconfig.AppRequest
}

// Summary is a read-only projection of the injected configuration for
// diagnostics endpoints.
type Summary struct {
	AppName     string                `json:"app_name"`
	StoreID     string                `json:"store_id"`
	Theme       appconfig.Theme       `json:"theme"`
	Identifiers appconfig.Identifiers `json:"identifiers"`
	Features    map[string]bool       `json:"features"`
	Permissions appconfig.Permissions `json:"permissions"`
	FontCount   int                   `json:"font_count"`
}

// Injector writes tenant app requests into the configuration store.
type Injector struct {
	store       *appconfig.Store
	permissions *permission.Manager
	assets      AssetCache
}

// New creates an Injector over the given collaborators.
func New(store *appconfig.Store, permissions *permission.Manager, assets AssetCache) *Injector {
	return &Injector{store: store, permissions: permissions, assets: assets}
}

// Inject applies the payload in four stages: branding, permissions, assets,
// provider keys. Each stage is independently recovered: a failing stage is
// logged and reported, later stages still run, and nothing already applied
// is rolled back. Partial injection is accepted state.
func (in *Injector) Inject(ctx context.Context, req AppRequest) []error {
	var errs []error

	// Stage 1: branding. One atomic store update; the theme is derived from
	// it, so there is no second copy to keep in sync.
	in.store.Update(func(c *appconfig.Config) {
		if req.AppName != "" {
			c.Store.Name = req.AppName
			c.Store.Branding.AppName = req.AppName
		}
		if req.LogoURL != "" {
			c.Store.Branding.LogoURL = req.LogoURL
		}
		if req.Colors != (appconfig.Colors{}) {
			c.Store.Branding.Colors = req.Colors
		}
		c.AppRequest.Identifiers = req.Request.Identifiers
	})

	// Stage 2: permission opt-ins.
	in.store.Update(func(c *appconfig.Config) {
		c.AppRequest.Permissions = req.Request.Permissions
	})
	in.permissions.Initialize(req.Request.Permissions)

	// Stage 3: assets. Awaited here so boot-time injection leaves the cache
	// warm; failures are reported but do not block the remaining stages.
	in.store.Update(func(c *appconfig.Config) {
		c.AppRequest.Fonts = req.Request.Fonts
		c.AppRequest.Icons = req.Request.Icons
		c.AppRequest.Splash = req.Request.Splash
	})
	if len(req.Request.Fonts) > 0 {
		if err := in.assets.LoadFonts(ctx, req.Request.Fonts); err != nil {
			errs = append(errs, fmt.Errorf("load fonts: %w", err))
			log.Warn().Err(err).Msg("Font injection stage failed")
		}
	}
	if req.Request.Icons.AppIconURL != "" {
		if err := in.assets.LoadIcons(ctx, req.Request.Icons); err != nil {
			errs = append(errs, fmt.Errorf("load icons: %w", err))
			log.Warn().Err(err).Msg("Icon injection stage failed")
		}
	}
	if req.Request.Splash.ImageURL != "" {
		if err := in.assets.LoadSplash(ctx, req.Request.Splash); err != nil {
			errs = append(errs, fmt.Errorf("load splash: %w", err))
			log.Warn().Err(err).Msg("Splash injection stage failed")
		}
	}

	// Stage 4: provider keys. Provider initialization itself is deferred to
	// the analytics and push managers reading these flags later.
	in.store.Update(func(c *appconfig.Config) {
		c.AppRequest.Analytics = req.Request.Analytics
		c.AppRequest.Push = req.Request.Push
	})

	log.Info().
		Str("app_name", req.AppName).
		Int("fonts", len(req.Request.Fonts)).
		Int("stage_errors", len(errs)).
		Msg("App request injected")
	return errs
}

// Validate inspects the injected configuration. It returns false with a
// warning when the app name is missing; the result is advisory, callers are
// expected to proceed either way.
func (in *Injector) Validate() bool {
	cfg := in.store.Snapshot()

	if cfg.Store.Branding.AppName == "" {
		log.Warn().Msg("Configuration validation: app name is empty")
		return false
	}

	log.Info().
		Strs("features", feature.Enabled(cfg)).
		Bool("analytics", feature.AnalyticsEnabled(cfg)).
		Bool("push", feature.PushEnabled(cfg)).
		Msg("Configuration validated")
	return true
}

// GetSummary returns a read-only projection of the current configuration.
func (in *Injector) GetSummary() Summary {
	cfg := in.store.Snapshot()
	return Summary{
		AppName:     cfg.Store.Branding.AppName,
		StoreID:     cfg.Store.ID,
		Theme:       cfg.Theme(),
		Identifiers: cfg.AppRequest.Identifiers,
		Features:    feature.Summary(cfg),
		Permissions: cfg.AppRequest.Permissions,
		FontCount:   len(cfg.AppRequest.Fonts),
	}
}

// Reset restores the default configuration and clears the asset cache.
// Intended for tests and development resets.
func (in *Injector) Reset() {
	in.store.Reset()
	in.permissions.Initialize(appconfig.Permissions{})
	if err := in.assets.ClearCache(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear asset cache during reset")
	}
}
