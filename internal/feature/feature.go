// Package feature computes feature flags from the tenant configuration.
// Every predicate is a pure function over a config snapshot: no caching, no
// side effects, and missing or empty fields always resolve to false.
package feature

import "github.com/storeforge/appcore/internal/appconfig"

// Feature name identifiers, in the order they are reported.
const (
	Camera        = "camera"
	Photos        = "photos"
	Files         = "files"
	Location      = "location"
	Notifications = "notifications"
	Analytics     = "analytics"
	Push          = "push"
	CustomFonts   = "custom_fonts"
	CustomIcons   = "custom_icons"
	CustomSplash  = "custom_splash"
)

// CameraEnabled reports whether the tenant opted into the camera capability.
func CameraEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Permissions.Camera
}

// PhotosEnabled reports whether the tenant opted into the photo library.
func PhotosEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Permissions.Photos
}

// FilesEnabled reports whether the tenant opted into file access.
func FilesEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Permissions.Files
}

// LocationEnabled reports whether the tenant opted into location access.
func LocationEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Permissions.Location
}

// NotificationsEnabled reports whether the tenant opted into notifications.
func NotificationsEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Permissions.Notifications
}

// GA4Enabled reports whether a GA4 measurement ID is configured.
func GA4Enabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Analytics.GA4ID != ""
}

// SentryEnabled reports whether a Sentry DSN is configured.
func SentryEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Analytics.SentryDSN != ""
}

// AnalyticsEnabled reports whether any analytics provider is configured.
func AnalyticsEnabled(cfg *appconfig.Config) bool {
	return GA4Enabled(cfg) || SentryEnabled(cfg)
}

// FCMEnabled reports whether FCM push is configured.
func FCMEnabled(cfg *appconfig.Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.AppRequest.Push.FCMServerKey != ""
}

// APNSEnabled reports whether APNS push is configured.
func APNSEnabled(cfg *appconfig.Config) bool {
	if cfg == nil {
		return false
	}
	apns := cfg.AppRequest.Push.APNS
	return apns.KeyID != "" && apns.TeamID != ""
}

// PushEnabled reports whether any push provider is configured.
func PushEnabled(cfg *appconfig.Config) bool {
	return FCMEnabled(cfg) || APNSEnabled(cfg)
}

// CustomFontsEnabled reports whether the tenant ships custom fonts.
func CustomFontsEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && len(cfg.AppRequest.Fonts) > 0
}

// CustomIconsEnabled reports whether the tenant ships custom icons.
func CustomIconsEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Icons.AppIconURL != ""
}

// CustomSplashEnabled reports whether the tenant ships a custom splash screen.
func CustomSplashEnabled(cfg *appconfig.Config) bool {
	return cfg != nil && cfg.AppRequest.Splash.ImageURL != ""
}

// ordered fixes the reporting order of features. Enabled and Summary iterate
// this list so output order is stable across calls.
var ordered = []struct {
	name string
	pred func(*appconfig.Config) bool
}{
	{Camera, CameraEnabled},
	{Photos, PhotosEnabled},
	{Files, FilesEnabled},
	{Location, LocationEnabled},
	{Notifications, NotificationsEnabled},
	{Analytics, AnalyticsEnabled},
	{Push, PushEnabled},
	{CustomFonts, CustomFontsEnabled},
	{CustomIcons, CustomIconsEnabled},
	{CustomSplash, CustomSplashEnabled},
}

// Enabled returns the names of all enabled features in declaration order.
func Enabled(cfg *appconfig.Config) []string {
	features := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if f.pred(cfg) {
			features = append(features, f.name)
		}
	}
	return features
}

// Summary returns the enabled state of every feature as a map.
func Summary(cfg *appconfig.Config) map[string]bool {
	summary := make(map[string]bool, len(ordered))
	for _, f := range ordered {
		summary[f.name] = f.pred(cfg)
	}
	return summary
}
