// Package assets downloads and caches tenant branding assets (fonts, icons,
// splash screens) on local storage. Caching is download-if-absent keyed by
// logical name: when the file already exists it is never fetched again, and
// the only invalidation is an explicit ClearCache.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Cache directory names under the loader base directory.
const (
	fontsDir  = "fonts"
	iconsDir  = "icons"
	splashDir = "splash"
)

// Fixed cache filenames for icon and splash assets.
const (
	appIconFile      = "app-icon.png"
	adaptiveIconFile = "adaptive-icon.png"
	splashFile       = "splash.png"
	splashDarkFile   = "splash-dark.png"
)

// FontRegistry registers a downloaded font with the platform font registry.
type FontRegistry interface {
	Register(key, path string) error
}

// noopRegistry is used when no platform registry is plugged in.
type noopRegistry struct{}

func (noopRegistry) Register(string, string) error { return nil }

// Loader caches tenant assets under a base directory. The in-memory font map
// is only a fast "already registered" check; the filesystem is authoritative.
type Loader struct {
	baseDir    string
	downloader Downloader
	registry   FontRegistry

	mu          sync.Mutex
	loadedFonts map[string]string // registry key -> cached file path
}

// Option configures a Loader.
type Option func(*Loader)

// WithFontRegistry sets the platform font registry.
func WithFontRegistry(r FontRegistry) Option {
	return func(l *Loader) {
		if r != nil {
			l.registry = r
		}
	}
}

// NewLoader creates a Loader caching under baseDir.
func NewLoader(baseDir string, downloader Downloader, opts ...Option) *Loader {
	l := &Loader{
		baseDir:     baseDir,
		downloader:  downloader,
		registry:    noopRegistry{},
		loadedFonts: make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FontKey returns the registry key for a font: "<family>-<weight>".
func FontKey(f appconfig.Font) string {
	return fmt.Sprintf("%s-%d", f.FamilyName, f.Weight)
}

// FontPath returns the deterministic cache path for a font:
// <base>/fonts/<family>-<weight>-<style>.ttf.
func (l *Loader) FontPath(f appconfig.Font) string {
	return filepath.Join(l.baseDir, fontsDir, fmt.Sprintf("%s-%d-%s.ttf", f.FamilyName, f.Weight, f.Style))
}

// FontLoaded reports whether a font has been registered in this process.
func (l *Loader) FontLoaded(f appconfig.Font) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loadedFonts[FontKey(f)]
	return ok
}

// LoadFonts downloads and registers every font descriptor concurrently.
// A single font failure is logged and skipped; the batch is best-effort
// because the app must still boot without custom fonts. The returned error
// is reserved for infrastructure failures (cache directory unusable).
func (l *Loader) LoadFonts(ctx context.Context, fonts []appconfig.Font) error {
	if len(fonts) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(l.baseDir, fontsDir), 0o755); err != nil {
		return fmt.Errorf("create font cache directory: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, font := range fonts {
		g.Go(func() error {
			if err := l.loadFont(gctx, font); err != nil {
				log.Warn().
					Str("family", font.FamilyName).
					Int("weight", font.Weight).
					Err(err).
					Msg("Failed to load custom font, continuing without it")
			}
			return nil
		})
	}
	return g.Wait()
}

// loadFont fetches one font if absent and registers it.
func (l *Loader) loadFont(ctx context.Context, font appconfig.Font) error {
	path := l.FontPath(font)

	if _, err := os.Stat(path); err == nil {
		metrics.RecordAssetDownload("font", "hit")
	} else {
		if err := l.downloader.Download(ctx, font.URL, path); err != nil {
			metrics.RecordAssetDownload("font", "error")
			return err
		}
		metrics.RecordAssetDownload("font", "downloaded")
	}

	key := FontKey(font)
	if err := l.registry.Register(key, path); err != nil {
		return fmt.Errorf("register font %s: %w", key, err)
	}

	l.mu.Lock()
	l.loadedFonts[key] = path
	l.mu.Unlock()
	return nil
}

// LoadIcons caches the tenant icon set. Missing URLs are skipped; download
// failures are logged per file and do not fail the batch.
func (l *Loader) LoadIcons(ctx context.Context, icons appconfig.Icons) error {
	files := []struct {
		url  string
		name string
	}{
		{icons.AppIconURL, appIconFile},
		{icons.AdaptiveForegroundURL, adaptiveIconFile},
	}
	return l.loadNamed(ctx, "icon", iconsDir, files)
}

// LoadSplash caches the tenant splash screens.
func (l *Loader) LoadSplash(ctx context.Context, splash appconfig.Splash) error {
	files := []struct {
		url  string
		name string
	}{
		{splash.ImageURL, splashFile},
		{splash.DarkImageURL, splashDarkFile},
	}
	return l.loadNamed(ctx, "splash", splashDir, files)
}

// loadNamed runs the download-if-absent pattern for a fixed set of named
// files, best-effort and concurrent.
func (l *Loader) loadNamed(ctx context.Context, kind, dir string, files []struct {
	url  string
	name string
}) error {
	if err := os.MkdirAll(filepath.Join(l.baseDir, dir), 0o755); err != nil {
		return fmt.Errorf("create %s cache directory: %w", kind, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range files {
		if f.url == "" {
			continue
		}
		dest := filepath.Join(l.baseDir, dir, f.name)
		url := f.url
		g.Go(func() error {
			if _, err := os.Stat(dest); err == nil {
				metrics.RecordAssetDownload(kind, "hit")
				return nil
			}
			if err := l.downloader.Download(gctx, url, dest); err != nil {
				metrics.RecordAssetDownload(kind, "error")
				log.Warn().Str("url", url).Str("dest", dest).Err(err).
					Msg("Failed to cache asset, continuing without it")
				return nil
			}
			metrics.RecordAssetDownload(kind, "downloaded")
			return nil
		})
	}
	return g.Wait()
}

// IconPath returns the cache path of a named icon file.
func (l *Loader) IconPath(name string) string {
	return filepath.Join(l.baseDir, iconsDir, name)
}

// SplashPath returns the cache path of a named splash file.
func (l *Loader) SplashPath(name string) string {
	return filepath.Join(l.baseDir, splashDir, name)
}

// ClearCache deletes the three cache directories and resets the in-memory
// font map. Idempotent: missing directories are not an error.
func (l *Loader) ClearCache() error {
	for _, dir := range []string{fontsDir, iconsDir, splashDir} {
		if err := os.RemoveAll(filepath.Join(l.baseDir, dir)); err != nil {
			return fmt.Errorf("clear %s cache: %w", dir, err)
		}
	}

	l.mu.Lock()
	l.loadedFonts = make(map[string]string)
	l.mu.Unlock()

	log.Info().Str("base_dir", l.baseDir).Msg("Asset cache cleared")
	return nil
}
