package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDownloader records every download and writes a marker file.
type countingDownloader struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func newCountingDownloader() *countingDownloader {
	return &countingDownloader{calls: make(map[string]int), fail: make(map[string]error)}
}

func (d *countingDownloader) Download(_ context.Context, url, dest string) error {
	d.mu.Lock()
	d.calls[url]++
	err := d.fail[url]
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("asset"), 0o644)
}

func (d *countingDownloader) count(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[url]
}

// recordingRegistry captures font registrations.
type recordingRegistry struct {
	mu   sync.Mutex
	keys map[string]string
}

func (r *recordingRegistry) Register(key, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys == nil {
		r.keys = make(map[string]string)
	}
	r.keys[key] = path
	return nil
}

func TestLoader_FontPath(t *testing.T) {
	l := NewLoader("/data", nil)

	font := appconfig.Font{FamilyName: "Inter", Weight: 400, Style: "normal"}
	assert.Equal(t, filepath.Join("/data", "fonts", "Inter-400-normal.ttf"), l.FontPath(font))
	assert.Equal(t, "Inter-400", FontKey(font))
}

func TestLoader_LoadFonts_CacheHit(t *testing.T) {
	dl := newCountingDownloader()
	l := NewLoader(t.TempDir(), dl)

	fonts := []appconfig.Font{{FamilyName: "Foo", Weight: 400, Style: "normal", URL: "https://x/foo.ttf"}}

	require.NoError(t, l.LoadFonts(context.Background(), fonts))
	assert.Equal(t, 1, dl.count("https://x/foo.ttf"))
	assert.True(t, l.FontLoaded(fonts[0]))

	// Second call observes the cached file and skips the download.
	require.NoError(t, l.LoadFonts(context.Background(), fonts))
	assert.Equal(t, 1, dl.count("https://x/foo.ttf"))
}

func TestLoader_LoadFonts_RegistersWithRegistry(t *testing.T) {
	dl := newCountingDownloader()
	reg := &recordingRegistry{}
	l := NewLoader(t.TempDir(), dl, WithFontRegistry(reg))

	fonts := []appconfig.Font{
		{FamilyName: "Inter", Weight: 400, Style: "normal", URL: "https://x/inter-400.ttf"},
		{FamilyName: "Inter", Weight: 700, Style: "normal", URL: "https://x/inter-700.ttf"},
	}
	require.NoError(t, l.LoadFonts(context.Background(), fonts))

	assert.Len(t, reg.keys, 2)
	assert.Contains(t, reg.keys, "Inter-400")
	assert.Contains(t, reg.keys, "Inter-700")
}

func TestLoader_LoadFonts_SingleFailureDoesNotFailBatch(t *testing.T) {
	dl := newCountingDownloader()
	dl.fail["https://x/bad.ttf"] = errors.New("cdn down")
	l := NewLoader(t.TempDir(), dl)

	fonts := []appconfig.Font{
		{FamilyName: "Bad", Weight: 400, Style: "normal", URL: "https://x/bad.ttf"},
		{FamilyName: "Good", Weight: 400, Style: "normal", URL: "https://x/good.ttf"},
	}

	assert.NoError(t, l.LoadFonts(context.Background(), fonts))
	assert.False(t, l.FontLoaded(fonts[0]))
	assert.True(t, l.FontLoaded(fonts[1]))
}

func TestLoader_LoadIcons(t *testing.T) {
	dl := newCountingDownloader()
	base := t.TempDir()
	l := NewLoader(base, dl)

	icons := appconfig.Icons{
		AppIconURL:            "https://x/icon.png",
		AdaptiveForegroundURL: "https://x/adaptive.png",
	}
	require.NoError(t, l.LoadIcons(context.Background(), icons))

	assert.FileExists(t, filepath.Join(base, "icons", "app-icon.png"))
	assert.FileExists(t, filepath.Join(base, "icons", "adaptive-icon.png"))
}

func TestLoader_LoadSplash_SkipsMissingURLs(t *testing.T) {
	dl := newCountingDownloader()
	base := t.TempDir()
	l := NewLoader(base, dl)

	splash := appconfig.Splash{ImageURL: "https://x/splash.png"}
	require.NoError(t, l.LoadSplash(context.Background(), splash))

	assert.FileExists(t, filepath.Join(base, "splash", "splash.png"))
	assert.NoFileExists(t, filepath.Join(base, "splash", "splash-dark.png"))
	assert.Zero(t, dl.count(""))
}

func TestLoader_ClearCache(t *testing.T) {
	dl := newCountingDownloader()
	base := t.TempDir()
	l := NewLoader(base, dl)

	fonts := []appconfig.Font{{FamilyName: "Foo", Weight: 400, Style: "normal", URL: "https://x/foo.ttf"}}
	require.NoError(t, l.LoadFonts(context.Background(), fonts))
	require.FileExists(t, l.FontPath(fonts[0]))

	require.NoError(t, l.ClearCache())
	assert.NoFileExists(t, l.FontPath(fonts[0]))
	assert.False(t, l.FontLoaded(fonts[0]))

	// Idempotent on an already empty cache.
	assert.NoError(t, l.ClearCache())

	// After clearing, the next load downloads again.
	require.NoError(t, l.LoadFonts(context.Background(), fonts))
	assert.Equal(t, 2, dl.count("https://x/foo.ttf"))
}

func TestHTTPDownloader_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/font.ttf":
			_, _ = w.Write([]byte("font-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dl := NewHTTPDownloader(0, nil)
	dest := filepath.Join(t.TempDir(), "fonts", "font.ttf")

	require.NoError(t, dl.Download(context.Background(), srv.URL+"/font.ttf", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "font-bytes", string(data))

	err = dl.Download(context.Background(), srv.URL+"/missing.ttf", filepath.Join(t.TempDir(), "x.ttf"))
	assert.ErrorContains(t, err, "unexpected status 404")
}
