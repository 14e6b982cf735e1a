package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/storeforge/appcore/internal/circuitbreaker"
)

// Downloader fetches a remote asset to a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// HTTPDownloader downloads assets over HTTP behind a circuit breaker, so a
// dead CDN stops being hammered while the app keeps booting.
type HTTPDownloader struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewHTTPDownloader creates a downloader with the given request timeout.
func NewHTTPDownloader(timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *HTTPDownloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDownloader{
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// Breaker returns the circuit breaker guarding downloads, for health checks.
func (d *HTTPDownloader) Breaker() *circuitbreaker.CircuitBreaker {
	return d.breaker
}

// Download fetches url into dest. The file is written to a temporary path
// and renamed, so a partially written download never masquerades as a
// cached asset.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request for %s: %w", url, err)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create asset directory: %w", err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", dest, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close %s: %w", dest, err)
		}

		return os.Rename(tmp.Name(), dest)
	}

	if d.breaker != nil {
		return d.breaker.Execute(ctx, fetch)
	}
	return fetch()
}
