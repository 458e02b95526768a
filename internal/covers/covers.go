// Package covers downloads and caches cover images on the local filesystem.
package covers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fixed request headers for the scrape source; no authentication.
var requestHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E150",
	"Accept-Encoding": "gzip, deflate",
	"Cache-Control":   "max-age=0",
	"Accept-Language": "vi-VN",
}

// Fetcher retrieves cover images into a local directory, downloading each
// distinct filename at most once. Files already on disk are never
// re-fetched or overwritten.
type Fetcher struct {
	dir        string
	httpClient *http.Client
	logger     *slog.Logger
	group      singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher saving images under dir.
func NewFetcher(dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filename derives the on-disk image name from the owning slug and the
// cover URL's file extension. Returns "" when the URL carries no usable
// extension, in which case no thumbnail is created.
func Filename(slug, coverURL string) string {
	u, err := url.Parse(coverURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	dot := strings.LastIndex(base, ".")
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	return slug + base[dot:]
}

// Ensure downloads the image at coverURL into the fetcher's directory under
// name, unless a file with that name already exists. Returns true when a
// download actually happened. Concurrent calls for the same name collapse
// into a single download.
func (f *Fetcher) Ensure(ctx context.Context, coverURL, name string) (bool, error) {
	downloaded, err, _ := f.group.Do(name, func() (any, error) {
		dest := filepath.Join(f.dir, name)
		if _, err := os.Stat(dest); err == nil {
			return false, nil
		}

		if err := os.MkdirAll(f.dir, 0o755); err != nil {
			return false, fmt.Errorf("create covers dir: %w", err)
		}

		data, err := f.download(ctx, coverURL)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return false, fmt.Errorf("write cover %s: %w", name, err)
		}

		f.logger.Debug("cover saved", "name", name, "bytes", len(data))
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return downloaded.(bool), nil
}

func (f *Fetcher) download(ctx context.Context, coverURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range requestHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download cover: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cover body: %w", err)
	}
	return data, nil
}
