// Package http provides the HTTP boundary of advault: the media downloader
// used by the archiving pipeline and the API server in front of it.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/psawicki/advault"
)

// DefaultDownloadTimeout is the default timeout for a single media request.
const DefaultDownloadTimeout = 20 * time.Second

// maxCookieLen caps the forwarded cookie header; CDN hosts reject
// oversized headers before auth even runs.
const maxCookieLen = 500

// downloadUserAgent mirrors the browser session so the CDN serves the same
// bytes it served the page.
const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Ensure Downloader implements advault.MediaDownloader at compile time.
var _ advault.MediaDownloader = (*Downloader)(nil)

// Downloader fetches media assets over plain HTTP, presenting browser-like
// headers and the session's cookies.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultDownloadTimeout if not specified.
func WithTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		timeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(dl)
	}

	dl.client = &http.Client{
		Timeout: dl.timeout,
	}
	return dl
}

// Download fetches one media asset and returns its bytes.
func (dl *Downloader) Download(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", downloadUserAgent)
	req.Header.Set("Referer", "https://www.facebook.com/")
	if kind == advault.MediaVideo {
		req.Header.Set("Accept", "video/webm,video/ogg,video/*;q=0.9,*/*;q=0.5")
	} else {
		req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	}
	if cookie != "" {
		if len(cookie) > maxCookieLen {
			cookie = cookie[:maxCookieLen]
		}
		req.Header.Set("Cookie", cookie)
	}

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
