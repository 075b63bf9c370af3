package rod

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/psawicki/advault"
)

const (
	// navTimeout bounds the wait for the page load event.
	navTimeout = 35 * time.Second

	// domStableTimeout and domStableWindow are the fallback completion
	// criterion; the Ad Library sometimes never fires load.
	domStableTimeout = 10 * time.Second
	domStableWindow  = time.Second
)

// Ensure Session implements advault.Session at compile time.
var _ advault.Session = (*Session)(nil)

// Session is one page-backed browser session. Network recording starts at
// creation and runs until Close.
type Session struct {
	page *rod.Page

	mu        sync.Mutex
	obs       []advault.NetworkObservation
	settledAt time.Time
}

// record subscribes to network response events for the page's lifetime.
func (s *Session) record() {
	go s.page.EachEvent(func(e *proto.NetworkResponseReceived) {
		kind, ok := classifyMIME(e.Response.MIMEType)
		if !ok {
			return
		}
		s.mu.Lock()
		s.obs = append(s.obs, advault.NetworkObservation{
			ObservedAt: time.Now(),
			Kind:       kind,
			URL:        e.Response.URL,
		})
		s.mu.Unlock()
	})()
}

// classifyMIME maps a response MIME type to a media kind.
func classifyMIME(mime string) (advault.MediaKind, bool) {
	mime = strings.ToLower(mime)
	switch {
	case strings.HasPrefix(mime, "video/"),
		strings.Contains(mime, "mp4"),
		strings.Contains(mime, "webm"):
		return advault.MediaVideo, true
	case mime == "image/jpeg", mime == "image/png", mime == "image/webp", mime == "image/gif":
		return advault.MediaImage, true
	}
	return "", false
}

// Navigate loads the URL and stamps the settled-at time. When the load
// event never fires within the timeout, DOM stability stands in for it.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	if err := page.Timeout(navTimeout).WaitLoad(); err != nil {
		if err := page.Timeout(domStableTimeout).WaitDOMStable(domStableWindow, 0.2); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.settledAt = time.Now()
	s.mu.Unlock()
	return nil
}

// SettledAt returns the time the initial navigation settled.
func (s *Session) SettledAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settledAt
}

// Observations returns a copy of all recorded media responses.
func (s *Session) Observations() []advault.NetworkObservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]advault.NetworkObservation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Snapshot serializes the rendered document into a typed node tree.
func (s *Session) Snapshot(ctx context.Context) (*advault.Node, error) {
	res, err := s.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot([]byte(res.Value.Str()))
}

// HTML returns the rendered document HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// Screenshot captures the page as PNG, clipped when clip is non-nil.
func (s *Session) Screenshot(ctx context.Context, clip *advault.Rect) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	}
	if clip != nil {
		req.Clip = &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		}
	}
	return s.page.Context(ctx).Screenshot(false, req)
}

// CookieHeader serializes the page's cookies for a Cookie request header.
func (s *Session) CookieHeader(ctx context.Context) (string, error) {
	cookies, err := s.page.Context(ctx).Cookies(nil)
	if err != nil {
		return "", err
	}
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; "), nil
}

// Close releases the page and stops network recording.
func (s *Session) Close() error {
	return s.page.Close()
}
