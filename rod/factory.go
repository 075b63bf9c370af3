// Package rod implements browser sessions using Chrome automation via the
// go-rod library.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/psawicki/advault"
)

// DefaultMaxSessions is the default number of sessions before browser
// recycling. Chrome accumulates memory over time and the baseline never
// returns to initial levels even with proper page cleanup, so the browser
// is relaunched periodically.
const DefaultMaxSessions = 25

const (
	viewportWidth  = 1280
	viewportHeight = 900

	// userAgent is a desktop Chrome UA; the Ad Library serves a reduced
	// page to obviously automated agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Ensure Factory implements advault.SessionFactory at compile time.
var _ advault.SessionFactory = (*Factory)(nil)

// Factory launches a Chrome browser and creates one page-backed session per
// job. The browser is recycled after maxSessions sessions have been created.
//
// Factory is safe for concurrent use.
type Factory struct {
	browser      *rod.Browser
	launcher     *launcher.Launcher
	headless     bool
	sessionCount int64
	maxSessions  int64
	mu           sync.Mutex
	closed       atomic.Bool
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithHeadless controls whether the browser runs headless. Defaults to true.
func WithHeadless(headless bool) FactoryOption {
	return func(f *Factory) {
		f.headless = headless
	}
}

// WithMaxSessions sets the number of sessions before the browser is
// recycled. Defaults to DefaultMaxSessions.
func WithMaxSessions(n int64) FactoryOption {
	return func(f *Factory) {
		f.maxSessions = n
	}
}

// NewFactory launches a Chrome browser. Close must be called when the
// Factory is no longer needed.
func NewFactory(opts ...FactoryOption) (*Factory, error) {
	f := &Factory{
		headless:    true,
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launchBrowser(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewSession creates a fresh page with network recording already active.
func (f *Factory) NewSession(ctx context.Context) (advault.Session, error) {
	browser := f.acquireBrowser()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	atomic.AddInt64(&f.sessionCount, 1)

	s := &Session{page: page}
	s.record()
	return s, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Factory) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeBrowser()
}

// acquireBrowser returns the current browser, recycling it first if the
// session count has reached the threshold.
func (f *Factory) acquireBrowser() *rod.Browser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if atomic.LoadInt64(&f.sessionCount) >= f.maxSessions {
		f.recycleBrowser()
	}
	return f.browser
}

// launchBrowser starts a new browser instance with stability flags.
func (f *Factory) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(f.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (f *Factory) closeBrowser() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one. If the new
// launch fails, the old browser is kept.
// Must be called with mu held.
func (f *Factory) recycleBrowser() {
	oldBrowser := f.browser
	oldLauncher := f.launcher
	f.browser = nil
	f.launcher = nil

	if err := f.launchBrowser(); err != nil {
		f.browser = oldBrowser
		f.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&f.sessionCount, 0)
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Factory) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}
