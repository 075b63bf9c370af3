package advault

import (
	"context"
	"time"
)

// Session is one browser session owned by a single job for its lifetime.
// Implementations record media network responses continuously from creation
// until Close, so the correlator can attribute traffic after the fact.
//
// A Session is used by exactly one goroutine.
type Session interface {
	// Navigate loads the URL, waiting for the initial load to complete
	// (falling back to a less strict completion criterion on timeout), and
	// stamps the settled-at time.
	Navigate(ctx context.Context, url string) error

	// SettledAt returns the time the initial navigation settled.
	// Zero before Navigate succeeds.
	SettledAt() time.Time

	// Observations returns a copy of all media network responses recorded
	// so far, in arrival order.
	Observations() []NetworkObservation

	// Snapshot returns a typed snapshot of the rendered document, rooted
	// at body, with layout and computed-style information populated.
	Snapshot(ctx context.Context) (*Node, error)

	// HTML returns the rendered document HTML.
	HTML(ctx context.Context) (string, error)

	// Screenshot captures the page, clipped to the given viewport
	// rectangle when clip is non-nil.
	Screenshot(ctx context.Context, clip *Rect) ([]byte, error)

	// CookieHeader returns the session's cookies serialized for a Cookie
	// request header.
	CookieHeader(ctx context.Context) (string, error)

	// Close releases the page and stops network recording.
	Close() error
}

// SessionFactory creates browser sessions. Implementations own the browser
// process and must be closed when no longer needed.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}
