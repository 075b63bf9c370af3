// Package mock provides function-field test doubles for advault services.
package mock

import (
	"context"
	"time"

	"github.com/psawicki/advault"
)

var _ advault.Session = (*Session)(nil)

// Session is a mock implementation of advault.Session.
type Session struct {
	NavigateFn     func(ctx context.Context, url string) error
	SettledAtFn    func() time.Time
	ObservationsFn func() []advault.NetworkObservation
	SnapshotFn     func(ctx context.Context) (*advault.Node, error)
	HTMLFn         func(ctx context.Context) (string, error)
	ScreenshotFn   func(ctx context.Context, clip *advault.Rect) ([]byte, error)
	CookieHeaderFn func(ctx context.Context) (string, error)
	CloseFn        func() error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) SettledAt() time.Time {
	return s.SettledAtFn()
}

func (s *Session) Observations() []advault.NetworkObservation {
	return s.ObservationsFn()
}

func (s *Session) Snapshot(ctx context.Context) (*advault.Node, error) {
	return s.SnapshotFn(ctx)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.HTMLFn(ctx)
}

func (s *Session) Screenshot(ctx context.Context, clip *advault.Rect) ([]byte, error) {
	return s.ScreenshotFn(ctx, clip)
}

func (s *Session) CookieHeader(ctx context.Context) (string, error) {
	return s.CookieHeaderFn(ctx)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ advault.SessionFactory = (*SessionFactory)(nil)

// SessionFactory is a mock implementation of advault.SessionFactory.
type SessionFactory struct {
	NewSessionFn func(ctx context.Context) (advault.Session, error)
	CloseFn      func() error
}

func (f *SessionFactory) NewSession(ctx context.Context) (advault.Session, error) {
	return f.NewSessionFn(ctx)
}

func (f *SessionFactory) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
