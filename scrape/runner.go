package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/psawicki/advault"
	"github.com/psawicki/advault/prom"
)

// Pipeline constants.
const (
	// DefaultSettleWait is how long to hold the session open after the
	// initial load so the ad overlay's own network activity can finish
	// before correlation runs.
	DefaultSettleWait = 9 * time.Second

	// minDownloadBytes: smaller payloads are placeholder or broken assets
	// and are skipped rather than archived.
	minDownloadBytes = 2000

	// minThumbBytes: an image must be at least this large to serve as the
	// archive thumbnail.
	minThumbBytes = 10000

	// Screenshot clip bounds.
	minClipDim    = 200
	maxClipWidth  = 1280
	maxClipHeight = 900

	// maxExtraTextLen caps the stored additional-assets text.
	maxExtraTextLen = 5000
)

var adIDRe = regexp.MustCompile(`[?&]id=(\d+)`)

// ParseAdID extracts the numeric ad id from an Ad Library URL.
func ParseAdID(sourceURL string) (string, error) {
	m := adIDRe.FindStringSubmatch(sourceURL)
	if m == nil {
		return "", advault.Errorf(advault.EINVALID, "could not extract ad ID from URL")
	}
	return m[1], nil
}

// Reporter receives progress while a job runs. Either field may be nil.
type Reporter struct {
	// Progress reports a completion percentage hint in [0,100].
	Progress func(pct int)

	// Log appends one line to the job log. Level is "info", "ok" or "err".
	Log func(level, msg string)
}

func (r Reporter) progress(pct int) {
	if r.Progress != nil {
		r.Progress(pct)
	}
}

func (r Reporter) logf(level, format string, args ...any) {
	if r.Log != nil {
		r.Log(level, fmt.Sprintf(format, args...))
	}
}

// Runner executes one archiving job end to end: session, settle wait,
// scope resolution, extraction, correlation, unification, downloads, and
// the archive record write.
//
// Extra, Fallback, Converter, Limiter and Metrics are optional; the
// pipeline degrades gracefully without them.
type Runner struct {
	Sessions   advault.SessionFactory
	Downloader advault.MediaDownloader
	Archive    advault.ArchiveStore
	Extra      advault.ExtraContentFinder
	Fallback   advault.TextExtractor
	Converter  advault.Converter
	Limiter    *DownloadLimiter
	Metrics    *prom.Metrics
	SettleWait time.Duration
}

// Run archives the ad behind sourceURL. Failures in session setup, scope
// snapshotting or archive writing abort the job; everything in extraction
// and download is best-effort and only degrades the result. The context is
// honored at the settle wait and before each download.
func (r *Runner) Run(ctx context.Context, sourceURL string, rep Reporter) (*advault.Archive, error) {
	adID, err := ParseAdID(sourceURL)
	if err != nil {
		return nil, err
	}
	rep.logf("info", "Ad ID detected: %s", adID)
	rep.progress(10)

	sess, err := r.Sessions.NewSession(ctx)
	if err != nil {
		return nil, advault.Errorf(advault.EUNAVAILABLE, "starting browser session: %v", err)
	}
	defer sess.Close()

	rep.logf("info", "Loading Ad Library page...")
	if err := sess.Navigate(ctx, sourceURL); err != nil {
		return nil, advault.Errorf(advault.EUNAVAILABLE, "loading page: %v", err)
	}
	rep.progress(25)

	// The overlay renders on top of the settled results page and loads its
	// assets during this wait; correlation depends on it finishing.
	rep.logf("info", "Waiting for the ad overlay to load...")
	wait := r.SettleWait
	if wait <= 0 {
		wait = DefaultSettleWait
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return nil, advault.Errorf(advault.EUNAVAILABLE, "canceled during settle wait: %v", ctx.Err())
	}

	rep.logf("info", "Isolating ad container...")
	root, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, advault.Errorf(advault.EUNAVAILABLE, "document snapshot: %v", err)
	}

	scope := Resolve(root, adID)
	if scope.Found {
		rep.logf("ok", "Ad container isolated (%s)", scope.Strategy)
	} else {
		rep.logf("info", "No ad container found — using full document")
	}
	rep.progress(50)

	ext := Extract(scope)

	pageHTML, err := sess.HTML(ctx)
	if err != nil {
		rep.logf("info", "Page HTML unavailable: %s", truncateErr(err))
		pageHTML = ""
	}

	var extraMedia []advault.MediaRef
	if r.Extra != nil && pageHTML != "" {
		extra, err := r.Extra.Find(pageHTML)
		switch {
		case err != nil:
			rep.logf("info", "Additional assets lookup failed: %s", truncateErr(err))
		case extra != nil:
			ext.ExtraText = extra.Text
			if len(ext.ExtraText) > maxExtraTextLen {
				ext.ExtraText = ext.ExtraText[:maxExtraTextLen]
			}
			extraMedia = extra.Media
		}
	}

	contentMD := r.renderContent(pageHTML, scope, ext)

	obs := sess.Observations()
	part := Correlate(obs, sess.SettledAt())
	rep.logf("info", "Network: %d media responses, %d after settle", len(obs), len(part.Modal))

	media := Unify(ext.Media, extraMedia, part.Modal, obs)
	if len(media) > 0 && media[0].Origin == advault.OriginFallbackVideo {
		rep.logf("info", "No ad media found — falling back to video-only from full session")
	}
	rep.logf("info", "Unique media URLs to download: %d", len(media))
	rep.progress(55)

	pageName := ext.PageName
	if pageName == "" {
		pageName = FallbackPageName(scope.Node.InnerText(), adID)
	}

	folder, err := r.Archive.CreateFolder(adID, pageName, time.Now())
	if err != nil {
		return nil, advault.Errorf(advault.EINTERNAL, "creating archive folder: %v", err)
	}
	rep.logf("info", "Saving to folder: %s", folder)

	screenshotSaved := r.saveScreenshot(ctx, sess, scope, folder, rep)
	if contentMD != "" {
		if err := r.Archive.SaveFile(folder, "content.md", []byte(contentMD)); err == nil {
			rep.logf("ok", "Saved content.md")
		}
	}
	rep.progress(60)

	cookie, err := sess.CookieHeader(ctx)
	if err != nil {
		rep.logf("info", "Session cookies unavailable: %s", truncateErr(err))
		cookie = ""
	}

	saved := r.download(ctx, media, folder, cookie, rep)

	archive := &advault.Archive{
		AdID:       adID,
		SourceURL:  sourceURL,
		PageName:   pageName,
		Status:     ext.Status,
		StartedOn:  ext.StartedOn,
		Platforms:  ext.Platforms,
		BodyText:   ext.BodyText,
		ExtraText:  ext.ExtraText,
		Media:      saved,
		ArchivedAt: time.Now(),
		Folder:     folder,
		Thumb:      pickThumb(saved, screenshotSaved),
	}
	if err := r.Archive.WriteRecord(archive); err != nil {
		return nil, advault.Errorf(advault.EINTERNAL, "writing archive record: %v", err)
	}
	rep.logf("ok", "Metadata saved")
	rep.progress(100)
	rep.logf("ok", "Done! %d files archived to %s", len(saved), folder)

	return archive, nil
}

// renderContent extracts the page's main content and converts it to
// markdown for the content.md artifact. When resolution fell back to the
// full document and no ad copy was found, the markdown also stands in for
// the body text.
func (r *Runner) renderContent(pageHTML string, scope Scope, ext *advault.Extraction) string {
	if r.Fallback == nil || r.Converter == nil || pageHTML == "" {
		return ""
	}
	res, err := r.Fallback.Extract(pageHTML)
	if err != nil || res.ContentHTML == "" {
		return ""
	}
	md, err := r.Converter.Convert(res.ContentHTML)
	if err != nil {
		return ""
	}
	if scope.FullDocument && ext.BodyText == "" {
		body := strings.TrimSpace(md)
		if len(body) > maxBodyTextLen {
			body = body[:maxBodyTextLen]
		}
		ext.BodyText = body
	}
	return md
}

// saveScreenshot captures the page, clipped to the scope when one was
// found, and stores it in the archive folder. Screenshot problems are
// logged and never fail the job.
func (r *Runner) saveScreenshot(ctx context.Context, sess advault.Session, scope Scope, folder string, rep Reporter) bool {
	var clip *advault.Rect
	if scope.Found && scope.Node.Rect.Width > minClipDim && scope.Node.Rect.Height > minClipDim {
		c := scope.Node.Rect
		c.X = max(c.X, 0)
		c.Y = max(c.Y, 0)
		c.Width = min(c.Width, maxClipWidth)
		c.Height = min(c.Height, maxClipHeight)
		clip = &c
	}

	shot, err := sess.Screenshot(ctx, clip)
	if err != nil {
		rep.logf("info", "Screenshot warning: %s", truncateErr(err))
		return false
	}
	if err := r.Archive.SaveFile(folder, "screenshot.png", shot); err != nil {
		rep.logf("info", "Screenshot warning: %s", truncateErr(err))
		return false
	}
	rep.logf("ok", "Screenshot saved")
	return true
}

// download fetches each unified media reference in order. Every per-item
// failure is logged and skipped; downloads never abort the job.
func (r *Runner) download(ctx context.Context, media []advault.MediaRef, folder, cookie string, rep Reporter) []advault.SavedMedia {
	saved := []advault.SavedMedia{}
	for i, m := range media {
		if err := r.Limiter.Wait(ctx); err != nil {
			rep.logf("info", "Downloads canceled: %s", truncateErr(err))
			break
		}

		data, err := r.Downloader.Download(ctx, m.URL, m.Kind, cookie)
		switch {
		case err != nil:
			rep.logf("info", "Skip %s #%d: %s", m.Kind, i+1, truncateErr(err))
		case len(data) < minDownloadBytes:
			rep.logf("info", "Skip tiny file %s #%d (%dB)", m.Kind, i+1, len(data))
		default:
			name := Filename(m.Kind, i+1, m.URL)
			if err := r.Archive.SaveFile(folder, name, data); err != nil {
				rep.logf("info", "Skip %s #%d: %s", m.Kind, i+1, truncateErr(err))
			} else {
				saved = append(saved, advault.SavedMedia{
					Kind:     m.Kind,
					Filename: name,
					Size:     len(data),
					Origin:   m.Origin,
				})
				r.Metrics.MediaSaved(len(data))
				rep.logf("ok", "Saved %s (%dKB) [%s]", name, len(data)/1024, m.Origin)
			}
		}

		rep.progress(60 + 35*(i+1)/len(media))
	}
	return saved
}

// pickThumb selects a representative image: the first saved image of
// meaningful size, otherwise the screenshot if one was captured.
func pickThumb(saved []advault.SavedMedia, screenshotSaved bool) string {
	for _, m := range saved {
		if m.Kind == advault.MediaImage && m.Size > minThumbBytes {
			return m.Filename
		}
	}
	if screenshotSaved {
		return "screenshot.png"
	}
	return ""
}

func truncateErr(err error) string {
	s := err.Error()
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
