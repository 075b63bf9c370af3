package scrape_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/psawicki/advault"
	"github.com/psawicki/advault/html"
	"github.com/psawicki/advault/mock"
	"github.com/psawicki/advault/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSourceURL = "https://www.facebook.com/ads/library/?id=111222333"

const testAdPage = `<html><body>
<div role="dialog">
	<h2>Acme Corp</h2>
	<span>Active</span>
	<span>Started running on January 5, 2026</span>
	<span>Facebook</span>
	<p>Save twenty percent on every order this weekend only. Free shipping over fifty dollars.</p>
	<img src="https://scontent.example.net/v/t39.35426-6/creative_main_image_1080.jpg" width="1080" height="1080">
</div>
</body></html>`

// testSession builds a mock session over the static ad page.
func testSession(t *testing.T, obs []advault.NetworkObservation) *mock.Session {
	t.Helper()

	settled := time.Now()
	return &mock.Session{
		NavigateFn:  func(ctx context.Context, url string) error { return nil },
		SettledAtFn: func() time.Time { return settled },
		ObservationsFn: func() []advault.NetworkObservation {
			return obs
		},
		SnapshotFn: func(ctx context.Context) (*advault.Node, error) {
			return html.ParseString(testAdPage)
		},
		HTMLFn: func(ctx context.Context) (string, error) {
			return testAdPage, nil
		},
		ScreenshotFn: func(ctx context.Context, clip *advault.Rect) ([]byte, error) {
			return []byte("png-bytes"), nil
		},
		CookieHeaderFn: func(ctx context.Context) (string, error) {
			return "c_user=1", nil
		},
	}
}

// recordingArchive is an in-memory ArchiveStore for runner tests.
type recordingArchive struct {
	mu     sync.Mutex
	files  map[string][]byte
	record *advault.Archive
}

func newRecordingArchive() *recordingArchive {
	return &recordingArchive{files: make(map[string][]byte)}
}

func (a *recordingArchive) store() *mock.ArchiveStore {
	return &mock.ArchiveStore{
		CreateFolderFn: func(adID, pageName string, now time.Time) (string, error) {
			return pageName + "_" + adID, nil
		},
		SaveFileFn: func(folder, filename string, data []byte) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.files[filename] = data
			return nil
		},
		WriteRecordFn: func(archive *advault.Archive) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.record = archive
			return nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("archives a complete ad", func(t *testing.T) {
		t.Parallel()

		sess := testSession(t, nil)
		arch := newRecordingArchive()
		downloaded := bytes.Repeat([]byte("x"), 50000)

		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			Downloader: &mock.MediaDownloader{
				DownloadFn: func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
					assert.Equal(t, "c_user=1", cookie)
					return downloaded, nil
				},
			},
			Archive:    arch.store(),
			SettleWait: time.Millisecond,
		}

		var progress []int
		var logs []string
		rep := scrape.Reporter{
			Progress: func(pct int) { progress = append(progress, pct) },
			Log:      func(level, msg string) { logs = append(logs, msg) },
		}

		archive, err := r.Run(context.Background(), testSourceURL, rep)
		require.NoError(t, err)

		assert.Equal(t, "111222333", archive.AdID)
		assert.Equal(t, "Acme Corp", archive.PageName)
		assert.Equal(t, advault.StatusActive, archive.Status)
		assert.Equal(t, "January 5, 2026", archive.StartedOn)
		assert.Contains(t, archive.Platforms, "Facebook")
		assert.Contains(t, archive.BodyText, "Save twenty percent")
		require.Len(t, archive.Media, 1)
		assert.Equal(t, advault.MediaImage, archive.Media[0].Kind)
		assert.Equal(t, archive.Media[0].Filename, archive.Thumb)

		// Saved files: screenshot plus the downloaded creative.
		assert.Contains(t, arch.files, "screenshot.png")
		assert.Contains(t, arch.files, archive.Media[0].Filename)
		require.NotNil(t, arch.record)

		// Progress is monotonic and finishes at 100.
		for i := 1; i < len(progress); i++ {
			assert.GreaterOrEqual(t, progress[i], progress[i-1])
		}
		assert.Equal(t, 100, progress[len(progress)-1])

		assert.Contains(t, strings.Join(logs, "\n"), "Ad ID detected: 111222333")
	})

	t.Run("rejects URLs without an ad id", func(t *testing.T) {
		t.Parallel()

		r := &scrape.Runner{}
		_, err := r.Run(context.Background(), "https://www.facebook.com/ads/library/", scrape.Reporter{})
		require.Error(t, err)
		assert.Equal(t, advault.EINVALID, advault.ErrorCode(err))
	})

	t.Run("session failure is unavailable", func(t *testing.T) {
		t.Parallel()

		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) {
					return nil, errors.New("browser not found")
				},
			},
		}
		_, err := r.Run(context.Background(), testSourceURL, scrape.Reporter{})
		require.Error(t, err)
		assert.Equal(t, advault.EUNAVAILABLE, advault.ErrorCode(err))
	})

	t.Run("download failures degrade but never fail the job", func(t *testing.T) {
		t.Parallel()

		sess := testSession(t, nil)
		arch := newRecordingArchive()

		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			Downloader: &mock.MediaDownloader{
				DownloadFn: func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
					return nil, errors.New("403 Forbidden")
				},
			},
			Archive:    arch.store(),
			SettleWait: time.Millisecond,
		}

		archive, err := r.Run(context.Background(), testSourceURL, scrape.Reporter{})
		require.NoError(t, err)
		assert.Empty(t, archive.Media)
		// The screenshot still carries the thumbnail.
		assert.Equal(t, "screenshot.png", archive.Thumb)
	})

	t.Run("tiny payloads are skipped", func(t *testing.T) {
		t.Parallel()

		sess := testSession(t, nil)
		arch := newRecordingArchive()

		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			Downloader: &mock.MediaDownloader{
				DownloadFn: func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
					return []byte("tiny"), nil
				},
			},
			Archive:    arch.store(),
			SettleWait: time.Millisecond,
		}

		archive, err := r.Run(context.Background(), testSourceURL, scrape.Reporter{})
		require.NoError(t, err)
		assert.Empty(t, archive.Media)
	})

	t.Run("archive write failure is fatal", func(t *testing.T) {
		t.Parallel()

		sess := testSession(t, nil)
		store := newRecordingArchive().store()
		store.WriteRecordFn = func(archive *advault.Archive) error {
			return errors.New("disk full")
		}

		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			Downloader: &mock.MediaDownloader{
				DownloadFn: func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
					return bytes.Repeat([]byte("x"), 5000), nil
				},
			},
			Archive:    store,
			SettleWait: time.Millisecond,
		}

		_, err := r.Run(context.Background(), testSourceURL, scrape.Reporter{})
		require.Error(t, err)
		assert.Equal(t, advault.EINTERNAL, advault.ErrorCode(err))
	})

	t.Run("canceled context aborts at the settle wait", func(t *testing.T) {
		t.Parallel()

		sess := testSession(t, nil)
		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			SettleWait: time.Minute,
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Run(ctx, testSourceURL, scrape.Reporter{})
		require.Error(t, err)
		assert.Equal(t, advault.EUNAVAILABLE, advault.ErrorCode(err))
	})

	t.Run("modal network media joins the download set", func(t *testing.T) {
		t.Parallel()

		obs := []advault.NetworkObservation{
			{ObservedAt: time.Now().Add(time.Minute), Kind: advault.MediaVideo,
				URL: "https://video.example.net/o1/v/t2/f2/ad_creative_video_from_overlay.mp4"},
		}
		sess := testSession(t, obs)
		arch := newRecordingArchive()

		var urls []string
		r := &scrape.Runner{
			Sessions: &mock.SessionFactory{
				NewSessionFn: func(ctx context.Context) (advault.Session, error) { return sess, nil },
			},
			Downloader: &mock.MediaDownloader{
				DownloadFn: func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
					urls = append(urls, url)
					return bytes.Repeat([]byte("x"), 5000), nil
				},
			},
			Archive:    arch.store(),
			SettleWait: time.Millisecond,
		}

		archive, err := r.Run(context.Background(), testSourceURL, scrape.Reporter{})
		require.NoError(t, err)

		require.Len(t, archive.Media, 2)
		assert.Equal(t, advault.OriginScope, archive.Media[0].Origin)
		assert.Equal(t, advault.OriginNetwork, archive.Media[1].Origin)
		assert.Len(t, urls, 2)
	})
}
