package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psawicki/advault"
	advaulthttp "github.com/psawicki/advault/http"
	"github.com/psawicki/advault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer builds a Server and returns an httptest wrapper around its
// routes via a real listener-free round trip.
func testServer(t *testing.T, jobs advault.JobService, archives advault.ArchiveStore) *httptest.Server {
	t.Helper()

	s := advaulthttp.NewServer()
	s.Jobs = jobs
	s.Archives = archives

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_SubmitJob(t *testing.T) {
	t.Parallel()

	t.Run("accepts a job", func(t *testing.T) {
		t.Parallel()

		jobs := &mock.JobService{
			SubmitFn: func(sourceURL string) (string, error) {
				assert.Equal(t, "https://www.facebook.com/ads/library/?id=123", sourceURL)
				return "job-1", nil
			},
		}
		ts := testServer(t, jobs, nil)

		resp, err := http.Post(ts.URL+"/api/jobs", "application/json",
			strings.NewReader(`{"url":"https://www.facebook.com/ads/library/?id=123"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "job-1", body["job_id"])
	})

	t.Run("invalid URL maps to 400", func(t *testing.T) {
		t.Parallel()

		jobs := &mock.JobService{
			SubmitFn: func(sourceURL string) (string, error) {
				return "", advault.Errorf(advault.EINVALID, "source URL required")
			},
		}
		ts := testServer(t, jobs, nil)

		resp, err := http.Post(ts.URL+"/api/jobs", "application/json", strings.NewReader(`{"url":""}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "source URL required", body["error"])
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		t.Parallel()

		ts := testServer(t, &mock.JobService{}, nil)

		resp, err := http.Post(ts.URL+"/api/jobs", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_PollJob(t *testing.T) {
	t.Parallel()

	t.Run("returns job snapshot", func(t *testing.T) {
		t.Parallel()

		jobs := &mock.JobService{
			PollFn: func(jobID string) (*advault.JobSnapshot, error) {
				assert.Equal(t, "job-1", jobID)
				return &advault.JobSnapshot{
					ID:       "job-1",
					State:    advault.JobRunning,
					Progress: 50,
					Log:      []advault.LogLine{{Msg: "Loading Ad Library page...", Level: "info"}},
				}, nil
			},
		}
		ts := testServer(t, jobs, nil)

		resp, err := http.Get(ts.URL + "/api/jobs/job-1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var snap advault.JobSnapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Equal(t, advault.JobRunning, snap.State)
		assert.Equal(t, 50, snap.Progress)
		require.Len(t, snap.Log, 1)
	})

	t.Run("unknown job maps to 404", func(t *testing.T) {
		t.Parallel()

		jobs := &mock.JobService{
			PollFn: func(jobID string) (*advault.JobSnapshot, error) {
				return nil, advault.Errorf(advault.ENOTFOUND, "job %q not found", jobID)
			},
		}
		ts := testServer(t, jobs, nil)

		resp, err := http.Get(ts.URL + "/api/jobs/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_ListArchives(t *testing.T) {
	t.Parallel()

	archives := &mock.ArchiveStore{
		ListFn: func(ctx context.Context) ([]*advault.ArchiveSummary, error) {
			return []*advault.ArchiveSummary{
				{Folder: "Acme_123_2026-08-30", PageName: "Acme", AdID: "123", MediaCount: 2},
			}, nil
		},
	}
	ts := testServer(t, nil, archives)

	resp, err := http.Get(ts.URL + "/api/archives")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got []*advault.ArchiveSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Acme_123_2026-08-30", got[0].Folder)
}

func TestServer_GetArchive(t *testing.T) {
	t.Parallel()

	t.Run("returns archive with note", func(t *testing.T) {
		t.Parallel()

		archives := &mock.ArchiveStore{
			FindFn: func(folder string) (*advault.Archive, error) {
				return &advault.Archive{AdID: "123", PageName: "Acme", Folder: folder}, nil
			},
			NoteFn: func(folder string) (string, error) {
				return "strong hook", nil
			},
		}
		ts := testServer(t, nil, archives)

		resp, err := http.Get(ts.URL + "/api/archives/Acme_123_2026-08-30")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got struct {
			AdID string `json:"ad_id"`
			Note string `json:"note"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "123", got.AdID)
		assert.Equal(t, "strong hook", got.Note)
	})

	t.Run("missing archive maps to 404", func(t *testing.T) {
		t.Parallel()

		archives := &mock.ArchiveStore{
			FindFn: func(folder string) (*advault.Archive, error) {
				return nil, advault.Errorf(advault.ENOTFOUND, "archive %q not found", folder)
			},
		}
		ts := testServer(t, nil, archives)

		resp, err := http.Get(ts.URL + "/api/archives/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Notes(t *testing.T) {
	t.Parallel()

	t.Run("set note", func(t *testing.T) {
		t.Parallel()

		var setFolder, setText string
		archives := &mock.ArchiveStore{
			SetNoteFn: func(folder, text string) error {
				setFolder, setText = folder, text
				return nil
			},
		}
		ts := testServer(t, nil, archives)

		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/archives/Acme_123/notes",
			strings.NewReader(`{"note":"test note"}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Acme_123", setFolder)
		assert.Equal(t, "test note", setText)
	})

	t.Run("get note", func(t *testing.T) {
		t.Parallel()

		archives := &mock.ArchiveStore{
			NoteFn: func(folder string) (string, error) {
				return "keep this one", nil
			},
		}
		ts := testServer(t, nil, archives)

		resp, err := http.Get(ts.URL + "/api/archives/Acme_123/notes")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "keep this one", body["note"])
	})
}

func TestServer_ServeFile(t *testing.T) {
	t.Parallel()

	t.Run("serves an archived file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "image_01_abcd1234.jpg")
		require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0644))

		archives := &mock.ArchiveStore{
			FilePathFn: func(folder, filename string) (string, error) {
				assert.Equal(t, "Acme_123", folder)
				assert.Equal(t, "image_01_abcd1234.jpg", filename)
				return path, nil
			},
		}
		ts := testServer(t, nil, archives)

		resp, err := http.Get(ts.URL + "/archive/Acme_123/image_01_abcd1234.jpg")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing file maps to 404", func(t *testing.T) {
		t.Parallel()

		archives := &mock.ArchiveStore{
			FilePathFn: func(folder, filename string) (string, error) {
				return "", advault.Errorf(advault.ENOTFOUND, "file not found")
			},
		}
		ts := testServer(t, nil, archives)

		resp, err := http.Get(ts.URL + "/archive/x/y.jpg")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
