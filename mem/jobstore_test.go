package mem_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/psawicki/advault"
	"github.com/psawicki/advault/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStore_CreateAndSnapshot(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	s.Create(&advault.Job{
		ID:        "job-1",
		SourceURL: "https://www.facebook.com/ads/library/?id=123",
		State:     advault.JobRunning,
		CreatedAt: time.Now(),
	})

	snap, err := s.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", snap.ID)
	assert.Equal(t, advault.JobRunning, snap.State)
	assert.Equal(t, 0, snap.Progress)
	assert.Empty(t, snap.Log)
}

func TestJobStore_SnapshotNotFound(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	_, err := s.Snapshot("missing")
	require.Error(t, err)
	assert.Equal(t, advault.ENOTFOUND, advault.ErrorCode(err))
}

func TestJobStore_Update(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	s.Create(&advault.Job{ID: "job-1", State: advault.JobRunning})

	err := s.Update("job-1", func(j *advault.Job) {
		j.Progress = 50
		j.Log = append(j.Log, advault.LogLine{Msg: "halfway", Level: "info"})
	})
	require.NoError(t, err)

	snap, err := s.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Progress)
	require.Len(t, snap.Log, 1)
	assert.Equal(t, "halfway", snap.Log[0].Msg)
}

func TestJobStore_UpdateNotFound(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	err := s.Update("missing", func(j *advault.Job) {})
	require.Error(t, err)
	assert.Equal(t, advault.ENOTFOUND, advault.ErrorCode(err))
}

func TestJobStore_SnapshotCopiesLog(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	s.Create(&advault.Job{ID: "job-1", State: advault.JobRunning})
	require.NoError(t, s.Update("job-1", func(j *advault.Job) {
		j.Log = append(j.Log, advault.LogLine{Msg: "first"})
	}))

	snap, err := s.Snapshot("job-1")
	require.NoError(t, err)
	snap.Log[0].Msg = "mutated"

	again, err := s.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, "first", again.Log[0].Msg)
}

func TestJobStore_EvictsOldestTerminal(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	for i := 0; i < mem.MaxJobs; i++ {
		s.Create(&advault.Job{ID: fmt.Sprintf("done-%03d", i), State: advault.JobDone})
	}
	s.Create(&advault.Job{ID: "newest", State: advault.JobRunning})

	// The oldest terminal job was evicted to stay within bounds.
	_, err := s.Snapshot("done-000")
	assert.Equal(t, advault.ENOTFOUND, advault.ErrorCode(err))

	_, err = s.Snapshot("done-001")
	assert.NoError(t, err)
	_, err = s.Snapshot("newest")
	assert.NoError(t, err)
}

func TestJobStore_NeverEvictsRunning(t *testing.T) {
	t.Parallel()

	s := mem.NewJobStore()
	s.Create(&advault.Job{ID: "running-old", State: advault.JobRunning})
	for i := 0; i < mem.MaxJobs; i++ {
		s.Create(&advault.Job{ID: fmt.Sprintf("done-%03d", i), State: advault.JobDone})
	}

	_, err := s.Snapshot("running-old")
	assert.NoError(t, err)
	_, err = s.Snapshot("done-000")
	assert.Equal(t, advault.ENOTFOUND, advault.ErrorCode(err))
}
