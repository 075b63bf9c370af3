package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/psawicki/advault"
	"github.com/psawicki/advault/prom"
)

// DefaultJobTimeout bounds how long a single archiving job may run.
const DefaultJobTimeout = 10 * time.Minute

// Service implements advault.JobService on top of a Runner and a JobStore.
// Submit returns immediately; the pipeline runs in its own goroutine and
// publishes progress through the store.
type Service struct {
	Store   advault.JobStore
	Runner  *Runner
	Metrics *prom.Metrics
	Timeout time.Duration
}

var _ advault.JobService = (*Service)(nil)

// Submit registers a new job for sourceURL and starts it in the background.
func (s *Service) Submit(sourceURL string) (string, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return "", advault.Errorf(advault.EINVALID, "source URL required")
	}

	job := &advault.Job{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		State:     advault.JobRunning,
		CreatedAt: time.Now(),
	}
	s.Store.Create(job)
	s.Metrics.JobStarted()

	go s.run(job.ID, sourceURL)
	return job.ID, nil
}

// Poll returns a point-in-time snapshot of the job.
func (s *Service) Poll(jobID string) (*advault.JobSnapshot, error) {
	return s.Store.Snapshot(jobID)
}

func (s *Service) run(jobID, sourceURL string) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rep := Reporter{
		Progress: func(pct int) {
			_ = s.Store.Update(jobID, func(j *advault.Job) {
				if pct > j.Progress {
					j.Progress = pct
				}
			})
		},
		Log: func(level, msg string) {
			_ = s.Store.Update(jobID, func(j *advault.Job) {
				j.Log = append(j.Log, advault.LogLine{At: time.Now(), Msg: msg, Level: level})
			})
		},
	}

	archive, err := s.Runner.Run(ctx, sourceURL, rep)
	if err != nil {
		msg := advault.ErrorMessage(err)
		rep.logf("err", "Fatal error: %s", msg)
		_ = s.Store.Update(jobID, func(j *advault.Job) {
			j.State = advault.JobError
			j.Err = msg
		})
		s.Metrics.JobFailed()
		return
	}

	_ = s.Store.Update(jobID, func(j *advault.Job) {
		j.State = advault.JobDone
		j.Result = archive
		j.Progress = 100
	})
	s.Metrics.JobCompleted()
}
