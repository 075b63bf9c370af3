// Package mem provides in-memory implementations of advault services.
// Job state is process-local and intentionally not persisted.
package mem

import (
	"sync"

	"github.com/psawicki/advault"
)

// MaxJobs bounds how many job records the store retains. When exceeded,
// the oldest terminal jobs are evicted; running jobs are never evicted.
const MaxJobs = 100

// Compile-time interface verification.
var _ advault.JobStore = (*JobStore)(nil)

// JobStore is a mutex-guarded in-memory advault.JobStore.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*advault.Job
	order []string // creation order, oldest first
}

// NewJobStore creates an empty JobStore.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*advault.Job)}
}

// Create registers the job and evicts the oldest terminal jobs if the
// store has grown past its retention bound.
func (s *JobStore) Create(job *advault.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.evict()
}

// Update applies fn to the job record under the write lock.
func (s *JobStore) Update(id string, fn func(*advault.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return advault.Errorf(advault.ENOTFOUND, "job %q not found", id)
	}
	fn(job)
	return nil
}

// Snapshot returns a copy of the job's observable state. The log slice is
// copied so pollers never alias the worker's append target.
func (s *JobStore) Snapshot(id string) (*advault.JobSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, advault.Errorf(advault.ENOTFOUND, "job %q not found", id)
	}

	log := make([]advault.LogLine, len(job.Log))
	copy(log, job.Log)

	return &advault.JobSnapshot{
		ID:       job.ID,
		State:    job.State,
		Progress: job.Progress,
		Log:      log,
		Result:   job.Result,
		Err:      job.Err,
	}, nil
}

// evict removes the oldest terminal jobs until the store is within bounds.
// Caller must hold the write lock.
func (s *JobStore) evict() {
	if len(s.order) <= MaxJobs {
		return
	}
	kept := s.order[:0]
	excess := len(s.order) - MaxJobs
	for _, id := range s.order {
		if excess > 0 && s.jobs[id].State.Terminal() {
			delete(s.jobs, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
