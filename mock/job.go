package mock

import "github.com/psawicki/advault"

var _ advault.JobStore = (*JobStore)(nil)

// JobStore is a mock implementation of advault.JobStore.
type JobStore struct {
	CreateFn   func(job *advault.Job)
	UpdateFn   func(id string, fn func(*advault.Job)) error
	SnapshotFn func(id string) (*advault.JobSnapshot, error)
}

func (s *JobStore) Create(job *advault.Job) {
	s.CreateFn(job)
}

func (s *JobStore) Update(id string, fn func(*advault.Job)) error {
	return s.UpdateFn(id, fn)
}

func (s *JobStore) Snapshot(id string) (*advault.JobSnapshot, error) {
	return s.SnapshotFn(id)
}

var _ advault.JobService = (*JobService)(nil)

// JobService is a mock implementation of advault.JobService.
type JobService struct {
	SubmitFn func(sourceURL string) (string, error)
	PollFn   func(jobID string) (*advault.JobSnapshot, error)
}

func (s *JobService) Submit(sourceURL string) (string, error) {
	return s.SubmitFn(sourceURL)
}

func (s *JobService) Poll(jobID string) (*advault.JobSnapshot, error) {
	return s.PollFn(jobID)
}
