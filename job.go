package advault

import "time"

// JobState is the lifecycle state of an archiving job.
type JobState string

// Job states. Done and Error are terminal; a job transitions exactly once.
const (
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobError   JobState = "error"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobError
}

// LogLine is one append-only, timestamped progress message. Level is one of
// "info", "ok" or "err" and only affects presentation.
type LogLine struct {
	At    time.Time `json:"at"`
	Msg   string    `json:"msg"`
	Level string    `json:"type"`
}

// Job is one background unit of archiving work. The job record is mutated
// only by the single worker executing it: the log is append-only, progress
// is a nondecreasing hint, and result/error are written exactly once at the
// terminal transition. Pollers only ever see copies.
type Job struct {
	ID        string
	SourceURL string
	State     JobState
	Progress  int
	Log       []LogLine
	Result    *Archive
	Err       string
	CreatedAt time.Time
}

// JobSnapshot is a read-only copy of a job's observable state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	State    JobState  `json:"status"`
	Progress int       `json:"progress"`
	Log      []LogLine `json:"log"`
	Result   *Archive  `json:"result,omitempty"`
	Err      string    `json:"error,omitempty"`
}

// JobStore holds job records for the process lifetime, with bounded
// retention of terminal jobs. It is the only state shared between the
// worker (writer) and pollers (readers).
type JobStore interface {
	// Create registers a new job record.
	Create(job *Job)

	// Update applies fn to the job record under the store's lock.
	// Returns ENOTFOUND if the id is unknown.
	Update(id string, fn func(*Job)) error

	// Snapshot returns a copy of the job's current state.
	// Returns ENOTFOUND if the id is unknown.
	Snapshot(id string) (*JobSnapshot, error)
}

// JobService is the submission interface exposed to callers.
type JobService interface {
	// Submit creates a job for the source URL and schedules it on a
	// background worker. It returns immediately.
	Submit(sourceURL string) (jobID string, err error)

	// Poll returns a read-only snapshot of the job.
	// Returns ENOTFOUND if the id is unknown.
	Poll(jobID string) (*JobSnapshot, error)
}
