package scrape

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// jobStore keeps jobs in memory, oldest first. Jobs do not survive a restart.
// Only the newest keep finished jobs are retained; queued and running jobs
// are never dropped.
type jobStore struct {
	mu   sync.Mutex
	jobs []*Job
	keep int
	now  func() time.Time
}

func newJobStore(keep int) *jobStore {
	return &jobStore{keep: keep, now: time.Now}
}

func (s *jobStore) create(job *Job) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	job.ID = uuid.NewString()
	job.Status = JobStatusQueued
	job.StatusMessage = "Queued"
	job.CreatedAt = now
	job.UpdatedAt = now
	s.prune()
	s.jobs = append(s.jobs, job)
	return job.Copy()
}

// prune drops the oldest finished jobs beyond keep. Callers hold mu.
func (s *jobStore) prune() {
	finished := 0
	for _, job := range s.jobs {
		if job.Status.Finished() {
			finished++
		}
	}
	drop := finished - s.keep
	if drop <= 0 {
		return
	}

	kept := s.jobs[:0]
	for _, job := range s.jobs {
		if drop > 0 && job.Status.Finished() {
			drop--
			continue
		}
		kept = append(kept, job)
	}
	clear(s.jobs[len(kept):])
	s.jobs = kept
}

// markNextRunning claims the oldest queued job
func (s *jobStore) markNextRunning() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if job.Status != JobStatusQueued {
			continue
		}
		now := s.now()
		job.Status = JobStatusRunning
		job.StatusMessage = "Running"
		job.StartedAt = &now
		job.UpdatedAt = now
		return job.Copy()
	}
	return nil
}

func (s *jobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if job.ID == id {
			fn(job)
			job.UpdatedAt = s.now()
			if job.Status.Finished() && job.CompletedAt == nil {
				at := job.UpdatedAt
				job.CompletedAt = &at
			}
			return
		}
	}
}

func (s *jobStore) get(id string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if job.ID == id {
			return job.Copy(), true
		}
	}
	return nil, false
}

// active returns the running job, else the oldest queued one
func (s *jobStore) active() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queued *Job
	for _, job := range s.jobs {
		switch job.Status {
		case JobStatusRunning:
			return job.Copy()
		case JobStatusQueued:
			if queued == nil {
				queued = job
			}
		}
	}
	return queued.Copy()
}

// recent returns up to limit finished jobs, newest first
func (s *jobStore) recent(limit int) []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Job, 0, limit)
	for i := len(s.jobs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.jobs[i].Status.Finished() {
			out = append(out, s.jobs[i].Copy())
		}
	}
	return out
}

// cancelPending marks queued jobs cancelled, used on shutdown
func (s *jobStore) cancelPending(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, job := range s.jobs {
		if job.Status == JobStatusQueued || job.Status == JobStatusRunning {
			job.Status = JobStatusCancelled
			job.StatusMessage = message
			job.UpdatedAt = now
			at := now
			job.CompletedAt = &at
		}
	}
}
