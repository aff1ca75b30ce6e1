package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStore_PrunesOldFinishedJobs(t *testing.T) {
	s := newJobStore(2)

	var finished []string
	for range 4 {
		job := s.create(&Job{})
		s.update(job.ID, func(j *Job) { j.Status = JobStatusCompleted })
		finished = append(finished, job.ID)
	}
	running := s.create(&Job{})
	s.update(running.ID, func(j *Job) { j.Status = JobStatusRunning })
	queued := s.create(&Job{})

	require.Len(t, s.jobs, 4)
	for _, id := range finished[:2] {
		_, ok := s.get(id)
		assert.False(t, ok, "job %s should have been pruned", id)
	}

	recent := s.recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, finished[3], recent[0].ID)
	assert.Equal(t, finished[2], recent[1].ID)

	assert.Equal(t, running.ID, s.active().ID)
	got, ok := s.get(queued.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusQueued, got.Status)
}

func TestJobStore_NeverPrunesPendingJobs(t *testing.T) {
	s := newJobStore(0)

	first := s.create(&Job{})
	second := s.create(&Job{})
	require.Len(t, s.jobs, 2)

	s.update(first.ID, func(j *Job) { j.Status = JobStatusFailed })
	s.create(&Job{})

	_, ok := s.get(first.ID)
	assert.False(t, ok)
	_, ok = s.get(second.ID)
	assert.True(t, ok)
	assert.Len(t, s.jobs, 2)
}
