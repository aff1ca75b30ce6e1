// Package scrape runs transfer portal scrape jobs: it fans team pages out to
// the site scrapers, reconciles school names against the catalog and writes
// the results to CSV, Postgres and Redis streams.
package scrape

import (
	"time"

	"github.com/fortuna/portal/internal/reconciliation"
)

// SourceAll scrapes every configured source and merges the results
const SourceAll = "all"

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Finished reports whether the status is terminal
func (s JobStatus) Finished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// PortalStatuses are the status filters the portal sites understand
var PortalStatuses = []string{"entered", "committed", "withdrawn", "signed", "enrolled"}

// Request represents a scrape invocation request.
type Request struct {
	Source string   `json:"source"`
	Teams  []string `json:"teams,omitempty"`
	Year   int      `json:"year"`
	Status string   `json:"status,omitempty"`
	DryRun bool     `json:"dry_run"`
}

// Job is the in-memory record of one scrape request.
type Job struct {
	ID              string            `json:"job_id"`
	Source          string            `json:"source"`
	Teams           []string          `json:"teams,omitempty"`
	Year            int               `json:"year"`
	StatusFilter    string            `json:"status_filter,omitempty"`
	DryRun          bool              `json:"dry_run"`
	Status          JobStatus         `json:"status"`
	StatusMessage   string            `json:"status_message,omitempty"`
	ProgressCurrent int               `json:"progress_current"`
	ProgressTotal   int               `json:"progress_total"`
	Entries         int               `json:"entries"`
	Transactions    int               `json:"transactions"`
	OutputFile      string            `json:"output_file,omitempty"`
	FailedTeams     map[string]string `json:"failed_teams,omitempty"`
	LastError       string            `json:"last_error,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// Copy returns a deep enough copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	cpy.Teams = append([]string(nil), j.Teams...)
	if j.FailedTeams != nil {
		cpy.FailedTeams = make(map[string]string, len(j.FailedTeams))
		for k, v := range j.FailedTeams {
			cpy.FailedTeams[k] = v
		}
	}
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	JobID  string
	Source string
	Teams  []string
	Year   int
	Status string
	DryRun bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec, total int)
	OnTeamScraped(source, team string, entries int, err error)
	OnProgress(message string, current int, total int)
	OnJobComplete(result *Result)
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob      *Job                   `json:"active_job,omitempty"`
	History        []*Job                 `json:"recent_jobs"`
	Reconciliation reconciliation.Metrics `json:"reconciliation"`
}
