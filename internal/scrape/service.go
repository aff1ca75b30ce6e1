package scrape

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fortuna/portal/pkg/errors"
	"go.uber.org/zap"
)

const (
	historyLimit = 10
	pollInterval = 3 * time.Second
)

// Service coordinates job bookkeeping, execution, and status reporting.
type Service struct {
	jobs        *jobStore
	runner      *Runner
	defaultYear int

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *zap.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(runner *Runner, defaultYear int, logger *zap.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		jobs:        newJobStore(historyLimit),
		runner:      runner,
		defaultYear: defaultYear,
		wake:        make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With(zap.String("component", "scrape")),
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker, cancelling the running job, and waits for it
// to exit or ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		s.jobs.cancelPending("Service shut down")
		return nil
	}
}

// Enqueue validates req and queues a job for it.
func (s *Service) Enqueue(_ context.Context, req Request) (*Job, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	spec := JobSpec{
		Source: req.Source,
		Teams:  req.Teams,
		Year:   req.Year,
		Status: req.Status,
		DryRun: req.DryRun,
	}
	pages, err := s.runner.Validate(spec)
	if err != nil {
		return nil, err
	}

	job := s.jobs.create(&Job{
		Source:        req.Source,
		Teams:         req.Teams,
		Year:          req.Year,
		StatusFilter:  req.Status,
		DryRun:        req.DryRun,
		ProgressTotal: pages,
	})
	s.logger.Info("scrape job queued",
		zap.String("job_id", job.ID),
		zap.String("source", job.Source),
		zap.Int("pages", pages),
		zap.Bool("dry_run", job.DryRun),
	)

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return job, nil
}

func (s *Service) normalize(req Request) (Request, error) {
	req.Source = strings.ToLower(strings.TrimSpace(req.Source))
	if req.Source == "" {
		sources := s.runner.Sources()
		if len(sources) == 0 {
			return req, errors.NewValidationError("no scrape sources configured", "source", "")
		}
		req.Source = sources[0]
	}

	if req.Year == 0 {
		req.Year = s.defaultYear
	}
	if req.Year < 2000 || req.Year > 2100 {
		return req, errors.NewValidationError(fmt.Sprintf("year %d out of range", req.Year), "year", req.Year)
	}

	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if req.Status != "" && !slices.Contains(PortalStatuses, req.Status) {
		return req, errors.NewValidationError(
			fmt.Sprintf("unknown status %q (want one of %s)", req.Status, strings.Join(PortalStatuses, ", ")),
			"status", req.Status)
	}

	teams := make([]string, 0, len(req.Teams))
	for _, team := range req.Teams {
		if team = strings.TrimSpace(team); team != "" && !slices.Contains(teams, team) {
			teams = append(teams, team)
		}
	}
	req.Teams = teams
	return req, nil
}

// Get returns one job by id
func (s *Service) Get(id string) (*Job, error) {
	job, ok := s.jobs.get(id)
	if !ok {
		return nil, errors.NewNotFoundError("scrape job", id)
	}
	return job, nil
}

// GetStatus returns the active job plus recent history.
func (s *Service) GetStatus(context.Context) (*StatusSummary, error) {
	return &StatusSummary{
		ActiveJob:      s.jobs.active(),
		History:        s.jobs.recent(historyLimit),
		Reconciliation: s.runner.MergeTotals(),
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if s.ctx.Err() != nil {
			return
		}

		job := s.jobs.markNextRunning()
		if job == nil {
			select {
			case <-s.ctx.Done():
				return
			case <-s.wake:
			case <-ticker.C:
			}
			continue
		}

		s.executeJob(job)
	}
}

func (s *Service) executeJob(job *Job) {
	spec := JobSpec{
		JobID:  job.ID,
		Source: job.Source,
		Teams:  job.Teams,
		Year:   job.Year,
		Status: job.StatusFilter,
		DryRun: job.DryRun,
	}
	reporter := &jobReporter{jobs: s.jobs, jobID: job.ID, logger: s.logger}

	start := time.Now()
	result, err := s.runner.Run(s.ctx, spec, reporter)
	if err != nil {
		status := JobStatusFailed
		if s.ctx.Err() != nil {
			status = JobStatusCancelled
		}
		s.jobs.update(job.ID, func(j *Job) {
			j.Status = status
			j.StatusMessage = "Job " + string(status)
			j.LastError = err.Error()
		})
		s.logger.Error("scrape job failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	s.jobs.update(job.ID, func(j *Job) {
		j.Status = JobStatusCompleted
		j.StatusMessage = "Job completed"
		j.Entries = len(result.Entries)
		j.Transactions = len(result.Transactions)
		j.OutputFile = result.OutputFile
		if len(result.FailedTeams) > 0 {
			j.FailedTeams = result.FailedTeams
		}
	})
	s.logger.Info("scrape job completed",
		zap.String("job_id", job.ID),
		zap.Int("entries", len(result.Entries)),
		zap.Int("transactions", len(result.Transactions)),
		zap.Int("failed_teams", len(result.FailedTeams)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

type jobReporter struct {
	jobs   *jobStore
	jobID  string
	logger *zap.Logger
}

func (r *jobReporter) OnJobStart(_ JobSpec, total int) {
	r.jobs.update(r.jobID, func(j *Job) {
		j.ProgressCurrent = 0
		j.ProgressTotal = total
		j.StatusMessage = "Job starting"
	})
}

func (r *jobReporter) OnTeamScraped(source, team string, entries int, err error) {
	if err != nil {
		r.logger.Warn("team scrape failed",
			zap.String("job_id", r.jobID), zap.String("source", source), zap.String("team", team), zap.Error(err))
		return
	}
	r.logger.Debug("team scraped",
		zap.String("job_id", r.jobID), zap.String("source", source), zap.String("team", team), zap.Int("entries", entries))
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	r.jobs.update(r.jobID, func(j *Job) {
		// teams finish out of order on the pool
		j.ProgressCurrent = max(j.ProgressCurrent, current)
		if total > 0 {
			j.ProgressTotal = total
		}
		j.StatusMessage = message
	})
}

func (r *jobReporter) OnJobComplete(*Result) {
	r.jobs.update(r.jobID, func(j *Job) {
		j.ProgressCurrent = j.ProgressTotal
		j.StatusMessage = "Job complete"
	})
}

func (r *jobReporter) OnJobError(err error) {
	r.jobs.update(r.jobID, func(j *Job) {
		j.LastError = err.Error()
	})
}
