// Package scheduler enqueues the daily portal scrape.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/portal/internal/scrape"
	"go.uber.org/zap"
)

// Enqueuer accepts scrape requests; scrape.Service satisfies it
type Enqueuer interface {
	Enqueue(ctx context.Context, req scrape.Request) (*scrape.Job, error)
}

// Config holds scheduler configuration
type Config struct {
	DailyHour  int    // hour of day (0-23) the scrape is queued
	Source     string // empty means the scrape service default
	Status     string // portal status filter, empty for all
	MaxRetries int    // Default: 3
	RetryDelay time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		DailyHour:  3,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}
}

// Scheduler queues one scrape per day at Config.DailyHour
type Scheduler struct {
	enqueuer Enqueuer
	config   Config
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	nextRun time.Time
	lastJob string
	lastErr string
}

// New creates a scheduler
func New(enqueuer Enqueuer, config Config, logger *zap.Logger) (*Scheduler, error) {
	if config.DailyHour < 0 || config.DailyHour > 23 {
		return nil, fmt.Errorf("daily hour %d out of range 0-23", config.DailyHour)
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		enqueuer: enqueuer,
		config:   config,
		logger:   logger.With(zap.String("component", "scheduler")),
		now:      time.Now,
	}, nil
}

// Start runs until ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.logger.Info("daily scrape scheduler started", zap.Int("hour", s.config.DailyHour))

	for {
		next := nextRun(s.now(), s.config.DailyHour)
		s.mu.Lock()
		s.nextRun = next
		s.mu.Unlock()

		wait := next.Sub(s.now())
		s.logger.Info("next daily scrape",
			zap.Time("at", next), zap.Duration("in", wait.Round(time.Second)))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("daily scrape scheduler stopped")
			return
		case <-timer.C:
			if err := s.Trigger(ctx); err != nil {
				s.logger.Error("daily scrape not queued", zap.Error(err))
			}
		}
	}
}

// Trigger queues a scrape now, retrying rejected enqueues
func (s *Scheduler) Trigger(ctx context.Context) error {
	req := scrape.Request{Source: s.config.Source, Status: s.config.Status}

	var err error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		var job *scrape.Job
		job, err = s.enqueuer.Enqueue(ctx, req)
		if err == nil {
			s.record(job.ID, "")
			s.logger.Info("daily scrape queued", zap.String("job_id", job.ID))
			return nil
		}

		s.logger.Warn("enqueue attempt failed",
			zap.Int("attempt", attempt), zap.Int("max", s.config.MaxRetries), zap.Error(err))
		if attempt < s.config.MaxRetries && !sleep(ctx, s.config.RetryDelay) {
			err = ctx.Err()
			break
		}
	}

	s.record("", err.Error())
	return err
}

func (s *Scheduler) record(jobID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jobID != "" {
		s.lastJob = jobID
	}
	s.lastErr = errMsg
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// GetStatus returns current scheduler status
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"daily_hour": s.config.DailyHour,
		"source":     s.config.Source,
	}
	if !s.nextRun.IsZero() {
		status["next_run"] = s.nextRun
	}
	if s.lastJob != "" {
		status["last_job_id"] = s.lastJob
	}
	if s.lastErr != "" {
		status["last_error"] = s.lastErr
	}
	return status
}

// nextRun is the first hour:00 strictly after now, in now's location
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
