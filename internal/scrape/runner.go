package scrape

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fortuna/portal/internal/ingest"
	"github.com/fortuna/portal/internal/publisher"
	"github.com/fortuna/portal/internal/reconciliation"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	DefaultWorkers = 3
	DefaultDelay   = 1500 * time.Millisecond
)

// TransactionWriter persists converted transactions; repository.Source satisfies it
type TransactionWriter interface {
	SaveTransactions(ctx context.Context, txns []store.Transaction) error
}

// EventPublisher announces scrape output; publisher.RedisPublisher satisfies it
type EventPublisher interface {
	PublishTransaction(ctx context.Context, txn store.Transaction) error
	PublishScrapeCompleted(ctx context.Context, event publisher.ScrapeCompleted) error
}

// SlugSource is a site that knows each school's "school-mascot" slug.
// The default matcher uses these tables to keep "Ohio" apart from "Ohio State".
type SlugSource interface {
	SchoolSlugs() map[string]string
}

// Target pairs a site with the fetcher that loads its pages
type Target struct {
	Source  ingest.Source
	Fetcher ingest.Fetcher
}

// RunnerConfig wires a Runner. Targets are in merge priority order: when
// SourceAll is requested the first target's fields win conflicts.
type RunnerConfig struct {
	Targets   []Target
	Teams     []store.Team
	Matcher   *reconciliation.Matcher
	Workers   int
	Delay     time.Duration
	OutputDir string
	Writer    TransactionWriter
	Publisher EventPublisher
	Logger    *zap.Logger
}

// Result is what a finished run produced
type Result struct {
	Entries      []ingest.Entry      `json:"entries"`
	Transactions []store.Transaction `json:"transactions"`
	OutputFile   string              `json:"output_file,omitempty"`
	// FailedTeams maps "source/team" to the error that team hit
	FailedTeams map[string]string `json:"failed_teams,omitempty"`
	// Merges and Conflicts count cross-site reconciliation for this run
	Merges    int `json:"merges,omitempty"`
	Conflicts int `json:"conflicts,omitempty"`
}

// Runner executes scrape specs against the configured sites.
type Runner struct {
	targets   map[string]Target
	order     []string
	matcher   *reconciliation.Matcher
	engine    *reconciliation.Engine
	logos     map[string]string
	workers   int
	delay     time.Duration
	outputDir string
	writer    TransactionWriter
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRunner constructs a runner
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{
		targets:   make(map[string]Target, len(cfg.Targets)),
		matcher:   cfg.Matcher,
		engine:    reconciliation.NewEngine(reconciliation.SmartMerge),
		logos:     make(map[string]string, len(cfg.Teams)),
		workers:   cfg.Workers,
		delay:     cfg.Delay,
		outputDir: cfg.OutputDir,
		writer:    cfg.Writer,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       time.Now,
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.delay < 0 {
		r.delay = 0
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for _, t := range cfg.Targets {
		name := t.Source.Name()
		if _, dup := r.targets[name]; !dup {
			r.order = append(r.order, name)
		}
		r.targets[name] = t
	}
	if r.matcher == nil {
		r.matcher = reconciliation.NewMatcher(cfg.Teams, reconciliation.WithSchoolSlugs(schoolSlugs(cfg.Targets)))
	}
	for _, team := range cfg.Teams {
		r.logos[team.Name] = team.Logo
	}
	return r
}

// schoolSlugs collects the slug tables of targets that carry one. Earlier
// targets win a school present in several tables.
func schoolSlugs(targets []Target) map[string]string {
	var slugs map[string]string
	for _, t := range targets {
		ss, ok := t.Source.(SlugSource)
		if !ok {
			continue
		}
		if slugs == nil {
			slugs = make(map[string]string)
		}
		for school, slug := range ss.SchoolSlugs() {
			if _, seen := slugs[school]; !seen {
				slugs[school] = slug
			}
		}
	}
	return slugs
}

// Sources lists the configured source names in priority order
func (r *Runner) Sources() []string {
	return append([]string(nil), r.order...)
}

// MergeTotals returns reconciliation counters summed over every run
func (r *Runner) MergeTotals() reconciliation.Metrics {
	return r.engine.Metrics()
}

type task struct {
	index  int
	source string
	team   string
	url    string
}

type taskResult struct {
	task    task
	entries []ingest.Entry
	err     error
}

// Validate checks spec against the configured sources and returns the number
// of pages it would fetch
func (r *Runner) Validate(spec JobSpec) (int, error) {
	tasks, err := r.plan(spec)
	return len(tasks), err
}

// plan resolves a spec into one fetch per source and team. A team must be
// known to its source; with SourceAll it must be known to at least one.
func (r *Runner) plan(spec JobSpec) ([]task, error) {
	sources, err := r.resolveSources(spec.Source)
	if err != nil {
		return nil, err
	}

	var tasks []task
	for _, name := range sources {
		src := r.targets[name].Source
		teams := spec.Teams
		if len(teams) == 0 {
			teams = src.Teams()
		}
		for _, team := range teams {
			u, err := src.URL(team, spec.Year, spec.Status)
			if err != nil {
				if spec.Source == SourceAll {
					continue
				}
				return nil, errors.NewValidationError(err.Error(), "teams", team)
			}
			tasks = append(tasks, task{index: len(tasks), source: name, team: team, url: u})
		}
	}

	if spec.Source == SourceAll {
		if missing := unplanned(spec.Teams, tasks); len(missing) > 0 {
			return nil, errors.NewValidationError("unknown team for every source", "teams", missing)
		}
	}
	return tasks, nil
}

func unplanned(teams []string, tasks []task) []string {
	planned := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		planned[t.team] = true
	}
	var missing []string
	for _, team := range teams {
		if !planned[team] {
			missing = append(missing, team)
		}
	}
	return missing
}

func (r *Runner) resolveSources(source string) ([]string, error) {
	if source == SourceAll {
		if len(r.order) == 0 {
			return nil, errors.NewValidationError("no scrape sources configured", "source", source)
		}
		return r.Sources(), nil
	}
	if _, ok := r.targets[source]; !ok {
		return nil, errors.NewValidationError(
			fmt.Sprintf("unknown source %q (want one of %v or %q)", source, r.order, SourceAll),
			"source", source)
	}
	return []string{source}, nil
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) (*Result, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	tasks, err := r.plan(spec)
	if err != nil {
		reporter.OnJobError(err)
		return nil, err
	}
	reporter.OnJobStart(spec, len(tasks))

	if spec.DryRun {
		reporter.OnProgress(fmt.Sprintf("Dry-run mode: %d page(s) planned, nothing fetched", len(tasks)), 0, len(tasks))
		result := &Result{}
		reporter.OnJobComplete(result)
		return result, nil
	}

	results := r.scrapeAll(ctx, tasks, reporter)
	if err := ctx.Err(); err != nil {
		reporter.OnJobError(err)
		return nil, err
	}

	result := &Result{FailedTeams: map[string]string{}}
	bySource := make(map[string][]ingest.Entry)
	for _, res := range results {
		if res.err != nil {
			result.FailedTeams[res.task.source+"/"+res.task.team] = res.err.Error()
			continue
		}
		bySource[res.task.source] = append(bySource[res.task.source], res.entries...)
	}
	if len(tasks) > 0 && len(result.FailedTeams) == len(tasks) {
		err := errors.NewScrapeError("every team failed", spec.Source, "", "", nil)
		reporter.OnJobError(err)
		return nil, err
	}

	result.Entries = r.mergeSources(bySource, result)
	result.Transactions = r.toTransactions(result.Entries, r.now())

	if r.outputDir != "" && len(result.Entries) > 0 {
		path := filepath.Join(r.outputDir, OutputFileName(spec.Source, spec.Year, spec.Status))
		if err := WriteCSV(path, result.Entries); err != nil {
			reporter.OnJobError(err)
			return nil, err
		}
		result.OutputFile = path
		reporter.OnProgress("Saved "+path, len(tasks), len(tasks))
	}

	if r.writer != nil && len(result.Transactions) > 0 {
		if err := r.writer.SaveTransactions(ctx, result.Transactions); err != nil {
			err = errors.NewServiceError("saving scraped transactions", "scrape", "save", err)
			reporter.OnJobError(err)
			return nil, err
		}
	}

	r.publish(ctx, spec, result)
	reporter.OnJobComplete(result)
	return result, nil
}

// scrapeAll fetches every task on a bounded pool; results come back in task order
func (r *Runner) scrapeAll(ctx context.Context, tasks []task, reporter Reporter) []taskResult {
	p := pool.New().WithMaxGoroutines(r.workers)

	results := make([]taskResult, len(tasks))
	var resultsMu sync.Mutex
	var done atomic.Int64

	for _, t := range tasks {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			res := r.scrapeTeam(ctx, t)

			resultsMu.Lock()
			results[t.index] = res
			resultsMu.Unlock()

			reporter.OnTeamScraped(t.source, t.team, len(res.entries), res.err)
			n := int(done.Add(1))
			reporter.OnProgress(fmt.Sprintf("Scraped %s %s (%d/%d)", t.source, t.team, n, len(tasks)), n, len(tasks))

			sleep(ctx, r.delay)
		})
	}

	p.Wait()
	return results
}

func (r *Runner) scrapeTeam(ctx context.Context, t task) taskResult {
	target := r.targets[t.source]
	res := taskResult{task: t}

	html, err := target.Fetcher.Fetch(ctx, t.url)
	if err != nil {
		res.err = errors.NewScrapeError("fetch failed", t.source, t.team, t.url, err)
		r.logger.Warn("scrape fetch failed",
			zap.String("source", t.source), zap.String("team", t.team), zap.Error(err))
		return res
	}

	entries, err := target.Source.Parse(html, t.team)
	if err != nil {
		res.err = errors.NewScrapeError("parse failed", t.source, t.team, t.url, err)
		return res
	}

	r.logger.Debug("team scraped",
		zap.String("source", t.source), zap.String("team", t.team), zap.Int("entries", len(entries)))
	res.entries = entries
	return res
}

// mergeSources folds later sources into the first one in priority order,
// adding the merge counts to result
func (r *Runner) mergeSources(bySource map[string][]ingest.Entry, result *Result) []ingest.Entry {
	var merged []ingest.Entry
	first := true
	for _, name := range r.order {
		entries, ok := bySource[name]
		if !ok {
			continue
		}
		if first {
			merged = append(merged, entries...)
			first = false
			continue
		}
		var stats reconciliation.Metrics
		merged, stats = r.engine.MergeCounted(merged, entries)
		result.Merges += stats.Merges
		result.Conflicts += stats.Conflicts
	}
	return merged
}

func (r *Runner) publish(ctx context.Context, spec JobSpec, result *Result) {
	if r.publisher == nil {
		return
	}

	for _, txn := range result.Transactions {
		if err := r.publisher.PublishTransaction(ctx, txn); err != nil {
			r.logger.Warn("publish transaction failed", zap.String("id", txn.ID), zap.Error(err))
		}
	}

	teams := append([]string(nil), spec.Teams...)
	sort.Strings(teams)
	event := publisher.ScrapeCompleted{
		JobID:        spec.JobID,
		Source:       spec.Source,
		Year:         spec.Year,
		Teams:        teams,
		Entries:      len(result.Entries),
		Transactions: len(result.Transactions),
		Status:       string(JobStatusCompleted),
		CompletedAt:  r.now(),
	}
	if err := r.publisher.PublishScrapeCompleted(ctx, event); err != nil {
		r.logger.Warn("publish scrape event failed", zap.String("job_id", spec.JobID), zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec, int) {}
func (nopReporter) OnTeamScraped(string, string, int, error) {}
func (nopReporter) OnProgress(string, int, int) {}
func (nopReporter) OnJobComplete(*Result) {}
func (nopReporter) OnJobError(error) {}
