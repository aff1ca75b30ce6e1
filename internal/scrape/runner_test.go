package scrape

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortuna/portal/internal/ingest"
	"github.com/fortuna/portal/internal/ingest/on3"
	"github.com/fortuna/portal/internal/publisher"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name    string
	entries map[string][]ingest.Entry
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Teams() []string {
	var teams []string
	for team := range f.entries {
		teams = append(teams, team)
	}
	return teams
}

func (f *fakeSource) URL(team string, year int, status string) (string, error) {
	if _, ok := f.entries[team]; !ok {
		return "", fmt.Errorf("unknown team %q", team)
	}
	return fmt.Sprintf("https://%s.test/%s/%d?status=%s", f.name, team, year, status), nil
}

// Parse treats the page body as the team name
func (f *fakeSource) Parse(page, team string) ([]ingest.Entry, error) {
	if page != team {
		return nil, fmt.Errorf("page for %s, want %s", page, team)
	}
	return f.entries[team], nil
}

// teamFetcher serves each team's name as its page and fails listed teams
type teamFetcher struct {
	fail     map[string]bool
	calls    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
	hold     time.Duration
}

func (f *teamFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.hold > 0 {
		time.Sleep(f.hold)
	}

	team := strings.SplitN(strings.SplitN(url, ".test/", 2)[1], "/", 2)[0]
	if f.fail[team] {
		return "", fmt.Errorf("503 for %s", team)
	}
	return team, nil
}

type memWriter struct {
	mu    sync.Mutex
	saved []store.Transaction
}

func (w *memWriter) SaveTransactions(_ context.Context, txns []store.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saved = append(w.saved, txns...)
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	txns   []store.Transaction
	events []publisher.ScrapeCompleted
}

func (p *memPublisher) PublishTransaction(_ context.Context, txn store.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txns = append(p.txns, txn)
	return nil
}

func (p *memPublisher) PublishScrapeCompleted(_ context.Context, e publisher.ScrapeCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func seedEntries() map[string][]ingest.Entry {
	return map[string][]ingest.Entry{
		"Alabama": {
			{Source: "on3", Team: "Alabama", Name: "Marcus Johnson", Position: "QB", Stars: 5,
				Status: "Committed", PortalDate: "12/09/2025", FromSchool: "USC", ToSchool: "Alabama"},
			{Source: "on3", Team: "Alabama", Name: "Undecided Guy", Position: "WR", Status: "Entered", FromSchool: "Alabama"},
		},
		"USC": {
			{Source: "on3", Team: "USC", Name: "Marcus Johnson", Position: "QB", Stars: 5,
				Status: "Committed", PortalDate: "12/09/2025", FromSchool: "USC", ToSchool: "Alabama"},
		},
		"Vanderbilt": {
			{Source: "on3", Team: "Vanderbilt", Name: "Far Away", Position: "CB", FromSchool: "Vanderbilt", ToSchool: "Texas"},
		},
	}
}

func newTestRunner(t *testing.T, fetcher ingest.Fetcher, cfg RunnerConfig) *Runner {
	t.Helper()
	cfg.Targets = append([]Target{{Source: &fakeSource{name: "on3", entries: seedEntries()}, Fetcher: fetcher}}, cfg.Targets...)
	if cfg.Teams == nil {
		cfg.Teams = store.SeedCatalog().Teams()
	}
	return NewRunner(cfg)
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	writer := &memWriter{}
	pub := &memPublisher{}
	fetcher := &teamFetcher{}
	r := newTestRunner(t, fetcher, RunnerConfig{OutputDir: dir, Writer: writer, Publisher: pub})

	result, err := r.Run(context.Background(), JobSpec{JobID: "job-1", Source: "on3", Year: 2026}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 3, fetcher.calls.Load())
	assert.Len(t, result.Entries, 4)
	assert.Empty(t, result.FailedTeams)

	// Marcus is listed on both team pages but is one move
	require.Len(t, result.Transactions, 2)
	var marcus store.Transaction
	for _, txn := range result.Transactions {
		if txn.PlayerName == "Marcus Johnson" {
			marcus = txn
		}
	}
	assert.Equal(t, "USC Trojans", marcus.FromTeam)
	assert.Equal(t, "🟡", marcus.FromTeamLogo)
	assert.Equal(t, "Alabama Crimson Tide", marcus.ToTeam)
	assert.Equal(t, "2025-12-09", marcus.Date)
	assert.Equal(t, "Football", marcus.Sport)
	assert.Equal(t, 5, marcus.StarRating)
	assert.True(t, strings.HasPrefix(marcus.ID, "scr-"))

	assert.Len(t, writer.saved, 2)
	assert.Len(t, pub.txns, 2)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "job-1", pub.events[0].JobID)
	assert.Equal(t, 4, pub.events[0].Entries)

	require.Equal(t, filepath.Join(dir, "portal_on3_2026.csv"), result.OutputFile)
	f, err := os.Open(result.OutputFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
}

func TestRunner_UnknownSchoolsKeptVerbatim(t *testing.T) {
	r := newTestRunner(t, &teamFetcher{}, RunnerConfig{})

	result, err := r.Run(context.Background(), JobSpec{Source: "on3", Teams: []string{"Vanderbilt"}}, nil)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Vanderbilt", result.Transactions[0].FromTeam)
	assert.Empty(t, result.Transactions[0].FromTeamLogo)
	assert.Equal(t, "Texas Longhorns", result.Transactions[0].ToTeam)
}

// slugSource is a fakeSource that also publishes a school slug table
type slugSource struct {
	*fakeSource
	slugs map[string]string
}

func (s slugSource) SchoolSlugs() map[string]string { return s.slugs }

func TestRunner_SchoolSlugsKeepPrefixSchoolsApart(t *testing.T) {
	entries := map[string][]ingest.Entry{
		"Ohio State": {
			{Source: "on3", Team: "Ohio State", Name: "Bobcat Transfer", Position: "LB",
				FromSchool: "Ohio", ToSchool: "Ohio State"},
		},
	}
	run := func(src ingest.Source) store.Transaction {
		r := NewRunner(RunnerConfig{
			Targets: []Target{{Source: src, Fetcher: &teamFetcher{}}},
			Teams:   store.SeedCatalog().Teams(),
		})
		result, err := r.Run(context.Background(), JobSpec{Source: "on3"}, nil)
		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)
		return result.Transactions[0]
	}

	txn := run(slugSource{fakeSource: &fakeSource{name: "on3", entries: entries}, slugs: on3.Slugs()})
	assert.Equal(t, "Ohio", txn.FromTeam)
	assert.Empty(t, txn.FromTeamLogo)
	assert.Equal(t, "Ohio State Buckeyes", txn.ToTeam)

	// without a slug table "Ohio" is a unique prefix of the catalog's Ohio State
	txn = run(&fakeSource{name: "on3", entries: entries})
	assert.Equal(t, "Ohio State Buckeyes", txn.FromTeam)
}

func TestSchoolSlugs_FirstTargetWins(t *testing.T) {
	targets := []Target{
		{Source: &fakeSource{name: "plain"}},
		{Source: slugSource{fakeSource: &fakeSource{name: "a"}, slugs: map[string]string{"Ohio": "ohio-bobcats"}}},
		{Source: slugSource{fakeSource: &fakeSource{name: "b"}, slugs: map[string]string{"Ohio": "other", "Akron": "akron-zips"}}},
	}
	assert.Equal(t, map[string]string{"Ohio": "ohio-bobcats", "Akron": "akron-zips"}, schoolSlugs(targets))
	assert.Nil(t, schoolSlugs(targets[:1]))
}

func TestRunner_DryRunFetchesNothing(t *testing.T) {
	fetcher := &teamFetcher{}
	writer := &memWriter{}
	r := newTestRunner(t, fetcher, RunnerConfig{Writer: writer, OutputDir: t.TempDir()})

	result, err := r.Run(context.Background(), JobSpec{Source: "on3", DryRun: true}, nil)
	require.NoError(t, err)

	assert.Zero(t, fetcher.calls.Load())
	assert.Empty(t, result.Entries)
	assert.Empty(t, writer.saved)
}

func TestRunner_PartialFailure(t *testing.T) {
	fetcher := &teamFetcher{fail: map[string]bool{"USC": true}}
	r := newTestRunner(t, fetcher, RunnerConfig{})

	result, err := r.Run(context.Background(), JobSpec{Source: "on3", Teams: []string{"Alabama", "USC"}}, nil)
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2)
	assert.Contains(t, result.FailedTeams, "on3/USC")
}

func TestRunner_AllTeamsFail(t *testing.T) {
	fetcher := &teamFetcher{fail: map[string]bool{"Alabama": true}}
	r := newTestRunner(t, fetcher, RunnerConfig{})

	_, err := r.Run(context.Background(), JobSpec{Source: "on3", Teams: []string{"Alabama"}}, nil)

	require.Error(t, err)
	pe, ok := errors.AsPortalError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeScrape, pe.Code)
}

func TestRunner_RespectsWorkerLimit(t *testing.T) {
	entries := map[string][]ingest.Entry{}
	for i := 0; i < 8; i++ {
		entries[fmt.Sprintf("Team%d", i)] = nil
	}
	fetcher := &teamFetcher{hold: 20 * time.Millisecond}
	r := NewRunner(RunnerConfig{
		Targets: []Target{{Source: &fakeSource{name: "on3", entries: entries}, Fetcher: fetcher}},
		Workers: 2,
	})

	_, err := r.Run(context.Background(), JobSpec{Source: "on3"}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 8, fetcher.calls.Load())
	assert.LessOrEqual(t, fetcher.peak.Load(), int64(2))
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRunner(t, &teamFetcher{}, RunnerConfig{})

	_, err := r.Run(ctx, JobSpec{Source: "on3"}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Validate(t *testing.T) {
	r := newTestRunner(t, &teamFetcher{}, RunnerConfig{})

	pages, err := r.Validate(JobSpec{Source: "on3"})
	require.NoError(t, err)
	assert.Equal(t, 3, pages)

	_, err = r.Validate(JobSpec{Source: "on3", Teams: []string{"Hogwarts"}})
	assert.Equal(t, 400, errors.StatusCode(err))

	_, err = r.Validate(JobSpec{Source: "rivals"})
	assert.Equal(t, 400, errors.StatusCode(err))
}

func TestRunner_SourceAllMerges(t *testing.T) {
	s247 := &fakeSource{name: "247", entries: map[string][]ingest.Entry{
		"Alabama": {
			{Source: "247", Team: "Alabama", Name: "Marcus Johnson", Height: `6'3"`, Weight: "215 lbs",
				Status: "Enrolled", FromSchool: "USC", ToSchool: "Alabama"},
		},
		"Georgia": {
			{Source: "247", Team: "Georgia", Name: "Only On 247", FromSchool: "Michigan", ToSchool: "Georgia"},
		},
	}}
	fetcher := &teamFetcher{}
	r := newTestRunner(t, fetcher, RunnerConfig{Targets: []Target{{Source: s247, Fetcher: fetcher}}})

	assert.Equal(t, []string{"on3", "247"}, r.Sources())

	// Georgia is only known to 247, USC only to on3
	result, err := r.Run(context.Background(), JobSpec{Source: SourceAll, Teams: []string{"Alabama", "Georgia"}}, nil)
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	marcus := result.Entries[0]
	assert.Equal(t, "on3", marcus.Source)
	assert.Equal(t, `6'3"`, marcus.Height)
	assert.Equal(t, "Enrolled", marcus.Status)
	assert.Equal(t, 1, result.Merges)
	assert.Equal(t, 1, r.MergeTotals().Merges)

	again, err := r.Run(context.Background(), JobSpec{Source: SourceAll, Teams: []string{"Alabama"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Merges)
	assert.Equal(t, 2, r.MergeTotals().Merges)

	_, err = r.Validate(JobSpec{Source: SourceAll, Teams: []string{"Hogwarts"}})
	assert.Error(t, err)
}

func TestTransactionDate(t *testing.T) {
	scraped := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-12-09", transactionDate("12/09/2025", scraped))
	assert.Equal(t, "2025-03-04", transactionDate("3/4/2025", scraped))
	assert.Equal(t, "2026-01-05", transactionDate("", scraped))
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "portal_on3.csv", OutputFileName("on3", 0, ""))
	assert.Equal(t, "portal_247_2026_committed.csv", OutputFileName("247", 2026, "committed"))
}
