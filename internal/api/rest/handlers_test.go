package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/reconciliation"
	"github.com/fortuna/portal/internal/scrape"
	"github.com/fortuna/portal/internal/service"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func newTestServer(handler *Handler, scrapeHandler *ScrapeHandler) http.Handler {
	if handler == nil {
		handler = NewHandler(store.SeedCatalog(), store.DefaultFavoriteIDs)
	}
	return NewServer("0", handler, scrapeHandler, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func teamNames(teams []store.Team) []string {
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return names
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])

	handler := NewHandler(store.SeedCatalog(), nil).
		WithHealthCheck("redis", checkFunc(func(context.Context) error { return fmt.Errorf("connection refused") }))
	rec = do(t, newTestServer(handler, nil), "GET", "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"redis": "connection refused"}, body["dependencies"])
}

func TestGetTeams(t *testing.T) {
	srv := newTestServer(nil, nil)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"default sorts by activity", "/api/v1/teams", []string{
			"Alabama Crimson Tide", "Ohio State Buckeyes", "Texas Longhorns", "Georgia Bulldogs",
			"Oregon Ducks", "Michigan Wolverines", "USC Trojans", "Florida State Seminoles",
		}},
		{"conference and threshold", "/api/v1/teams?conference=SEC&min_activity=86",
			[]string{"Alabama Crimson Tide", "Texas Longhorns"}},
		{"name query", "/api/v1/teams?q=state", []string{"Ohio State Buckeyes", "Florida State Seminoles"}},
		{"sort by lost", "/api/v1/teams?sort=lost&conference=Big%20Ten",
			[]string{"USC Trojans", "Michigan Wolverines", "Ohio State Buckeyes", "Oregon Ducks"}},
		{"threshold above range", "/api/v1/teams?min_activity=150", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, "GET", tt.target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, teamNames(decode[[]store.Team](t, rec)))
		})
	}
}

func TestGetTeams_BadParams(t *testing.T) {
	srv := newTestServer(nil, nil)

	for _, target := range []string{"/api/v1/teams?sort=wins", "/api/v1/teams?min_activity=high"} {
		rec := do(t, srv, "GET", target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetTrendingTeams(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/teams/trending?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Alabama Crimson Tide", "Ohio State Buckeyes", "Texas Longhorns"},
		teamNames(decode[[]store.Team](t, rec)))

	rec = do(t, srv, "GET", "/api/v1/teams/trending?limit=zero", "")
	assert.Len(t, decode[[]store.Team](t, rec), service.DefaultTrendingLimit)
}

func TestGetTeam(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/teams/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[service.TeamDetail](t, rec)
	assert.Equal(t, "Alabama Crimson Tide", detail.Team.Name)
	assert.True(t, detail.HighActivity)
	require.Len(t, detail.IncomingPlayers, 1)
	assert.Equal(t, "Marcus Johnson", detail.IncomingPlayers[0].Name)
	assert.Empty(t, detail.OutgoingPlayers)
	assert.NotEmpty(t, detail.SuggestedPrompts)

	rec = do(t, srv, "GET", "/api/v1/teams/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, decode[map[string]any](t, rec)["code"])
}

func TestGetPlayers(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/players", "")
	assert.Len(t, decode[[]store.Player](t, rec), 4)

	rec = do(t, srv, "GET", "/api/v1/players?q=wr", "")
	players := decode[[]store.Player](t, rec)
	require.Len(t, players, 1)
	assert.Equal(t, "DeAndre Williams", players[0].Name)

	rec = do(t, srv, "GET", "/api/v1/players/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[service.PlayerDetail](t, rec)
	assert.Equal(t, "Tyler Anderson", detail.Player.Name)
	require.Len(t, detail.Transactions, 1)
	assert.Equal(t, "Michigan Wolverines", detail.Transactions[0].FromTeam)

	rec = do(t, srv, "GET", "/api/v1/players/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTransactionsAndSearch(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/transactions", "")
	assert.Len(t, decode[[]store.Transaction](t, rec), 5)

	rec = do(t, srv, "GET", "/api/v1/transactions?q=usc", "")
	assert.Len(t, decode[[]store.Transaction](t, rec), 2)

	rec = do(t, srv, "GET", "/api/v1/search?q=Alabama", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[query.SearchResults](t, rec)
	assert.Equal(t, "Alabama", results.Query)
	assert.Len(t, results.Teams, 1)
	assert.Len(t, results.Players, 1)
	assert.Len(t, results.Transactions, 2)
	assert.Equal(t, 4, results.Total)
}

func TestGetFavorites(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/favorites", "")
	overview := decode[service.FavoritesOverview](t, rec)
	assert.Equal(t, []string{"1", "3", "6"}, overview.FavoriteIDs)
	assert.Equal(t, []string{"Alabama Crimson Tide", "Georgia Bulldogs", "Texas Longhorns"}, teamNames(overview.Teams))
	assert.True(t, overview.HasFavorites)
	assert.NotNil(t, overview.Summary)

	rec = do(t, srv, "GET", "/api/v1/favorites?ids=8,+2", "")
	overview = decode[service.FavoritesOverview](t, rec)
	assert.Equal(t, []string{"Ohio State Buckeyes", "Florida State Seminoles"}, teamNames(overview.Teams))
	assert.Len(t, overview.Transactions, 1)

	rec = do(t, srv, "GET", "/api/v1/favorites?ids=", "")
	overview = decode[service.FavoritesOverview](t, rec)
	assert.False(t, overview.HasFavorites)
	assert.Empty(t, overview.Teams)
	assert.Nil(t, overview.Summary)
}

func TestToggleFavorite(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "POST", "/api/v1/favorites/toggle", `{"favorites":["1","3"],"team_id":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string][]string{"favorites": {"1"}}, decode[map[string][]string](t, rec))

	rec = do(t, srv, "POST", "/api/v1/favorites/toggle", `{"favorites":["1"],"team_id":"7"}`)
	assert.Equal(t, map[string][]string{"favorites": {"1", "7"}}, decode[map[string][]string](t, rec))

	rec = do(t, srv, "POST", "/api/v1/favorites/toggle", `{"favorites":["1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeValidation, decode[map[string]any](t, rec)["code"])

	rec = do(t, srv, "POST", "/api/v1/favorites/toggle", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHome(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "GET", "/api/v1/home", "")
	home := decode[service.HomePage](t, rec)
	assert.True(t, home.HasFavorites)
	assert.Contains(t, home.Summary.Title, "Favorite Teams")
	assert.Len(t, home.Trending, service.DefaultTrendingLimit)
	assert.Len(t, home.RecentTransactions, 5)

	rec = do(t, srv, "GET", "/api/v1/home?ids=", "")
	home = decode[service.HomePage](t, rec)
	assert.False(t, home.HasFavorites)
}

func TestGetAnalytics(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), "GET", "/api/v1/analytics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[service.AnalyticsOverview](t, rec)
	assert.Equal(t, 5, overview.TotalTransactions)
	assert.Equal(t, []query.Count{
		{Name: "QB", Value: 1}, {Name: "WR", Value: 1}, {Name: "RB", Value: 1},
		{Name: "LB", Value: 1}, {Name: "DB", Value: 1},
	}, overview.Positions)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := do(t, srv, "OPTIONS", "/api/v1/favorites/toggle", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, srv, "GET", "/api/v1/teams", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type fakeScrapeService struct {
	requests []scrape.Request
	enqueue  func(req scrape.Request) (*scrape.Job, error)
	status   *scrape.StatusSummary
	jobs     map[string]*scrape.Job
}

func (f *fakeScrapeService) Enqueue(_ context.Context, req scrape.Request) (*scrape.Job, error) {
	f.requests = append(f.requests, req)
	return f.enqueue(req)
}

func (f *fakeScrapeService) Get(id string) (*scrape.Job, error) {
	if job, ok := f.jobs[id]; ok {
		return job, nil
	}
	return nil, errors.NewNotFoundError("scrape job", id)
}

func (f *fakeScrapeService) GetStatus(context.Context) (*scrape.StatusSummary, error) {
	return f.status, nil
}

func TestScrapeRoutes(t *testing.T) {
	queued := &scrape.Job{ID: "job-1", Source: "on3", Status: scrape.JobStatusQueued}
	fake := &fakeScrapeService{
		enqueue: func(req scrape.Request) (*scrape.Job, error) {
			if req.Year == 1999 {
				return nil, errors.NewValidationError("year 1999 out of range", "year", 1999)
			}
			return queued, nil
		},
		status: &scrape.StatusSummary{},
		jobs:   map[string]*scrape.Job{"job-1": queued},
	}
	srv := newTestServer(nil, NewScrapeHandler(fake))

	rec := do(t, srv, "POST", "/api/v1/scrape", `{"source":"on3","teams":["Alabama"],"year":2026,"dry_run":true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"job_id":"job-1"`)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, []string{"Alabama"}, fake.requests[0].Teams)
	assert.True(t, fake.requests[0].DryRun)

	rec = do(t, srv, "POST", "/api/v1/scrape", `{"year":1999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, "GET", "/api/v1/scrape/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[map[string]any](t, rec)
	assert.Equal(t, "idle", status["status"])
	assert.Equal(t, []any{}, status["history"])
	assert.Contains(t, status, "reconciliation")

	fake.status = &scrape.StatusSummary{Reconciliation: reconciliation.Metrics{Merges: 3, Conflicts: 1}}
	rec = do(t, srv, "GET", "/api/v1/scrape/status", "")
	status = decode[map[string]any](t, rec)
	merges := status["reconciliation"].(map[string]any)
	assert.EqualValues(t, 3, merges["merges"])
	assert.EqualValues(t, 1, merges["conflicts"])

	fake.status = &scrape.StatusSummary{ActiveJob: &scrape.Job{ID: "job-2", Status: scrape.JobStatusRunning, StatusMessage: "Scraped on3 Alabama (1/2)"}}
	rec = do(t, srv, "GET", "/api/v1/scrape/status", "")
	status = decode[map[string]any](t, rec)
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, "Scraped on3 Alabama (1/2)", status["message"])

	rec = do(t, srv, "GET", "/api/v1/scrape/jobs/job-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, srv, "GET", "/api/v1/scrape/jobs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScrapeRoutesNotMounted(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), "GET", "/api/v1/scrape/status", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
