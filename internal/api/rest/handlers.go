package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/service"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
	"github.com/gorilla/mux"
)

// HealthChecker is a dependency whose reachability /health reports
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	teamService        *service.TeamService
	playerService      *service.PlayerService
	transactionService *service.TransactionService
	searchService      *service.SearchService
	favoritesService   *service.FavoritesService
	analyticsService   *service.AnalyticsService

	checks map[string]HealthChecker
}

// NewHandler creates a new handler over catalog
func NewHandler(catalog *store.Catalog, defaultFavorites []string) *Handler {
	return &Handler{
		teamService:        service.NewTeamService(catalog),
		playerService:      service.NewPlayerService(catalog),
		transactionService: service.NewTransactionService(catalog),
		searchService:      service.NewSearchService(catalog),
		favoritesService:   service.NewFavoritesService(catalog, defaultFavorites),
		analyticsService:   service.NewAnalyticsService(catalog),
		checks:             make(map[string]HealthChecker),
	}
}

// WithHealthCheck adds a named dependency to /health
func (h *Handler) WithHealthCheck(name string, check HealthChecker) *Handler {
	h.checks[name] = check
	return h
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	health := "healthy"
	if status != http.StatusOK {
		health = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       health,
		"service":      "portal",
		"version":      "1.0.0",
		"dependencies": deps,
	})
}

// GetTeams returns teams matching conference, min_activity, q, and sort
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter := query.DefaultTeamFilter()
	if conference := params.Get("conference"); conference != "" {
		filter.Conference = conference
	}
	filter.NameQuery = params.Get("q")

	if raw := params.Get("min_activity"); raw != "" {
		minActivity, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid min_activity (want an integer)", err)
			return
		}
		filter.MinActivity = minActivity
	}

	sortKey, err := query.ParseSortKey(params.Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid sort", err)
		return
	}
	filter.SortKey = sortKey

	respondJSON(w, http.StatusOK, h.teamService.List(filter))
}

// GetTrendingTeams returns the most active teams
func (h *Handler) GetTrendingTeams(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultTrendingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	respondJSON(w, http.StatusOK, h.teamService.Trending(limit))
}

// GetTeam returns one team with its incoming and outgoing players
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.Get(mux.Vars(r)["teamID"])
	if err != nil {
		respondServiceError(w, "Failed to fetch team", err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// GetPlayers lists players, filtered by q when present
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		respondJSON(w, http.StatusOK, h.playerService.Search(q))
		return
	}
	respondJSON(w, http.StatusOK, h.playerService.List())
}

// GetPlayer returns one player with their transfer history
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.playerService.Get(mux.Vars(r)["playerID"])
	if err != nil {
		respondServiceError(w, "Failed to fetch player", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// GetTransactions lists transactions, filtered by q when present
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		respondJSON(w, http.StatusOK, h.transactionService.Search(q))
		return
	}
	respondJSON(w, http.StatusOK, h.transactionService.List())
}

// Search runs the global search across teams, players, and transactions
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.searchService.SearchAll(r.URL.Query().Get("q")))
}

// GetFavorites returns the favorite teams and their transactions
func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.favoritesService.Overview(h.favoriteIDs(r)))
}

// GetHome returns the landing page payload
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.favoritesService.Home(h.favoriteIDs(r)))
}

type toggleFavoriteRequest struct {
	Favorites []string `json:"favorites"`
	TeamID    string   `json:"team_id"`
}

// ToggleFavorite adds or removes team_id from the posted favorites list
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	teamID := strings.TrimSpace(req.TeamID)
	if teamID == "" {
		respondServiceError(w, "Invalid request body",
			errors.NewValidationError("team_id is required", "team_id", req.TeamID))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": h.favoritesService.Toggle(req.Favorites, teamID),
	})
}

// GetAnalytics returns the conference and position breakdowns
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analyticsService.Overview())
}

// favoriteIDs reads the comma-separated ids parameter. Without one the
// configured defaults apply; an empty ids= means no favorites.
func (h *Handler) favoriteIDs(r *http.Request) []string {
	params := r.URL.Query()
	if !params.Has("ids") {
		return h.favoritesService.DefaultIDs()
	}

	ids := make([]string, 0)
	for _, id := range strings.Split(params.Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
		if pe, ok := errors.AsPortalError(err); ok {
			response["code"] = pe.Code
		}
	}

	respondJSON(w, status, response)
}

// respondServiceError derives the status from a typed service error
func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondError(w, errors.StatusCode(err), message, err)
}
