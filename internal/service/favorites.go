package service

import (
	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/store"
)

// FavoritesService computes favorites-driven views. It holds no favorites
// state: callers pass the current id list and get a new one back.
type FavoritesService struct {
	catalog    *store.Catalog
	defaultIDs []string
}

// NewFavoritesService creates a favorites service; defaultIDs is the list a
// client without favorites starts from
func NewFavoritesService(catalog *store.Catalog, defaultIDs []string) *FavoritesService {
	return &FavoritesService{
		catalog:    catalog,
		defaultIDs: append([]string(nil), defaultIDs...),
	}
}

// DefaultIDs returns a copy of the starting favorites list
func (s *FavoritesService) DefaultIDs() []string {
	return append([]string{}, s.defaultIDs...)
}

// Toggle adds or removes teamID. Unknown team ids are accepted as-is.
func (s *FavoritesService) Toggle(current []string, teamID string) []string {
	return query.ToggleFavorite(current, teamID)
}

// Overview resolves favorite ids into teams and their related transactions
func (s *FavoritesService) Overview(favoriteIDs []string) *FavoritesOverview {
	teams := query.FavoriteTeams(s.catalog.Teams(), favoriteIDs)
	overview := &FavoritesOverview{
		FavoriteIDs:  append([]string{}, favoriteIDs...),
		Teams:        teams,
		Transactions: query.RelatedTransactions(s.catalog.Transactions(), teams),
		HasFavorites: len(teams) > 0,
	}
	if overview.HasFavorites {
		summary := favoritesSummary()
		overview.Summary = &summary
	}
	return overview
}

// Home assembles the landing page
func (s *FavoritesService) Home(favoriteIDs []string) *HomePage {
	teams := query.FavoriteTeams(s.catalog.Teams(), favoriteIDs)
	hasFavorites := len(teams) > 0
	transactions := s.catalog.Transactions()

	return &HomePage{
		Summary:            homeSummary(hasFavorites),
		HasFavorites:       hasFavorites,
		Trending:           query.TrendingTeams(s.catalog.Teams(), DefaultTrendingLimit),
		RecentTransactions: transactions,
		PositionBreakdown:  positionBreakdown(transactions),
	}
}

// FavoritesOverview backs the favorites page. Summary is nil when no
// favorite id resolves to a team.
type FavoritesOverview struct {
	FavoriteIDs  []string            `json:"favorite_ids"`
	Teams        []store.Team        `json:"teams"`
	Transactions []store.Transaction `json:"transactions"`
	HasFavorites bool                `json:"has_favorites"`
	Summary      *Summary            `json:"summary,omitempty"`
}

// HomePage backs the landing page
type HomePage struct {
	Summary            Summary             `json:"summary"`
	HasFavorites       bool                `json:"has_favorites"`
	Trending           []store.Team        `json:"trending"`
	RecentTransactions []store.Transaction `json:"recent_transactions"`
	PositionBreakdown  []query.Count       `json:"position_breakdown"`
}
