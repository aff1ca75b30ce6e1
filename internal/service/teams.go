package service

import (
	"github.com/fortuna/portal/internal/chat"
	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
)

// DefaultTrendingLimit is the size of the trending teams sidebar
const DefaultTrendingLimit = 5

// TeamService serves the teams browser and team detail pages
type TeamService struct {
	catalog *store.Catalog
}

// NewTeamService creates a new team service
func NewTeamService(catalog *store.Catalog) *TeamService {
	return &TeamService{catalog: catalog}
}

// List applies the browser filter
func (s *TeamService) List(filter query.TeamFilter) []store.Team {
	return query.FilterTeams(s.catalog.Teams(), filter)
}

// Trending returns the n most active teams; n <= 0 uses DefaultTrendingLimit
func (s *TeamService) Trending(n int) []store.Team {
	if n <= 0 {
		n = DefaultTrendingLimit
	}
	return query.TrendingTeams(s.catalog.Teams(), n)
}

// Get retrieves a team with its incoming and outgoing players
func (s *TeamService) Get(teamID string) (*TeamDetail, error) {
	team, ok := query.FindTeam(s.catalog.Teams(), teamID)
	if !ok {
		return nil, errors.NewNotFoundError("team", teamID)
	}

	players := s.catalog.Players()
	return &TeamDetail{
		Team:             team,
		HighActivity:     team.IsHighActivity(),
		IncomingPlayers:  query.IncomingPlayers(players, team.Name),
		OutgoingPlayers:  query.OutgoingPlayers(players, team.Name),
		Summary:          teamSummary(team),
		SuggestedPrompts: chat.SuggestedPrompts(chat.PromptsTeam),
	}, nil
}

// TeamDetail is everything the team detail page shows
type TeamDetail struct {
	Team             store.Team     `json:"team"`
	HighActivity     bool           `json:"high_activity"`
	IncomingPlayers  []store.Player `json:"incoming_players"`
	OutgoingPlayers  []store.Player `json:"outgoing_players"`
	Summary          Summary        `json:"summary"`
	SuggestedPrompts []string       `json:"suggested_prompts"`
}
