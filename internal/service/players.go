package service

import (
	"github.com/fortuna/portal/internal/chat"
	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
)

// PlayerService handles player-related lookups
type PlayerService struct {
	catalog *store.Catalog
}

// NewPlayerService creates a new player service
func NewPlayerService(catalog *store.Catalog) *PlayerService {
	return &PlayerService{catalog: catalog}
}

// List returns every player in collection order
func (s *PlayerService) List() []store.Player {
	return s.catalog.Players()
}

// Search matches players by name, position or current team
func (s *PlayerService) Search(q string) []store.Player {
	return query.SearchPlayers(s.catalog.Players(), q)
}

// Get retrieves a player with their portal transactions
func (s *PlayerService) Get(playerID string) (*PlayerDetail, error) {
	player, ok := query.FindPlayer(s.catalog.Players(), playerID)
	if !ok {
		return nil, errors.NewNotFoundError("player", playerID)
	}

	return &PlayerDetail{
		Player:           player,
		Transactions:     query.PlayerTransactions(s.catalog.Transactions(), playerID),
		Summary:          playerSummary(player),
		SuggestedPrompts: chat.SuggestedPrompts(chat.PromptsPlayer),
	}, nil
}

// PlayerDetail contains a player with their transfer history
type PlayerDetail struct {
	Player           store.Player        `json:"player"`
	Transactions     []store.Transaction `json:"transactions"`
	Summary          Summary             `json:"summary"`
	SuggestedPrompts []string            `json:"suggested_prompts"`
}
