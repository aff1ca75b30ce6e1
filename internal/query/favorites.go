package query

import (
	"slices"

	"github.com/fortuna/portal/internal/store"
)

// ToggleFavorite removes teamID from current if present, otherwise appends it.
// It always returns a new slice; current is never modified. Removal drops
// every occurrence, so a list that somehow picked up duplicates is cleaned
// the first time the id is toggled off.
func ToggleFavorite(current []string, teamID string) []string {
	if slices.Contains(current, teamID) {
		next := make([]string, 0, len(current))
		for _, id := range current {
			if id != teamID {
				next = append(next, id)
			}
		}
		return next
	}

	next := make([]string, len(current), len(current)+1)
	copy(next, current)
	return append(next, teamID)
}

// IsFavorite reports whether teamID is in favorites
func IsFavorite(favorites []string, teamID string) bool {
	return slices.Contains(favorites, teamID)
}

// FavoriteTeams keeps the teams whose id appears in favoriteIDs.
// Order follows the team collection, not the favorites list.
func FavoriteTeams(teams []store.Team, favoriteIDs []string) []store.Team {
	ids := make(map[string]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		ids[id] = struct{}{}
	}

	out := make([]store.Team, 0, len(favoriteIDs))
	for _, t := range teams {
		if _, ok := ids[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// RelatedTransactions keeps transactions whose ToTeam or FromTeam equals the
// name of one of teams. The comparison is exact and case-sensitive: team
// references in transactions are display names, not ids.
func RelatedTransactions(transactions []store.Transaction, teams []store.Team) []store.Transaction {
	names := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		names[t.Name] = struct{}{}
	}

	out := make([]store.Transaction, 0)
	for _, txn := range transactions {
		_, to := names[txn.ToTeam]
		_, from := names[txn.FromTeam]
		if to || from {
			out = append(out, txn)
		}
	}
	return out
}
