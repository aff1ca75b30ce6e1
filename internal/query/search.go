// Package query holds the pure filter, sort and search functions applied to
// the portal catalog. Nothing here mutates its inputs or caches results;
// every call recomputes a fresh slice.
package query

import (
	"strings"

	"github.com/fortuna/portal/internal/store"
)

// SearchResults is the aggregate result of SearchAll
type SearchResults struct {
	Query        string              `json:"query"`
	Teams        []store.Team        `json:"teams"`
	Players      []store.Player      `json:"players"`
	Transactions []store.Transaction `json:"transactions"`
	Total        int                 `json:"total"`
}

// matchAny filters items whose fields contain q, case-insensitively.
// An empty q keeps every item. The result is never nil.
func matchAny[T any](items []T, q string, fields func(T) []string) []T {
	needle := strings.ToLower(q)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || anyContains(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func anyContains(haystacks []string, lowerNeedle string) bool {
	for _, h := range haystacks {
		if containsFold(h, lowerNeedle) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// SearchTeams matches on name and conference
func SearchTeams(teams []store.Team, q string) []store.Team {
	return matchAny(teams, q, func(t store.Team) []string {
		return []string{t.Name, t.Conference}
	})
}

// SearchPlayers matches on name, position and current team
func SearchPlayers(players []store.Player, q string) []store.Player {
	return matchAny(players, q, func(p store.Player) []string {
		return []string{p.Name, p.Position, p.CurrentTeam}
	})
}

// SearchTransactions matches on player name, destination and origin team
func SearchTransactions(transactions []store.Transaction, q string) []store.Transaction {
	return matchAny(transactions, q, func(t store.Transaction) []string {
		return []string{t.PlayerName, t.ToTeam, t.FromTeam}
	})
}

// SearchAll runs the three collection searches independently.
// Total is the sum of the three result lengths; nothing is deduplicated.
func SearchAll(catalog *store.Catalog, q string) SearchResults {
	res := SearchResults{
		Query:        q,
		Teams:        SearchTeams(catalog.Teams(), q),
		Players:      SearchPlayers(catalog.Players(), q),
		Transactions: SearchTransactions(catalog.Transactions(), q),
	}
	res.Total = len(res.Teams) + len(res.Players) + len(res.Transactions)
	return res
}
