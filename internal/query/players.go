package query

import (
	"slices"

	"github.com/fortuna/portal/internal/store"
)

// FindPlayer looks a player up by id
func FindPlayer(players []store.Player, id string) (store.Player, bool) {
	i := slices.IndexFunc(players, func(p store.Player) bool { return p.ID == id })
	if i < 0 {
		return store.Player{}, false
	}
	return players[i], true
}

// IncomingPlayers keeps players whose current team is teamName (exact match)
func IncomingPlayers(players []store.Player, teamName string) []store.Player {
	return keep(players, func(p store.Player) bool { return p.CurrentTeam == teamName })
}

// OutgoingPlayers keeps players whose previous team is teamName (exact match)
func OutgoingPlayers(players []store.Player, teamName string) []store.Player {
	return keep(players, func(p store.Player) bool { return p.PreviousTeam == teamName })
}

// PlayerTransactions keeps transactions referencing playerID
func PlayerTransactions(transactions []store.Transaction, playerID string) []store.Transaction {
	return keep(transactions, func(t store.Transaction) bool { return t.PlayerID == playerID })
}

// Count is one bucket of a breakdown
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CountBy tallies items per key, buckets in first-seen order.
// Items with an empty key are skipped.
func CountBy[T any](items []T, key func(T) string) []Count {
	index := make(map[string]int)
	counts := make([]Count, 0)
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			counts[i].Value++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, Count{Name: k, Value: 1})
	}
	return counts
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
