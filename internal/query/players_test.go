package query

import (
	"testing"

	"github.com/fortuna/portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomingAndOutgoingPlayers(t *testing.T) {
	players := store.SeedCatalog().Players()

	assert.Equal(t, []string{"1"}, playerIDs(IncomingPlayers(players, "Alabama Crimson Tide")))
	assert.Equal(t, []string{"1"}, playerIDs(OutgoingPlayers(players, "USC Trojans")))
	assert.Empty(t, IncomingPlayers(players, "alabama crimson tide"))
}

func TestFindPlayer(t *testing.T) {
	players := store.SeedCatalog().Players()

	p, ok := FindPlayer(players, "2")
	require.True(t, ok)
	assert.Equal(t, "DeAndre Williams", p.Name)

	_, ok = FindPlayer(players, "5")
	assert.False(t, ok, "transaction 5 references a player that is not in the collection")
}

func TestPlayerTransactions(t *testing.T) {
	txns := store.SeedCatalog().Transactions()

	assert.Equal(t, []string{"4"}, transactionIDs(PlayerTransactions(txns, "4")))
	assert.Empty(t, PlayerTransactions(txns, "42"))
}

func TestCountBy_FirstSeenOrder(t *testing.T) {
	items := []string{"QB", "WR", "QB", "", "LB", "WR", "QB"}

	got := CountBy(items, func(s string) string { return s })

	assert.Equal(t, []Count{{"QB", 3}, {"WR", 2}, {"LB", 1}}, got)
}
