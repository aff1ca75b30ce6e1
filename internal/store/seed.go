package store

import "context"

// DefaultFavoriteIDs is the favorites list a new session starts with
var DefaultFavoriteIDs = []string{"1", "3", "6"}

// SeedSource serves the built-in demo dataset
type SeedSource struct{}

func (SeedSource) Teams(context.Context) ([]Team, error) {
	return seedTeams(), nil
}

func (SeedSource) Players(context.Context) ([]Player, error) {
	return seedPlayers(), nil
}

func (SeedSource) Transactions(context.Context) ([]Transaction, error) {
	return seedTransactions(), nil
}

// SeedCatalog builds a Catalog from the built-in demo dataset
func SeedCatalog() *Catalog {
	catalog, err := LoadCatalog(context.Background(), SeedSource{})
	if err != nil {
		// seed ids are unique; reaching this is a programming error
		panic(err)
	}
	return catalog
}

func seedTeams() []Team {
	return []Team{
		{ID: "1", Name: "Alabama Crimson Tide", Logo: "🔴", Conference: "SEC", PortalActivityScore: 92, LastSeasonRecord: "12-2", IncomingCount: 8, OutgoingCount: 5},
		{ID: "2", Name: "Ohio State Buckeyes", Logo: "⚪", Conference: "Big Ten", PortalActivityScore: 88, LastSeasonRecord: "11-2", IncomingCount: 7, OutgoingCount: 6},
		{ID: "3", Name: "Georgia Bulldogs", Logo: "🔴", Conference: "SEC", PortalActivityScore: 85, LastSeasonRecord: "13-1", IncomingCount: 6, OutgoingCount: 4},
		{ID: "4", Name: "Michigan Wolverines", Logo: "💙", Conference: "Big Ten", PortalActivityScore: 82, LastSeasonRecord: "10-3", IncomingCount: 9, OutgoingCount: 7},
		{ID: "5", Name: "USC Trojans", Logo: "🟡", Conference: "Big Ten", PortalActivityScore: 79, LastSeasonRecord: "8-5", IncomingCount: 10, OutgoingCount: 8},
		{ID: "6", Name: "Texas Longhorns", Logo: "🟠", Conference: "SEC", PortalActivityScore: 86, LastSeasonRecord: "12-2", IncomingCount: 5, OutgoingCount: 3},
		{ID: "7", Name: "Oregon Ducks", Logo: "💚", Conference: "Big Ten", PortalActivityScore: 84, LastSeasonRecord: "11-3", IncomingCount: 6, OutgoingCount: 5},
		{ID: "8", Name: "Florida State Seminoles", Logo: "🟡", Conference: "ACC", PortalActivityScore: 75, LastSeasonRecord: "13-1", IncomingCount: 4, OutgoingCount: 9},
	}
}

func seedPlayers() []Player {
	return []Player{
		{
			ID: "1", Name: "Marcus Johnson", Photo: "👤", Position: "QB", Height: `6'3"`, Weight: "215 lbs",
			Class: "Junior", CurrentTeam: "Alabama Crimson Tide", PreviousTeam: "USC Trojans", StarRating: 5,
			Stats: Stats{"ppg": 0, "yards": 3245, "touchdowns": 28}, NILValue: "$1.2M",
		},
		{
			ID: "2", Name: "DeAndre Williams", Photo: "👤", Position: "WR", Height: `6'1"`, Weight: "190 lbs",
			Class: "Sophomore", CurrentTeam: "Ohio State Buckeyes", PreviousTeam: "Florida State Seminoles", StarRating: 4,
			Stats: Stats{"ppg": 0, "yards": 982, "touchdowns": 12}, NILValue: "$850K",
		},
		{
			ID: "3", Name: "Tyler Anderson", Photo: "👤", Position: "RB", Height: `5'11"`, Weight: "205 lbs",
			Class: "Senior", CurrentTeam: "Georgia Bulldogs", PreviousTeam: "Michigan Wolverines", StarRating: 4,
			Stats: Stats{"ppg": 0, "yards": 1456, "touchdowns": 18}, NILValue: "$950K",
		},
		{
			ID: "4", Name: "Jamal Carter", Photo: "👤", Position: "LB", Height: `6'2"`, Weight: "230 lbs",
			Class: "Junior", CurrentTeam: "Texas Longhorns", PreviousTeam: "Oregon Ducks", StarRating: 5,
			Stats: Stats{"ppg": 0, "yards": 0, "touchdowns": 0}, NILValue: "$780K",
		},
	}
}

func seedTransactions() []Transaction {
	return []Transaction{
		{
			ID: "1", PlayerID: "1", PlayerName: "Marcus Johnson", PlayerPhoto: "👤", Position: "QB",
			FromTeam: "USC Trojans", FromTeamLogo: "🟡", ToTeam: "Alabama Crimson Tide", ToTeamLogo: "🔴",
			StarRating: 5, Stats: Stats{"yards": 3245, "touchdowns": 28}, Date: "2026-02-15", Sport: "Football",
		},
		{
			ID: "2", PlayerID: "2", PlayerName: "DeAndre Williams", PlayerPhoto: "👤", Position: "WR",
			FromTeam: "Florida State Seminoles", FromTeamLogo: "🟡", ToTeam: "Ohio State Buckeyes", ToTeamLogo: "⚪",
			StarRating: 4, Stats: Stats{"yards": 982, "touchdowns": 12}, Date: "2026-02-14", Sport: "Football",
		},
		{
			ID: "3", PlayerID: "3", PlayerName: "Tyler Anderson", PlayerPhoto: "👤", Position: "RB",
			FromTeam: "Michigan Wolverines", FromTeamLogo: "💙", ToTeam: "Georgia Bulldogs", ToTeamLogo: "🔴",
			StarRating: 4, Stats: Stats{"yards": 1456, "touchdowns": 18}, Date: "2026-02-13", Sport: "Football",
		},
		{
			ID: "4", PlayerID: "4", PlayerName: "Jamal Carter", PlayerPhoto: "👤", Position: "LB",
			FromTeam: "Oregon Ducks", FromTeamLogo: "💚", ToTeam: "Texas Longhorns", ToTeamLogo: "🟠",
			StarRating: 5, Stats: Stats{"tackles": 98, "sacks": 12}, Date: "2026-02-12", Sport: "Football",
		},
		{
			ID: "5", PlayerID: "5", PlayerName: "Brandon Davis", PlayerPhoto: "👤", Position: "DB",
			FromTeam: "Alabama Crimson Tide", FromTeamLogo: "🔴", ToTeam: "USC Trojans", ToTeamLogo: "🟡",
			StarRating: 4, Stats: Stats{"tackles": 76, "interceptions": 4}, Date: "2026-02-11", Sport: "Football",
		},
	}
}
