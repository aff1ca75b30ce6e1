package service

import (
	"fmt"
	"strconv"

	"github.com/fortuna/portal/internal/store"
)

// Summary is the headline card shown above a page's data
type Summary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func homeSummary(hasFavorites bool) Summary {
	if hasFavorites {
		return Summary{
			Title: "Transfer Impact Overview - Impacting Your Favorite Teams",
			Content: "Your favorite teams are showing significant portal activity this week. " +
				"Alabama leads with 8 incoming transfers, including a 5-star QB. " +
				"Georgia's defense gets a major boost with two elite linebackers. " +
				"Texas maintains roster stability with minimal losses. " +
				"Overall, your teams are positioned well for next season.",
		}
	}
	return Summary{
		Title: "Transfer Impact Overview - Trending Portal Activity",
		Content: "This week's portal activity shows unprecedented movement in the quarterback position, with 23 entries. " +
			"The SEC leads all conferences in total transfers with 89 players. " +
			"Elite defensive backs are in high demand, commanding the highest NIL valuations. " +
			"Notable: Three top-10 teams secured 5-star transfers in the past 48 hours.",
	}
}

func favoritesSummary() Summary {
	return Summary{
		Title: "What's Changed for Your Teams This Week",
		Content: "Your favorite teams have been active in the transfer portal. " +
			"Alabama leads with 8 new additions including a 5-star QB transfer. " +
			"Georgia strengthened their defense with two elite linebacker pickups. " +
			"Texas has maintained roster stability with minimal departures. " +
			"Overall trend: Your favorite teams are positioning themselves well for next season " +
			"with strategic acquisitions that address key positional needs.",
	}
}

func teamSummary(team store.Team) Summary {
	level, rating := "moderate", "Moderate"
	if team.IsHighActivity() {
		level, rating = "high", "High"
	}
	return Summary{
		Title: "Team Portal Activity Overview",
		Content: fmt.Sprintf("%s is showing %s portal activity with %d incoming and %d outgoing transfers. "+
			"The team has strategically added talent in key positions while managing roster departures effectively. "+
			"Overall impact rating: %s.",
			team.Name, level, team.IncomingCount, team.OutgoingCount, rating),
	}
}

func playerSummary(player store.Player) Summary {
	return Summary{
		Title: "AI-Powered Player Analysis",
		Content: fmt.Sprintf("%s represents a significant addition with a %d-star rating and proven production. "+
			"Statistical analysis shows consistent performance trends with %s output. "+
			"Projected impact: High - should immediately compete for significant playing time. "+
			"Fit assessment: Excellent match for %s's system based on playing style and positional needs. "+
			"Risk level: Low - experienced player with track record of success.",
			player.Name, player.StarRating, headlineOutput(player.Stats), player.CurrentTeam),
	}
}

// headlineOutput picks yards, then ppg, skipping zero values
func headlineOutput(stats store.Stats) string {
	for _, key := range []string{"yards", "ppg"} {
		if v := stats[key]; v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return "strong"
}
