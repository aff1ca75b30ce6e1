package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/fortuna/portal/internal/store"
)

// ConferenceAll disables the conference predicate
const ConferenceAll = "all"

// SortKey selects the descending sort field for FilterTeams
type SortKey string

const (
	SortByActivity SortKey = "activity"
	SortByGained   SortKey = "gained"
	SortByLost     SortKey = "lost"
)

// ParseSortKey maps a user-supplied key; empty means activity
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByActivity:
		return SortByActivity, nil
	case SortByGained:
		return SortByGained, nil
	case SortByLost:
		return SortByLost, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want activity, gained or lost)", s)
	}
}

func (k SortKey) value(t store.Team) int {
	switch k {
	case SortByGained:
		return t.IncomingCount
	case SortByLost:
		return t.OutgoingCount
	default:
		return t.PortalActivityScore
	}
}

// Conferences lists the conference choices offered by the teams browser
var Conferences = []string{ConferenceAll, "SEC", "Big Ten", "ACC", "Big 12", "Pac-12"}

// TeamFilter is the teams browser's query descriptor
type TeamFilter struct {
	Conference  string
	MinActivity int
	NameQuery   string
	SortKey     SortKey
}

// DefaultTeamFilter matches every team, most active first
func DefaultTeamFilter() TeamFilter {
	return TeamFilter{Conference: ConferenceAll, SortKey: SortByActivity}
}

func (f TeamFilter) matches(t store.Team) bool {
	if f.Conference != ConferenceAll && t.Conference != f.Conference {
		return false
	}
	if t.PortalActivityScore < f.MinActivity {
		return false
	}
	if f.NameQuery != "" && !containsFold(t.Name, strings.ToLower(f.NameQuery)) {
		return false
	}
	return true
}

// FilterTeams applies f and stable-sorts the survivors descending by the sort key.
// Ties keep their input order.
func FilterTeams(teams []store.Team, f TeamFilter) []store.Team {
	out := make([]store.Team, 0, len(teams))
	for _, t := range teams {
		if f.matches(t) {
			out = append(out, t)
		}
	}

	slices.SortStableFunc(out, func(a, b store.Team) int {
		return cmp.Compare(f.SortKey.value(b), f.SortKey.value(a))
	})
	return out
}

// TrendingTeams returns the n most active teams; n <= 0 returns all of them
func TrendingTeams(teams []store.Team, n int) []store.Team {
	sorted := FilterTeams(teams, DefaultTeamFilter())
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// HighActivityTeams keeps teams at or above the high-activity threshold, in collection order
func HighActivityTeams(teams []store.Team) []store.Team {
	out := make([]store.Team, 0, len(teams))
	for _, t := range teams {
		if t.IsHighActivity() {
			out = append(out, t)
		}
	}
	return out
}

// FindTeam looks a team up by id
func FindTeam(teams []store.Team, id string) (store.Team, bool) {
	i := slices.IndexFunc(teams, func(t store.Team) bool { return t.ID == id })
	if i < 0 {
		return store.Team{}, false
	}
	return teams[i], true
}
