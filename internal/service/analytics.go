package service

import (
	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/store"
)

// AnalyticsService aggregates portal movement for the analytics page
type AnalyticsService struct {
	catalog *store.Catalog
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(catalog *store.Catalog) *AnalyticsService {
	return &AnalyticsService{catalog: catalog}
}

// ConferenceBreakdown counts, per conference, the transactions whose
// receiving or sending team belongs to it. A transfer inside one conference
// counts once for that conference. Teams are resolved by exact name;
// transactions naming unknown teams are not counted.
func (s *AnalyticsService) ConferenceBreakdown() []query.Count {
	conferenceOf := make(map[string]string)
	for _, t := range s.catalog.Teams() {
		conferenceOf[t.Name] = t.Conference
	}

	var touched []string
	for _, txn := range s.catalog.Transactions() {
		to := conferenceOf[txn.ToTeam]
		from := conferenceOf[txn.FromTeam]
		touched = append(touched, to)
		if from != to {
			touched = append(touched, from)
		}
	}

	// CountBy skips the empty names of unresolved teams
	return query.CountBy(touched, func(c string) string { return c })
}

// PositionBreakdown counts transactions per position, first-seen order
func (s *AnalyticsService) PositionBreakdown() []query.Count {
	return positionBreakdown(s.catalog.Transactions())
}

// HighActivityTeams keeps teams at or above the activity threshold
func (s *AnalyticsService) HighActivityTeams() []store.Team {
	return query.HighActivityTeams(s.catalog.Teams())
}

// Overview bundles every analytics breakdown
func (s *AnalyticsService) Overview() *AnalyticsOverview {
	return &AnalyticsOverview{
		Conferences:       s.ConferenceBreakdown(),
		Positions:         s.PositionBreakdown(),
		HighActivityTeams: s.HighActivityTeams(),
		TotalTransactions: len(s.catalog.Transactions()),
	}
}

// AnalyticsOverview is the analytics page payload
type AnalyticsOverview struct {
	Conferences       []query.Count `json:"conferences"`
	Positions         []query.Count `json:"positions"`
	HighActivityTeams []store.Team  `json:"high_activity_teams"`
	TotalTransactions int           `json:"total_transactions"`
}

func positionBreakdown(transactions []store.Transaction) []query.Count {
	return query.CountBy(transactions, func(t store.Transaction) string { return t.Position })
}
