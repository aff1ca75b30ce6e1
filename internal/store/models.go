package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// HighActivityThreshold is the portal activity score at which a team counts as "high activity".
const HighActivityThreshold = 85

// Stats is a sparse stat bag; fields vary by sport and missing keys are simply absent.
type Stats map[string]float64

// Value encodes the stat bag as JSONB
func (s Stats) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan decodes a JSONB column into the stat bag
func (s *Stats) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scanning stats: unsupported type %T", src)
	}

	decoded := Stats{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("scanning stats: %w", err)
	}
	if len(decoded) == 0 {
		decoded = nil
	}
	*s = decoded
	return nil
}

// Team represents a program and its transfer portal activity
type Team struct {
	ID                  string    `json:"id" db:"team_id"`
	Name                string    `json:"name" db:"name"`
	Logo                string    `json:"logo,omitempty" db:"logo"`
	Conference          string    `json:"conference" db:"conference"`
	PortalActivityScore int       `json:"portal_activity_score" db:"portal_activity_score"`
	LastSeasonRecord    string    `json:"last_season_record" db:"last_season_record"`
	IncomingCount       int       `json:"incoming_count" db:"incoming_count"`
	OutgoingCount       int       `json:"outgoing_count" db:"outgoing_count"`
	UpdatedAt           time.Time `json:"-" db:"updated_at"`
}

// IsHighActivity reports whether the team meets the high-activity threshold
func (t Team) IsHighActivity() bool {
	return t.PortalActivityScore >= HighActivityThreshold
}

// Player represents a transfer portal player.
// CurrentTeam and PreviousTeam are display names, not team ids.
type Player struct {
	ID           string    `json:"id" db:"player_id"`
	Name         string    `json:"name" db:"name"`
	Photo        string    `json:"photo,omitempty" db:"photo"`
	Position     string    `json:"position" db:"position"`
	Height       string    `json:"height,omitempty" db:"height"`
	Weight       string    `json:"weight,omitempty" db:"weight"`
	Class        string    `json:"class" db:"class"`
	CurrentTeam  string    `json:"current_team" db:"current_team"`
	PreviousTeam string    `json:"previous_team" db:"previous_team"`
	StarRating   int       `json:"star_rating" db:"star_rating"`
	Stats        Stats     `json:"stats,omitempty" db:"stats"`
	NILValue     string    `json:"nil_value,omitempty" db:"nil_value"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// Transaction represents a single portal move between two programs.
// FromTeam and ToTeam are display names matched against Team.Name exactly.
type Transaction struct {
	ID           string    `json:"id" db:"transaction_id"`
	PlayerID     string    `json:"player_id" db:"player_id"`
	PlayerName   string    `json:"player_name" db:"player_name"`
	PlayerPhoto  string    `json:"player_photo,omitempty" db:"player_photo"`
	Position     string    `json:"position" db:"position"`
	FromTeam     string    `json:"from_team" db:"from_team"`
	FromTeamLogo string    `json:"from_team_logo,omitempty" db:"from_team_logo"`
	ToTeam       string    `json:"to_team" db:"to_team"`
	ToTeamLogo   string    `json:"to_team_logo,omitempty" db:"to_team_logo"`
	StarRating   int       `json:"star_rating" db:"star_rating"`
	Stats        Stats     `json:"stats,omitempty" db:"stats"`
	Date         string    `json:"date" db:"transaction_date"`
	Sport        string    `json:"sport" db:"sport"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}
