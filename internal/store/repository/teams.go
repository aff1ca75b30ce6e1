package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `
	team_id, name, logo, conference, portal_activity_score,
	last_season_record, incoming_count, outgoing_count, updated_at
`

// GetAll returns all teams in id order
func (r *TeamRepository) GetAll(ctx context.Context) ([]store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY team_id`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByID finds a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = $1`

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, teamID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("team", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &team, nil
}

// GetByName finds a team by its exact display name
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("team", name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &team, nil
}

// Upsert inserts or updates a team
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (team_id, name, logo, conference, portal_activity_score,
			last_season_record, incoming_count, outgoing_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (team_id) DO UPDATE SET
			name = EXCLUDED.name,
			logo = EXCLUDED.logo,
			conference = EXCLUDED.conference,
			portal_activity_score = EXCLUDED.portal_activity_score,
			last_season_record = EXCLUDED.last_season_record,
			incoming_count = EXCLUDED.incoming_count,
			outgoing_count = EXCLUDED.outgoing_count,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		team.ID, team.Name, team.Logo, team.Conference, team.PortalActivityScore,
		team.LastSeasonRecord, team.IncomingCount, team.OutgoingCount,
	)
	if err != nil {
		return fmt.Errorf("upserting team: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(row rowScanner) (store.Team, error) {
	var team store.Team
	err := row.Scan(
		&team.ID, &team.Name, &team.Logo, &team.Conference, &team.PortalActivityScore,
		&team.LastSeasonRecord, &team.IncomingCount, &team.OutgoingCount, &team.UpdatedAt,
	)
	return team, err
}
