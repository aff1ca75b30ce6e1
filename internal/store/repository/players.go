package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/pkg/errors"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `
	player_id, name, photo, position, height, weight, class,
	current_team, previous_team, star_rating, stats, nil_value, updated_at
`

// GetAll returns all players in id order
func (r *PlayerRepository) GetAll(ctx context.Context) ([]store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY player_id`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []store.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// GetByID finds a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1`

	player, err := scanPlayer(r.db.DB().QueryRowContext(ctx, query, playerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("player", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return &player, nil
}

// Upsert inserts or updates a player
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (player_id, name, photo, position, height, weight, class,
			current_team, previous_team, star_rating, stats, nil_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (player_id) DO UPDATE SET
			name = EXCLUDED.name,
			photo = EXCLUDED.photo,
			position = EXCLUDED.position,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			class = EXCLUDED.class,
			current_team = EXCLUDED.current_team,
			previous_team = EXCLUDED.previous_team,
			star_rating = EXCLUDED.star_rating,
			stats = EXCLUDED.stats,
			nil_value = EXCLUDED.nil_value,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		player.ID, player.Name, player.Photo, player.Position, player.Height, player.Weight,
		player.Class, player.CurrentTeam, player.PreviousTeam, player.StarRating,
		player.Stats, player.NILValue,
	)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}

	return nil
}

func scanPlayer(row rowScanner) (store.Player, error) {
	var player store.Player
	err := row.Scan(
		&player.ID, &player.Name, &player.Photo, &player.Position, &player.Height, &player.Weight,
		&player.Class, &player.CurrentTeam, &player.PreviousTeam, &player.StarRating,
		&player.Stats, &player.NILValue, &player.UpdatedAt,
	)
	return player, err
}
