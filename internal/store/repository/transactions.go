package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/portal/internal/store"
)

// TransactionRepository handles portal transaction data access
type TransactionRepository struct {
	db *store.Database
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *store.Database) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	transaction_id, player_id, player_name, player_photo, position,
	from_team, from_team_logo, to_team, to_team_logo,
	star_rating, stats, transaction_date, sport, updated_at
`

const upsertTransactionQuery = `
	INSERT INTO transactions (transaction_id, player_id, player_name, player_photo, position,
		from_team, from_team_logo, to_team, to_team_logo,
		star_rating, stats, transaction_date, sport)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (transaction_id) DO UPDATE SET
		player_id = EXCLUDED.player_id,
		player_name = EXCLUDED.player_name,
		player_photo = EXCLUDED.player_photo,
		position = EXCLUDED.position,
		from_team = EXCLUDED.from_team,
		from_team_logo = EXCLUDED.from_team_logo,
		to_team = EXCLUDED.to_team,
		to_team_logo = EXCLUDED.to_team_logo,
		star_rating = EXCLUDED.star_rating,
		stats = EXCLUDED.stats,
		transaction_date = EXCLUDED.transaction_date,
		sport = EXCLUDED.sport,
		updated_at = NOW()
`

// GetAll returns all transactions, most recent first
func (r *TransactionRepository) GetAll(ctx context.Context) ([]store.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date DESC, transaction_id`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []store.Transaction
	for rows.Next() {
		var t store.Transaction
		err := rows.Scan(
			&t.ID, &t.PlayerID, &t.PlayerName, &t.PlayerPhoto, &t.Position,
			&t.FromTeam, &t.FromTeamLogo, &t.ToTeam, &t.ToTeamLogo,
			&t.StarRating, &t.Stats, &t.Date, &t.Sport, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// UpsertBatch writes all transactions in a single database transaction
func (r *TransactionRepository) UpsertBatch(ctx context.Context, transactions []store.Transaction) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertTransactionQuery)
	if err != nil {
		return fmt.Errorf("preparing transaction upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range transactions {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.PlayerID, t.PlayerName, t.PlayerPhoto, t.Position,
			t.FromTeam, t.FromTeamLogo, t.ToTeam, t.ToTeamLogo,
			t.StarRating, t.Stats, t.Date, t.Sport,
		)
		if err != nil {
			return fmt.Errorf("upserting transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction batch: %w", err)
	}

	return nil
}
