package repository

import (
	"context"

	"github.com/fortuna/portal/internal/store"
)

// Source reads the catalog collections from PostgreSQL
type Source struct {
	teams        *TeamRepository
	players      *PlayerRepository
	transactions *TransactionRepository
}

var _ store.CatalogSource = (*Source)(nil)

// NewSource wires the three repositories into a catalog source
func NewSource(db *store.Database) *Source {
	return &Source{
		teams:        NewTeamRepository(db),
		players:      NewPlayerRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *Source) Teams(ctx context.Context) ([]store.Team, error) {
	return s.teams.GetAll(ctx)
}

func (s *Source) Players(ctx context.Context) ([]store.Player, error) {
	return s.players.GetAll(ctx)
}

func (s *Source) Transactions(ctx context.Context) ([]store.Transaction, error) {
	return s.transactions.GetAll(ctx)
}

// SaveTransactions persists scraped transactions
func (s *Source) SaveTransactions(ctx context.Context, transactions []store.Transaction) error {
	return s.transactions.UpsertBatch(ctx, transactions)
}

// Seed upserts every collection of catalog, teams first
func (s *Source) Seed(ctx context.Context, catalog *store.Catalog) error {
	for _, team := range catalog.Teams() {
		if err := s.teams.Upsert(ctx, &team); err != nil {
			return err
		}
	}
	for _, player := range catalog.Players() {
		if err := s.players.Upsert(ctx, &player); err != nil {
			return err
		}
	}
	return s.transactions.UpsertBatch(ctx, catalog.Transactions())
}
