package store

import (
	"context"
	"fmt"

	"github.com/fortuna/portal/pkg/errors"
)

// Catalog holds the three read-only collections served by the portal.
// It is built once and never mutated; the accessor slices must be treated as read-only.
type Catalog struct {
	teams        []Team
	players      []Player
	transactions []Transaction
}

// NewCatalog copies the given collections into a Catalog, rejecting duplicate ids.
func NewCatalog(teams []Team, players []Player, transactions []Transaction) (*Catalog, error) {
	if err := checkUnique("team", teams, func(t Team) string { return t.ID }); err != nil {
		return nil, err
	}
	if err := checkUnique("player", players, func(p Player) string { return p.ID }); err != nil {
		return nil, err
	}
	if err := checkUnique("transaction", transactions, func(t Transaction) string { return t.ID }); err != nil {
		return nil, err
	}

	return &Catalog{
		teams:        append([]Team(nil), teams...),
		players:      append([]Player(nil), players...),
		transactions: append([]Transaction(nil), transactions...),
	}, nil
}

func checkUnique[T any](kind string, items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := id(item)
		if _, dup := seen[key]; dup {
			return errors.NewValidationError(fmt.Sprintf("duplicate %s id %q", kind, key), kind+".id", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (c *Catalog) Teams() []Team {
	return c.teams
}

func (c *Catalog) Players() []Player {
	return c.players
}

func (c *Catalog) Transactions() []Transaction {
	return c.transactions
}

// CatalogSource supplies the collections a Catalog is built from
type CatalogSource interface {
	Teams(ctx context.Context) ([]Team, error)
	Players(ctx context.Context) ([]Player, error)
	Transactions(ctx context.Context) ([]Transaction, error)
}

// LoadCatalog reads every collection from source and builds a Catalog
func LoadCatalog(ctx context.Context, source CatalogSource) (*Catalog, error) {
	teams, err := source.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}

	players, err := source.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}

	transactions, err := source.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	return NewCatalog(teams, players, transactions)
}
