package service

import (
	"github.com/fortuna/portal/internal/query"
	"github.com/fortuna/portal/internal/store"
)

// TransactionService serves the transaction feed
type TransactionService struct {
	catalog *store.Catalog
}

func NewTransactionService(catalog *store.Catalog) *TransactionService {
	return &TransactionService{catalog: catalog}
}

// List returns the feed in collection order
func (s *TransactionService) List() []store.Transaction {
	return s.catalog.Transactions()
}

// Search matches on player name and either team
func (s *TransactionService) Search(q string) []store.Transaction {
	return query.SearchTransactions(s.catalog.Transactions(), q)
}

// SearchService backs the global search box
type SearchService struct {
	catalog *store.Catalog
}

func NewSearchService(catalog *store.Catalog) *SearchService {
	return &SearchService{catalog: catalog}
}

func (s *SearchService) SearchAll(q string) query.SearchResults {
	return query.SearchAll(s.catalog, q)
}
