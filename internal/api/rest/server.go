package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler http.Handler
}

// NewServer creates a new REST API server. Scrape routes are only mounted
// when scrapeHandler is non-nil.
func NewServer(port string, handler *Handler, scrapeHandler *ScrapeHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/trending", handler.GetTrendingTeams).Methods("GET")
	api.HandleFunc("/teams/{teamID}", handler.GetTeam).Methods("GET")

	// Players
	api.HandleFunc("/players", handler.GetPlayers).Methods("GET")
	api.HandleFunc("/players/{playerID}", handler.GetPlayer).Methods("GET")

	// Transactions and search
	api.HandleFunc("/transactions", handler.GetTransactions).Methods("GET")
	api.HandleFunc("/search", handler.Search).Methods("GET")

	// Favorites
	api.HandleFunc("/favorites", handler.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites/toggle", handler.ToggleFavorite).Methods("POST")
	api.HandleFunc("/home", handler.GetHome).Methods("GET")

	api.HandleFunc("/analytics", handler.GetAnalytics).Methods("GET")

	// Scrape operations
	if scrapeHandler != nil {
		api.HandleFunc("/scrape", scrapeHandler.HandleScrapeRequest).Methods("POST")
		api.HandleFunc("/scrape/status", scrapeHandler.HandleScrapeStatus).Methods("GET")
		api.HandleFunc("/scrape/jobs/{jobID}", scrapeHandler.HandleScrapeJob).Methods("GET")
	}

	// CORS wraps the router so preflight requests never hit route matching
	root := CORSMiddleware(router)

	return &Server{
		port:    port,
		handler: root,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: root,
		},
	}
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
