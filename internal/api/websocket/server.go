package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fortuna/portal/internal/chat"
	"github.com/fortuna/portal/internal/publisher"
	"github.com/fortuna/portal/internal/store"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the frontend is served from a different origin
	},
}

// Server represents the WebSocket server
type Server struct {
	port       string
	server     *http.Server
	hub        *Hub
	assistant  chat.Assistant
	replyDelay time.Duration
	logger     *zap.Logger

	cancel context.CancelFunc
}

// NewServer creates a new WebSocket server answering chats with assistant
func NewServer(assistant chat.Assistant, replyDelay time.Duration, logger *zap.Logger) *Server {
	if assistant == nil {
		assistant = chat.CannedAssistant{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		hub:        NewHub(),
		assistant:  assistant,
		replyDelay: replyDelay,
		logger:     logger.With(zap.String("component", "websocket")),
	}
}

// Handler returns the websocket routes and starts the hub
func (s *Server) Handler() http.Handler {
	if s.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.hub.Run(ctx)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", s.handleChat)
	mux.HandleFunc("/ws/feed", s.handleFeed)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.Handler(),
	}

	s.logger.Info("WebSocket server listening", zap.String("port", port))
	return s.server.ListenAndServe()
}

// handleChat upgrades to a chat connection with its own session.
// ?context=team|player picks the suggested prompts sent on connect.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	kind := chat.PromptKind(r.URL.Query().Get("context"))
	if kind == "" {
		kind = chat.PromptsGeneral
	}

	client, ok := s.accept(w, r, false)
	if !ok {
		return
	}

	client.session = chat.NewSession(s.assistant,
		chat.WithReplyDelay(s.replyDelay),
		chat.WithOnMessage(func(msg chat.Message) {
			client.enqueue(Envelope{Type: EventMessage, Message: &msg})
		}),
	)
	client.enqueue(Envelope{Type: EventWelcome, SuggestedPrompts: chat.SuggestedPrompts(kind)})

	go client.writePump()
	go client.readPump()
}

// handleFeed upgrades to a read-only connection receiving live portal events
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	client, ok := s.accept(w, r, true)
	if !ok {
		return
	}
	client.enqueue(Envelope{Type: EventWelcome})

	go client.writePump()
	go client.readPump()
}

func (s *Server) accept(w http.ResponseWriter, r *http.Request, subscribed bool) (*Client, bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", zap.Error(err))
		return nil, false
	}

	client := newClient(s.hub, conn, s.logger)
	client.subscribed = subscribed
	if !s.hub.Register(client) {
		conn.Close()
		return nil, false
	}
	return client, true
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// PublishTransaction pushes a scraped transaction to feed clients
func (s *Server) PublishTransaction(_ context.Context, txn store.Transaction) error {
	return s.broadcast(EventTransaction, txn)
}

// PublishScrapeCompleted pushes a finished scrape job to feed clients
func (s *Server) PublishScrapeCompleted(_ context.Context, event publisher.ScrapeCompleted) error {
	return s.broadcast(EventScrape, event)
}

func (s *Server) broadcast(eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	frame, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", eventType, err)
	}
	if !s.hub.Broadcast(frame) {
		return fmt.Errorf("broadcast %s: hub is backed up", eventType)
	}
	return nil
}

// Shutdown disconnects every client and gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
