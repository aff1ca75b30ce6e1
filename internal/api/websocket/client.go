package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fortuna/portal/internal/chat"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Event types sent to clients
const (
	EventWelcome     = "welcome"
	EventMessage     = "message"
	EventTransaction = "transaction"
	EventScrape      = "scrape.completed"
	EventError       = "error"
)

// Envelope is the JSON frame exchanged over the socket
type Envelope struct {
	Type             string          `json:"type"`
	Content          string          `json:"content,omitempty"`
	Message          *chat.Message   `json:"message,omitempty"`
	Messages         []chat.Message  `json:"messages,omitempty"`
	SuggestedPrompts []string        `json:"suggested_prompts,omitempty"`
	Data             json.RawMessage `json:"data,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// Client is one websocket connection. Chat clients own a Session; feed
// clients are subscribed to hub broadcasts.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	session    *chat.Session
	subscribed bool
	logger     *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// close stops the write pump; send itself is never closed
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue hands a frame to the write pump, dropping it if the buffer is full
func (c *Client) enqueue(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("marshal frame failed", zap.String("type", env.Type), zap.Error(err))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("client send buffer full, dropping frame", zap.String("type", env.Type))
	}
}

// readPump reads chat frames until the connection closes
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			c.session.Close()
		}
		c.hub.Unregister(c)
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var in Envelope
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		if in.Type != EventMessage || c.session == nil {
			c.enqueue(Envelope{Type: EventError, Error: "unsupported frame type " + in.Type})
			continue
		}

		msg, ok := c.session.Send(in.Content)
		if !ok {
			continue
		}
		c.enqueue(Envelope{Type: EventMessage, Message: &msg})
	}
}

// writePump drains send onto the connection and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
