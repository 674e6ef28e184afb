// Package websocket pushes session events to connected front ends:
// state changes, progress updates, and playback completion.
package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yegors/qso-trainer/pkg/logger"
)

// Message is one event pushed to clients.
type Message struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Server fans session events out to all connected WebSocket clients.
// Slow clients are disconnected rather than allowed to block the rest.
type Server struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan *Message
}

// clientBuffer is the per-client send queue depth; a full queue marks
// the client as too slow.
const clientBuffer = 32

// NewServer creates a WebSocket event server.
func NewServer(log *logger.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  log.Named("websocket"),
		clients: make(map[*client]struct{}),
	}
}

// HandleConnection upgrades the request and serves the client until it
// disconnects.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade WebSocket connection", logger.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan *Message, clientBuffer),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("WebSocket client connected",
		logger.String("remote_addr", conn.RemoteAddr().String()),
		logger.Int("client_count", count))

	go s.writeLoop(c)
	s.readLoop(c)
}

// Broadcast queues the message for every connected client.
func (s *Server) Broadcast(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			// Queue full: drop the client instead of blocking the session.
			delete(s.clients, c)
			close(c.send)
		}
	}
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects all clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			s.logger.Debug("WebSocket write failed", logger.Error(err))
			return
		}
	}
}

// readLoop drains inbound frames so control messages are processed and
// disconnects are noticed.
func (s *Server) readLoop(c *client) {
	defer s.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	count := len(s.clients)
	s.mu.Unlock()

	c.conn.Close()
	s.logger.Info("WebSocket client disconnected", logger.Int("client_count", count))
}
