package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/folio"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans valuations out to websocket clients.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{logger: logger, clients: make(map[*client]struct{})}
}

// client is a websocket connection and its queue of pending messages.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Broadcast sends v to every client. Slow clients drop messages.
func (h *Hub) Broadcast(v folio.Valuation) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("error encoding valuation", zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client too slow, valuation dropped")
		}
	}
}

// register adds c, queueing latest first when there is one.
func (h *Hub) register(c *client, latest []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if latest != nil {
		c.send <- latest
	}
	return len(h.clients)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (s *Server) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	var latest []byte
	if v, ok := s.tracker.Latest(); ok {
		if latest, err = json.Marshal(v); err != nil {
			s.logger.Error("error encoding valuation", zap.Error(err))
			latest = nil
		}
	}

	cl := &client{hub: s.hub, conn: conn, send: make(chan []byte, 16)}
	n := s.hub.register(cl, latest)
	s.logger.Info("websocket client connected", zap.Int("clients", n))

	go cl.writePump()
	go cl.readPump(s.logger)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump discards incoming messages and detects disconnection.
func (c *client) readPump(logger *zap.Logger) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
		logger.Info("websocket client disconnected")
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
