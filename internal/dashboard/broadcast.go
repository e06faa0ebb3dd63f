package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	// The dashboard is a local developer tool bound to localhost; there is
	// no cross-origin deployment to police.
	CheckOrigin:       func(_ *http.Request) bool { return true },
	EnableCompression: true,
}

// wsClient wraps one WebSocket connection with the write mutex needed to
// serialize ping frames against broadcast pushes.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsClient) close() {
	_ = c.conn.Close() //nolint:errcheck
}

// handleWebSocket upgrades the connection, sends the current repository
// state, then runs read/write pumps until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &wsClient{conn: conn}

	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Info("dashboard client connected", "total", count)

	state, err := s.buildState()
	if err != nil {
		s.logger.Error("failed to build initial state", "err", err)
	} else if err := client.writeJSON(state); err != nil {
		s.logger.Error("failed to send initial state", "err", err)
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go s.clientWritePump(client, done)
	s.clientReadPump(client, done)
}

// clientReadPump blocks on reads purely to detect disconnect (the
// dashboard is read-only: browsers never send application messages).
func (s *Server) clientReadPump(c *wsClient, done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) clientWritePump(c *wsClient, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer s.removeClient(c)

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

func (s *Server) removeClient(c *wsClient) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
		s.logger.Info("dashboard client disconnected", "total", len(s.clients))
	}
}

// broadcastState pushes the current repository state to every connected
// client, dropping clients whose write fails.
func (s *Server) broadcastState() {
	state, err := s.buildState()
	if err != nil {
		s.logger.Error("failed to build state for broadcast", "err", err)
		return
	}

	s.clientsMu.RLock()
	targets := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		targets = append(targets, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range targets {
		if err := c.writeJSON(state); err != nil {
			s.logger.Error("broadcast failed", "err", err)
			s.removeClient(c)
		}
	}
}
