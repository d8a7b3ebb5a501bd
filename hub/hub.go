// Package hub is the websocket relay behind /ws. Clients optionally
// authenticate with ?token=; events from the broker go to the users they name
// or, without recipients, to everyone. Delivery is best effort.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"skilllink/backend/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Authenticator resolves a bearer token into a user id.
type Authenticator func(token string) (int64, error)

type client struct {
	id     string
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// frame is what clients receive; recipients stay server side.
type frame struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	SenderID int64           `json:"senderId,omitempty"`
}

type Hub struct {
	logger   *zap.Logger
	broker   events.Broker
	auth     Authenticator
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	clients     map[*client]struct{}
	unsubscribe func()
	closed      bool
	wg          sync.WaitGroup
}

func New(logger *zap.Logger, broker events.Broker, auth Authenticator) *Hub {
	return &Hub{
		logger: logger.Named("hub"),
		broker: broker,
		auth:   auth,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// Start subscribes the hub to the broker.
func (h *Hub) Start() error {
	unsubscribe, err := h.broker.Subscribe(h.Deliver)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.unsubscribe = unsubscribe
	h.mu.Unlock()
	return nil
}

// Close disconnects every client and waits for their goroutines to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	unsubscribe := h.unsubscribe
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	for _, c := range clients {
		h.remove(c)
	}
	h.wg.Wait()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver writes e to every local client it is addressed to. Clients whose
// send queue is full are disconnected.
func (h *Hub) Deliver(ctx context.Context, e events.Event) {
	data, err := json.Marshal(frame{Type: e.Type, Payload: e.Payload, SenderID: e.SenderID})
	if err != nil {
		h.logger.Error("encoding event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if c.id == e.Origin || !e.IsFor(c.userID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow client", zap.String("client", c.id), zap.Int64("user_id", c.userID))
		h.remove(c)
	}
}

// Handler upgrades GET /ws. A missing token yields an anonymous client that
// only receives broadcasts; an invalid one is rejected.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID int64
		if token := strings.TrimPrefix(r.URL.Query().Get("token"), "Bearer "); token != "" {
			id, err := h.auth(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userID = id
		}

		h.mu.RLock()
		closed := h.closed
		h.mu.RUnlock()
		if closed {
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Debug("upgrade failed", zap.Error(err))
			return
		}

		c := &client{
			id:     uuid.NewString(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBuffer),
		}
		hello, _ := json.Marshal(frame{Type: events.TypeConnected})
		c.send <- hello

		if !h.register(c) {
			conn.Close()
			return
		}
		h.logger.Debug("client connected", zap.String("client", c.id), zap.Int64("user_id", userID))

		go h.writePump(c)
		h.readPump(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	return true
}

// remove unregisters c and closes its queue, which stops writePump.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.wg.Done()
		h.logger.Debug("client disconnected", zap.String("client", c.id))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		h.relay(c, data)
	}
}

// relay republishes a client frame to every other client as a relay event
// stamped with the sender. The client's own type stays inside the payload so
// a client cannot pose as a server event. Frames from anonymous clients and
// invalid JSON are dropped.
func (h *Hub) relay(c *client, data []byte) {
	if c.userID == 0 {
		return
	}
	if !json.Valid(data) {
		h.logger.Debug("dropping invalid frame", zap.String("client", c.id))
		return
	}

	e := events.Event{
		Type:     events.TypeRelay,
		Payload:  json.RawMessage(data),
		SenderID: c.userID,
		Origin:   c.id,
	}
	if err := h.broker.Publish(context.Background(), e); err != nil {
		h.logger.Warn("relay publish failed", zap.String("client", c.id), zap.Error(err))
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.wg.Done()
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
