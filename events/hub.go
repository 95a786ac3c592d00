package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dipanshukale/CraftCrazy/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
	broadcastQueue = 256
)

// ErrHubClosed is returned for connections arriving after the hub stopped.
var ErrHubClosed = errors.New("socket hub is closed")

// Hub keeps the set of connected admin sockets and broadcasts events to all of them.
// A single goroutine (Run) owns the client set.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	count      atomic.Int64

	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub accepting browser connections from allowedOrigin.
// An empty allowedOrigin accepts any origin.
func NewHub(allowedOrigin string, logger zerolog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "socket-hub").Logger(),
	}
	allowedOrigin = strings.TrimRight(allowedOrigin, "/")
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimRight(r.Header.Get("Origin"), "/")
			return allowedOrigin == "" || origin == "" || strings.EqualFold(origin, allowedOrigin)
		},
	}
	return h
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			metrics.SocketClients.Inc()
			h.logger.Debug().Str("client_id", c.id).Msg("socket connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					h.logger.Warn().Str("client_id", c.id).Msg("socket send buffer full, dropping client")
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
	metrics.SocketClients.Dec()
}

// ClientCount reports the number of registered sockets.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// Emit queues the event for every connected client. When the queue is full the
// event is dropped.
func (h *Hub) Emit(event string, payload any) {
	frame, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("marshal socket event")
		return
	}
	select {
	case h.broadcast <- frame:
		metrics.EventsEmitted.WithLabelValues(event, "socket").Inc()
	default:
		h.logger.Warn().Str("event", event).Msg("broadcast queue full, event dropped")
	}
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// handleInbound rebroadcasts admin panel events under their outbound names.
func (h *Hub) handleInbound(msg Message) {
	switch msg.Event {
	case inboundAdminMessage:
		h.Emit(BroadcastMessage, msg.Data)
	case inboundOrderCreated:
		h.Emit(OrderUpdated, msg.Data)
		h.Emit(TrendUpdate, nil)
	case inboundAdminSearch:
		h.Emit(SearchResult, msg.Data)
	case inboundContactCreated:
		h.Emit(ContactUpdated, msg.Data)
	default:
		h.logger.Debug().Str("event", msg.Event).Msg("ignoring unknown socket event")
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).Str("client_id", c.id).Msg("socket closed")
			}
			return
		}
		c.hub.handleInbound(msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
