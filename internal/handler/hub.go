package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
)

// Live event types.
const (
	EventHello              = "hello"
	EventReservationChanged = "reservation.changed"
	EventReviewModerated    = "review.moderated"
	EventAgendaRefreshed    = "agenda.refreshed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// LiveEvent is the frame pushed to every connected agenda.  Version is the
// snapshot version after the change; clients refetch when it moves.
type LiveEvent struct {
	Type    string          `json:"type"`
	Version uint64          `json:"version"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AgendaHub fans reservation changes out to every open agenda so other
// admins see them without reloading.
type AgendaHub struct {
	clients    map[*liveClient]bool
	register   chan *liveClient
	unregister chan *liveClient
	broadcast  chan []byte
	done       chan struct{}
	upgrader   websocket.Upgrader
	metrics    *metrics.Metrics
}

type liveClient struct {
	hub     *AgendaHub
	conn    *websocket.Conn
	send    chan []byte
	adminID string
}

// NewAgendaHub returns a hub; Run must be started before clients connect.
// checkOrigin may be nil to accept every origin.
func NewAgendaHub(checkOrigin func(r *http.Request) bool, m *metrics.Metrics) *AgendaHub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &AgendaHub{
		clients:    make(map[*liveClient]bool),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		upgrader:   websocket.Upgrader{CheckOrigin: checkOrigin},
		metrics:    m,
	}
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *AgendaHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.metrics.ClientsChanged(1)
			log.Printf("agenda-hub: admin %s connected (%d live)", c.adminID, len(h.clients))
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				log.Printf("agenda-hub: admin %s disconnected (%d live)", c.adminID, len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					log.Printf("agenda-hub: admin %s too slow, dropping", c.adminID)
					h.drop(c)
				}
			}
		}
	}
}

func (h *AgendaHub) drop(c *liveClient) {
	delete(h.clients, c)
	close(c.send)
	h.metrics.ClientsChanged(-1)
}

// Publish queues an event for every client.  It never blocks; when the
// queue is full the event is dropped and clients catch up on their next
// refetch.
func (h *AgendaHub) Publish(eventType string, version uint64, payload any) {
	if h == nil {
		return
	}
	data, err := encodeEvent(eventType, version, payload)
	if err != nil {
		log.Printf("agenda-hub: encode %s: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("agenda-hub: broadcast queue full, dropping %s", eventType)
	}
}

func encodeEvent(eventType string, version uint64, payload any) ([]byte, error) {
	ev := LiveEvent{Type: eventType, Version: version}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		ev.Payload = raw
	}
	return json.Marshal(ev)
}

// Serve upgrades the request and attaches the connection to the hub.
func (h *AgendaHub) Serve(c echo.Context, adminID string, version uint64) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("agenda-hub: upgrade failed: %v", err)
		return nil
	}
	client := &liveClient{hub: h, conn: conn, send: make(chan []byte, sendBuffer), adminID: adminID}
	if hello, err := encodeEvent(EventHello, version, map[string]string{"admin_id": adminID}); err == nil {
		client.send <- hello
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump only drains control frames; agenda clients never send data.
func (c *liveClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
