package controllers

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	feedWriteWait  = 10 * time.Second
	feedClientSend = 16
)

// OrderEvent is pushed to dashboard clients whenever an order changes status.
type OrderEvent struct {
	OrderID   uint      `json:"order_id"`
	Status    string    `json:"order_status"`
	Previous  string    `json:"previous_status"`
	StoreID   *uint     `json:"store_id,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan OrderEvent
}

// OrderHub fans order events out to every connected dashboard.
type OrderHub struct {
	upgrader  websocket.Upgrader
	clients   map[*feedClient]struct{}
	broadcast chan OrderEvent
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewOrderHub starts the broadcaster. Browsers from origins outside
// allowedOrigins are refused unless the list is empty.
func NewOrderHub(allowedOrigins []string) *OrderHub {
	h := &OrderHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:   make(map[*feedClient]struct{}),
		broadcast: make(chan OrderEvent, 100),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *OrderHub) run() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- ev:
				default:
					logrus.WithField("order_id", ev.OrderID).Warn("order feed client too slow, dropping it")
					h.unregisterLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues ev for every client. It never blocks the caller.
func (h *OrderHub) Publish(ev OrderEvent) {
	select {
	case <-h.done:
	case h.broadcast <- ev:
	default:
		logrus.WithField("order_id", ev.OrderID).Warn("order feed backlog full, event dropped")
	}
}

// Subscribe upgrades the request and streams events until the client leaves.
func (h *OrderHub) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("order feed upgrade failed")
		return
	}
	client := &feedClient{conn: conn, send: make(chan OrderEvent, feedClientSend)}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	logrus.WithField("remote", c.ClientIP()).Info("order feed client connected")

	go h.write(client)

	// Clients only listen; reading detects when they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Info("order feed client closed unexpectedly")
			}
			break
		}
	}
	h.mu.Lock()
	h.unregisterLocked(client)
	h.mu.Unlock()
}

// write owns all writes to one connection.
func (h *OrderHub) write(client *feedClient) {
	defer client.conn.Close()
	for ev := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := client.conn.WriteJSON(ev); err != nil {
			logrus.WithError(err).Warn("order feed write failed")
			return
		}
	}
	client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *OrderHub) unregisterLocked(client *feedClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *OrderHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops the broadcaster and disconnects every client.
func (h *OrderHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			h.unregisterLocked(client)
		}
		h.mu.Unlock()
	})
}
