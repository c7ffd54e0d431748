// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"safaipak-api-server/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventBookingAssigned      = "booking_assigned"
	EventBookingStatusChanged = "booking_status_changed"
)

const writeWait = 10 * time.Second

// BookingEvent is pushed to the provider a booking belongs to.
type BookingEvent struct {
	Event   string          `json:"event"`
	Booking *models.Booking `json:"booking"`
}

// client pairs a connection with its write lock; gorilla connections allow
// one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub keeps one live connection per provider. A newer connection for the
// same provider replaces the older one.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

func (h *Hub) Register(providerID string, conn *websocket.Conn) {
	h.mu.Lock()
	old, ok := h.clients[providerID]
	h.clients[providerID] = &client{conn: conn}
	h.mu.Unlock()

	if ok && old.conn != conn {
		old.conn.Close()
	}
	h.log.Info("WebSocket client registered", zap.String("providerID", providerID))
}

// Unregister removes conn if it is still the provider's current connection.
func (h *Hub) Unregister(providerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[providerID]; ok && current.conn == conn {
		delete(h.clients, providerID)
		h.log.Info("WebSocket client unregistered", zap.String("providerID", providerID))
	}
}

func (h *Hub) Connected(providerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[providerID]
	return ok
}

// Send writes message to the provider's connection. An offline provider is
// not an error. A slow connection only delays its own messages.
func (h *Hub) Send(providerID string, message []byte) error {
	h.mu.RLock()
	c, ok := h.clients[providerID]
	h.mu.RUnlock()

	if !ok {
		h.log.Debug("WebSocket client not connected, message dropped", zap.String("providerID", providerID))
		return nil
	}
	return c.write(message)
}

// NotifyBooking pushes a booking event to the booking's provider, if any.
// Failures are logged and otherwise ignored.
func (h *Hub) NotifyBooking(event string, b *models.Booking) {
	if h == nil || b == nil || b.ProviderID == "" {
		return
	}
	payload, err := json.Marshal(BookingEvent{Event: event, Booking: b})
	if err != nil {
		h.log.Error("Failed to encode booking event", zap.Error(err))
		return
	}
	if err := h.Send(b.ProviderID, payload); err != nil {
		h.log.Warn("Failed to push booking event",
			zap.String("providerID", b.ProviderID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
