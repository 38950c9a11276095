// Package ws implements the real-time fan-out layer: a room-based hub over
// WebSocket connections. Clients join named rooms (kitchen, pos, admin,
// user:<id>) and receive events addressed to those rooms.
//
// Delivery is fire-and-forget: there are no ordering or redelivery
// guarantees, and a client whose outbound queue is full is disconnected
// rather than allowed to stall the hub.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Event names mirrored by every frontend.
const (
	EventOrderNew         = "order:new"
	EventOrderStatus      = "order:status-updated"
	EventPaymentConfirmed = "payment:confirmed"
	EventChatMessage      = "chat:message"
	EventDayClosed        = "day:closed"
)

// Staff room names. Customer rooms are per-user (see UserRoom).
const (
	RoomKitchen = "kitchen"
	RoomPOS     = "pos"
	RoomAdmin   = "admin"
)

// UserRoom returns the private room name for a user id.
func UserRoom(userID string) string { return "user:" + userID }

// Envelope is the JSON frame written to clients.
type Envelope struct {
	Event string    `json:"event"`
	Room  string    `json:"room"`
	Data  any       `json:"data"`
	At    time.Time `json:"at"`
}

var wsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connected_clients",
	Help: "Current number of connected WebSocket clients.",
})

func init() {
	prometheus.MustRegister(wsConnected)
}

// Hub tracks connected clients per room and fans events out to them.
// All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// register adds a client to each of its rooms.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	for _, room := range c.rooms {
		set, ok := h.rooms[room]
		if !ok {
			set = make(map[*Client]struct{})
			h.rooms[room] = set
		}
		set[c] = struct{}{}
	}
	h.mu.Unlock()
	wsConnected.Inc()
}

// unregister removes a client from all rooms and closes its send queue.
// Safe to call more than once per client.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := false
	for _, room := range c.rooms {
		if set, ok := h.rooms[room]; ok {
			if _, member := set[c]; member {
				delete(set, c)
				removed = true
			}
			if len(set) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	if removed {
		wsConnected.Dec()
		c.closeOnce.Do(func() { close(c.send) })
	}
}

// Broadcast fans an event out to every client in a room. Clients whose
// outbound queues are full are dropped; the event is not queued for them.
func (h *Hub) Broadcast(room, event string, data any) {
	frame, err := json.Marshal(Envelope{
		Event: event,
		Room:  room,
		Data:  data,
		At:    time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws marshal failed")
		return
	}

	h.mu.RLock()
	var slow []*Client
	for c := range h.rooms[room] {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("room", room).Str("user_id", c.userID).Msg("dropping slow ws client")
		h.unregister(c)
	}
}

// RoomSize returns the number of clients currently joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
