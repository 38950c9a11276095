package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// ClientOptions tunes per-connection behavior. Zero values fall back to
// conservative defaults.
type ClientOptions struct {
	SendBuffer  int
	PingPeriod  time.Duration
	WriteWait   time.Duration
	MaxMsgBytes int64
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 30 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.MaxMsgBytes <= 0 {
		o.MaxMsgBytes = 4 << 10
	}
	return o
}

// Client is one WebSocket connection joined to a set of rooms.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	rooms     []string
	userID    string
	role      string
	opts      ClientOptions
	closeOnce sync.Once
}

// RoomsForRole returns the rooms a connection may join based on its role.
// Staff roles see their shared room plus admin oversight where applicable;
// customers only see their own private room.
func RoomsForRole(role, userID string) []string {
	switch role {
	case domain.RoleAdmin:
		return []string{RoomAdmin, RoomPOS, RoomKitchen}
	case domain.RolePOS:
		return []string{RoomPOS}
	case domain.RoleKitchen:
		return []string{RoomKitchen}
	default:
		return []string{UserRoom(userID)}
	}
}

// Serve registers a freshly upgraded connection with the hub and starts its
// read and write pumps. It returns immediately; the pumps own the connection
// lifetime from here on.
func (h *Hub) Serve(conn *websocket.Conn, userID, role string, opts ClientOptions) *Client {
	opts = opts.withDefaults()
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, opts.SendBuffer),
		rooms:  RoomsForRole(role, userID),
		userID: userID,
		role:   role,
		opts:   opts,
	}
	h.register(c)
	go c.writePump(h)
	go c.readPump(h)
	return c
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when the queue is closed or a write
// fails.
func (c *Client) writePump(h *Hub) {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(c.opts.WriteWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// readPump consumes inbound frames so control messages are processed.
// Clients do not publish over the socket; all writes arrive via REST.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.opts.MaxMsgBytes)
	readWait := c.opts.PingPeriod + c.opts.WriteWait
	_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", c.userID).Msg("ws read closed")
			}
			return
		}
	}
}
