package live

import (
	"sync"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Hub tracks websocket subscribers per match.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]struct{})}
}

// Client is one websocket connection watching a single match.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	matchID uint
	send    chan []byte
	once    sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, matchID uint) *Client {
	return &Client{hub: h, conn: conn, matchID: matchID, send: make(chan []byte, sendBuffer)}
}

func (h *Hub) subscribe(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.matchID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.matchID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
	metrics.WebsocketClients.Inc()
}

// unsubscribe removes c and closes its send channel. Safe to call twice.
func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.matchID]
	_, present := room[c]
	if ok && present {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.matchID)
		}
	}
	h.mu.Unlock()

	if present {
		metrics.WebsocketClients.Dec()
	}
	c.once.Do(func() { close(c.send) })
}

// Broadcast queues payload for every subscriber of matchID. Clients whose
// buffer is full are disconnected. It returns the number of deliveries.
func (h *Hub) Broadcast(matchID uint, payload []byte) int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[matchID]))
	for c := range h.rooms[matchID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		select {
		case c.send <- payload:
			delivered++
		default:
			log.Warn().Uint("match_id", matchID).Msg("dropping slow websocket client")
			h.unsubscribe(c)
		}
	}
	return delivered
}

// Subscribers reports how many clients watch matchID.
func (h *Hub) Subscribers(matchID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Client
	for _, room := range h.rooms {
		for c := range room {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range all {
		h.unsubscribe(c)
	}
}

// readPump drains control frames until the peer goes away. Clients never
// send application messages.
func (c *Client) readPump() {
	defer c.hub.unsubscribe(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Uint("match_id", c.matchID).Msg("websocket read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
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
