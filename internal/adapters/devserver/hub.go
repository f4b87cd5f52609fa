package devserver

import (
	"sync"

	"github.com/aidarkhanov/nanoid"
	"github.com/gorilla/websocket"
)

// ReloadMessage is the text frame that tells a browser to reload.
const ReloadMessage = "reload"

const clientSendBuffer = 4

type client struct {
	id   string
	conn *websocket.Conn
	send chan string
}

// Hub tracks connected live-reload clients.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// register adds conn and starts its writer. The returned client is removed by unregister.
func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   nanoid.New(),
		conn: conn,
		send: make(chan string, clientSendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writeLoop()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Broadcast queues msg for every client and returns how many clients it reached.
// A client whose queue is full already has a pending reload and is skipped.
func (h *Hub) Broadcast(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, c := range h.clients {
		select {
		case c.send <- msg:
			n++
		default:
		}
	}
	return n
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			_ = c.conn.Close()
			// Drain so Broadcast never blocks on a dead client.
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
