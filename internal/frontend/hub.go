package frontend

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks connected clients. Read pumps add and remove clients; the tick
// goroutine broadcasts. Sends never block the tick: a client whose queue is
// full misses the frame.
type Hub struct {
	mu      sync.Mutex
	clients map[uint64]*client
	joined  []*client
	nextID  uint64
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint64]*client),
		log:     log,
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	c.id = h.nextID
	h.clients[c.id] = c
	h.joined = append(h.joined, c)
}

// remove drops the client and closes its send queue, ending its write pump.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// takeJoined returns clients that connected since the last call and are
// still connected.
func (h *Hub) takeJoined() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.joined[:0:0]
	for _, c := range h.joined {
		if _, ok := h.clients[c.id]; ok {
			out = append(out, c)
		}
	}
	h.joined = nil
	return out
}

// Send queues msg for one client. Returns false if it is gone or its queue is full.
func (h *Hub) Send(c *client, msg Message) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return false
	}
	return h.offer(c, msg)
}

// Broadcast queues msg for every client and returns how many accepted it.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		if h.offer(c, msg) {
			n++
		}
	}
	return n
}

func (h *Hub) offer(c *client, msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		h.log.Debug("client queue full, frame dropped", zap.Uint64("client", c.id), zap.String("type", msg.Type))
		return false
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		_ = c.conn.Close()
	}
}
