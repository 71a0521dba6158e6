// Package realtime fans mutation events out to WebSocket clients grouped in
// rooms. Delivery is at-most-once: slow clients drop frames and nothing is
// replayed, so clients reconcile through the REST lists.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

type Room string

const (
	RoomAdmin Room = "admin"
	RoomUser  Room = "user"
)

// AllRooms is where content events go.
var AllRooms = []Room{RoomAdmin, RoomUser}

func (r Room) Valid() bool {
	return r == RoomAdmin || r == RoomUser
}

// Event is the frame written to clients.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

func encodeEvent(name string, data any) ([]byte, error) {
	return json.Marshal(Event{Name: name, Data: data})
}

// Hub tracks connected clients and room membership. A client is in at most
// one room at a time.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[Room]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[Room]map[*Client]struct{}),
	}
}

// Register starts tracking c. It returns false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// Unregister removes c from every room and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if members, ok := h.rooms[c.room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	close(c.send)
}

// Join moves c into room, leaving the room it was in.
func (h *Hub) Join(c *Client, room Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if members, ok := h.rooms[c.room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.room = room
}

// Deliver queues frame for every member of room. Members whose queue is
// full miss the frame.
func (h *Hub) Deliver(room Room, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- frame:
		default:
			slog.Debug("dropping realtime frame for slow client", "room", room)
		}
	}
}

// SendTo queues a frame for a single client if it is still registered.
func (h *Hub) SendTo(c *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (h *Hub) RoomSize(room Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
