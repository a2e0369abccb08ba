package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// Hub owns the transport-side state: every live connection and the
// room-key → membership index. Room existence is purely derived from that
// index; there is no separate room lifecycle.
//
// Hub methods are called concurrently from each connection's read
// goroutine, so all state lives behind the mutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]*Room
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]*Room),
	}
}

// Run blocks until ctx is cancelled, then closes every connection. The
// ticker logs occupancy so an operator can see room churn without metrics.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case <-ticker.C:
			h.mu.RLock()
			rooms, conns := len(h.rooms), len(h.clients)
			h.mu.RUnlock()
			if conns > 0 {
				log.Printf("stats: %d connection(s) across %d room(s)", conns, rooms)
			}
		}
	}
}

// Register adds a freshly upgraded connection. The caller starts the pumps;
// the connection belongs to no room until its first join event.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.connID] = c
	h.mu.Unlock()

	log.Printf("connection %s opened (ip=%s)", shortID(c.connID), c.ip)
}

// JoinRoom adds the connection to the room for key, creating the room on
// first join. A connection may be in several rooms at once. The hub lock
// stays held across Add: releasing it first would let a concurrent Drop
// tear the room out of the index and strand the joiner in an orphaned Room.
func (h *Hub) JoinRoom(c *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[key]
	if !ok {
		room = NewRoom(key)
		h.rooms[key] = room
	}
	room.Add(c)
}

// Members returns the connection IDs currently in the room, or nil if the
// room does not exist.
func (h *Hub) Members(key string) []string {
	h.mu.RLock()
	room, ok := h.rooms[key]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	return room.Members()
}

// RoomKeysOf returns every room key the connection is currently a member
// of. Derived by scanning the live index rather than kept per connection,
// so it can never drift from actual membership.
func (h *Hub) RoomKeysOf(connID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var keys []string
	for key, room := range h.rooms {
		if room.Has(connID) {
			keys = append(keys, key)
		}
	}
	return keys
}

// BroadcastRoom queues data for every member of the room except
// excludeConnID (empty means no exclusion). Unknown rooms are a no-op.
//
// The hub read lock is held for the whole fan-out. Send channels are only
// ever closed under the hub write lock, so a send here can never hit a
// channel a concurrent Drop has already closed.
func (h *Hub) BroadcastRoom(key, excludeConnID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[key]
	if !ok {
		return
	}
	room.Broadcast(excludeConnID, data)
}

// SendTo queues data for one connection, wherever it is. Returns false if
// the connection is gone; callers treat that as a tolerated send failure.
// The send happens under the hub read lock for the same reason as in
// BroadcastRoom.
func (h *Hub) SendTo(connID string, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.send <- data:
	default:
	}
	return true
}

// Drop removes the connection from every room and from the live index,
// tearing down rooms it leaves empty, and closes its send channel. The
// close happens under the hub write lock: every send path holds the read
// lock, so nothing can be mid-send on the channel when it closes.
func (h *Hub) Drop(c *Client) {
	h.mu.Lock()
	for key, room := range h.rooms {
		if !room.Has(c.connID) {
			continue
		}
		room.Remove(c.connID)
		if room.ClientCount() == 0 {
			delete(h.rooms, key)
			log.Printf("room %s destroyed (no clients)", key)
		}
	}
	delete(h.clients, c.connID)
	c.Close()
	h.mu.Unlock()

	log.Printf("connection %s closed", shortID(c.connID))
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ClientCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[key]; ok {
		return room.ClientCount()
	}
	return 0
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		c.Close()
	}
	h.rooms = make(map[string]*Room)
	h.clients = make(map[string]*Client)
}
