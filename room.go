package main

import "sync"

// Room is the live membership set for one room key. Rooms carry no state
// beyond their members: they come into existence on the first join and the
// hub drops them when the last member leaves.
type Room struct {
	key string

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRoom(key string) *Room {
	return &Room{
		key:     key,
		clients: make(map[string]*Client),
	}
}

func (r *Room) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.connID] = c
}

func (r *Room) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, connID)
}

func (r *Room) Has(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[connID]
	return ok
}

func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Members returns a snapshot of the member connection IDs.
func (r *Room) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return ids
}

// Broadcast queues data for every member except excludeConnID. An empty
// excludeConnID reaches everyone, including the originator.
func (r *Room) Broadcast(excludeConnID string, data []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.connID == excludeConnID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client's send buffer full — drop message
		}
	}
}
