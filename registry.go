package main

import "sync"

// Registry maps live connection IDs to the username each connection
// presented when it joined. It is the only mutable state shared by every
// connection's handlers, so all access goes through one mutex.
type Registry struct {
	mu    sync.RWMutex
	users map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]string),
	}
}

// Bind inserts or overwrites the username for a connection. Usernames are
// display strings only: not unique, not validated.
func (r *Registry) Bind(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[connID] = username
}

// Lookup returns the username bound to a connection. A missing binding
// means the connection never joined (or already left) and callers treat it
// as anonymous, not as an error.
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.users[connID]
	return name, ok
}

// Unbind removes the binding if present. Safe to call twice.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, connID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
