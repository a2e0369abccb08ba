package main

import "log"

// Coordinator implements the session protocol on top of the hub: it binds
// usernames, computes rosters, and fans events out to the right audience.
// It never holds document content; code travels through it opaquely.
//
// Handlers run on each connection's read goroutine, concurrently across
// connections. All shared state they touch (registry, hub) is internally
// synchronized, and every fan-out is best effort: a peer that vanishes
// mid-broadcast just misses that one event and is reconciled by its own
// disconnect broadcast.
type Coordinator struct {
	hub      *Hub
	registry *Registry
	dir      *Directory
}

func NewCoordinator(hub *Hub, registry *Registry) *Coordinator {
	return &Coordinator{
		hub:      hub,
		registry: registry,
		dir:      NewDirectory(hub, registry),
	}
}

// Join binds the username, adds the connection to the room (creating it on
// first join) and sends a joined event to every member — the newcomer
// included, so it gets the authoritative roster in the same round-trip the
// existing members use to learn of the arrival.
func (co *Coordinator) Join(c *Client, p JoinPayload) {
	if p.RoomID == "" {
		log.Printf("join without room key from %s, ignored", shortID(c.connID))
		return
	}

	co.registry.Bind(c.connID, p.Username)
	co.hub.JoinRoom(c, p.RoomID)

	data, err := encodeEvent(EventJoined, JoinedPayload{
		Clients:  co.dir.Roster(p.RoomID),
		Username: p.Username,
		SocketID: c.connID,
	})
	if err != nil {
		log.Printf("encode joined: %v", err)
		return
	}
	co.hub.BroadcastRoom(p.RoomID, "", data)

	log.Printf("%s joined room %s (conn=%s, members=%d)",
		p.Username, p.RoomID, shortID(c.connID), co.hub.ClientCount(p.RoomID))
}

// CodeChange relays new content to every other member of the room. The
// sender already has the content locally, so echoing it back would only
// risk re-applying it out of order.
func (co *Coordinator) CodeChange(c *Client, p CodeChangePayload) {
	data, err := encodeEvent(EventCodeChange, CodeChangePayload{Code: p.Code})
	if err != nil {
		log.Printf("encode code-change: %v", err)
		return
	}
	co.hub.BroadcastRoom(p.RoomID, c.connID, data)
}

// SyncCode unicasts the sender's content to one target connection. This is
// the late-joiner handshake: existing members push their buffer at the
// newcomer after seeing its joined event. If several members race to sync
// the same newcomer, whichever payload arrives last wins — there is no
// arbitration here, matching the client-driven design.
func (co *Coordinator) SyncCode(c *Client, p SyncCodePayload) {
	data, err := encodeEvent(EventCodeChange, CodeChangePayload{Code: p.Code})
	if err != nil {
		log.Printf("encode sync: %v", err)
		return
	}
	if !co.hub.SendTo(p.SocketID, data) {
		log.Printf("sync from %s to unknown connection %s dropped", shortID(c.connID), p.SocketID)
	}
}

// Disconnect is the terminal transition for a connection. Every room it
// was in hears a disconnected event carrying its last-known username; the
// username is looked up before Unbind since the binding goes away here.
func (co *Coordinator) Disconnect(c *Client) {
	keys := co.hub.RoomKeysOf(c.connID)
	if len(keys) > 0 {
		username, _ := co.registry.Lookup(c.connID)
		data, err := encodeEvent(EventDisconnected, DisconnectedPayload{
			SocketID: c.connID,
			Username: username,
		})
		if err != nil {
			log.Printf("encode disconnected: %v", err)
		} else {
			for _, key := range keys {
				co.hub.BroadcastRoom(key, c.connID, data)
			}
		}
		log.Printf("%s left room(s) %v", username, keys)
	}

	co.registry.Unbind(c.connID)
	co.hub.Drop(c)
}
