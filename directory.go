package main

// Directory derives room rosters on demand by resolving the hub's live
// membership through the registry. Nothing here is cached: every call
// reflects membership at that instant.
type Directory struct {
	hub      *Hub
	registry *Registry
}

func NewDirectory(hub *Hub, registry *Registry) *Directory {
	return &Directory{hub: hub, registry: registry}
}

// Members returns the connection IDs currently in the room.
func (d *Directory) Members(key string) []string {
	return d.hub.Members(key)
}

// Roster resolves each member to a {socketId, username} entry. A member
// with no registry binding has not finished joining and is skipped rather
// than reported with an empty name.
func (d *Directory) Roster(key string) []RosterEntry {
	members := d.hub.Members(key)
	roster := make([]RosterEntry, 0, len(members))
	for _, connID := range members {
		username, ok := d.registry.Lookup(connID)
		if !ok {
			continue
		}
		roster = append(roster, RosterEntry{SocketID: connID, Username: username})
	}
	return roster
}
