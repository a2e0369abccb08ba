package main

import (
	"encoding/json"
	"fmt"
)

// Wire event names. These are shared with the browser client and must not
// change without a matching client release.
const (
	EventJoin         = "join"
	EventJoined       = "joined"
	EventCodeChange   = "code-change"
	EventSyncCode     = "sync-code"
	EventDisconnected = "disconnected"
)

// Envelope is the outer frame of every event: one JSON document per
// WebSocket text frame.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// RosterEntry is one member of a room as seen at a single point in time.
// Rosters are recomputed per event, never stored.
type RosterEntry struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

type JoinedPayload struct {
	Clients  []RosterEntry `json:"clients"`
	Username string        `json:"username"`
	SocketID string        `json:"socketId"`
}

type CodeChangePayload struct {
	RoomID string `json:"roomId,omitempty"`
	Code   string `json:"code"`
}

type SyncCodePayload struct {
	SocketID string `json:"socketId"`
	Code     string `json:"code"`
}

type DisconnectedPayload struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}

func decodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("missing event name")
	}
	return &env, nil
}
