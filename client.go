package main

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// shortID abbreviates a connection ID for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Client is one live connection. Its connection ID is minted server side
// and is the identity every event uses; it dies with the link.
type Client struct {
	coord *Coordinator
	conn  *websocket.Conn

	connID string
	ip     string
	send   chan []byte

	closeOnce sync.Once
}

func NewClient(coord *Coordinator, conn *websocket.Conn, ip string) *Client {
	return &Client{
		coord:  coord,
		conn:   conn,
		connID: uuid.NewString(),
		ip:     ip,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump reads frames until the link drops and dispatches each event to
// the coordinator. Its deferred exit is the single disconnect path: the
// coordinator broadcasts the departure and releases all state.
func (c *Client) ReadPump() {
	defer func() {
		c.coord.Disconnect(c)
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error conn=%s: %v", shortID(c.connID), err)
			}
			return
		}
		c.dispatch(message)
	}
}

// dispatch decodes one inbound frame. Bad frames are logged and skipped:
// nothing a client sends is allowed to take the connection down.
func (c *Client) dispatch(message []byte) {
	env, err := decodeEnvelope(message)
	if err != nil {
		log.Printf("bad frame from %s: %v", shortID(c.connID), err)
		return
	}

	switch env.Event {
	case EventJoin:
		var p JoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("bad join payload from %s: %v", shortID(c.connID), err)
			return
		}
		c.coord.Join(c, p)

	case EventCodeChange:
		var p CodeChangePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("bad code-change payload from %s: %v", shortID(c.connID), err)
			return
		}
		c.coord.CodeChange(c, p)

	case EventSyncCode:
		var p SyncCodePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("bad sync-code payload from %s: %v", shortID(c.connID), err)
			return
		}
		c.coord.SyncCode(c, p)

	default:
		log.Printf("unknown event %q from %s, skipped", env.Event, shortID(c.connID))
	}
}

// WritePump drains the send channel to the wire, one JSON event per text
// frame, and keeps the link alive with pings. Frame order is channel order,
// so a roster snapshot is never overtaken by a later relay to the same peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
