// E2E test: drives two editor clients through a live coordinator.
// Usage: go run ./cmd/e2etest -server ws://localhost:5000/ws
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

var serverURL = flag.String("server", "ws://localhost:5000/ws", "coordinator WebSocket URL")

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type rosterEntry struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

type joinedPayload struct {
	Clients  []rosterEntry `json:"clients"`
	Username string        `json:"username"`
	SocketID string        `json:"socketId"`
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	roomID := "e2e-test-room"

	// --- Connect alice ---
	log.Println(">> Connecting alice...")
	alice, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatal("alice connect:", err)
	}
	defer alice.Close()
	send(alice, "join", map[string]string{"roomId": roomID, "username": "alice"})

	joined := readJoined(alice, "alice")
	if len(joined.Clients) != 1 {
		log.Fatalf("alice roster: got %d entries, want 1", len(joined.Clients))
	}
	log.Println("   Alice joined, roster size 1 ✓")

	// --- Connect bob ---
	log.Println(">> Connecting bob...")
	bob, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatal("bob connect:", err)
	}
	defer bob.Close()
	send(bob, "join", map[string]string{"roomId": roomID, "username": "bob"})

	// Both sides see bob's arrival with the full two-person roster.
	bobView := readJoined(bob, "bob")
	aliceView := readJoined(alice, "bob")
	if len(bobView.Clients) != 2 || len(aliceView.Clients) != 2 {
		log.Fatalf("post-join rosters: bob=%d alice=%d, want 2/2",
			len(bobView.Clients), len(aliceView.Clients))
	}
	bobID := bobView.SocketID
	log.Println("   Bob joined, both rosters size 2 ✓")

	// --- Alice syncs her buffer at the newcomer ---
	log.Println(">> Alice pushing sync to bob...")
	send(alice, "sync-code", map[string]string{"socketId": bobID, "code": "x = 1"})
	if code := readCode(bob); code != "x = 1" {
		log.Fatalf("bob sync content: got %q, want %q", code, "x = 1")
	}
	log.Println("   Bob received synced content ✓")

	// --- Bob edits; alice receives, bob hears no echo ---
	log.Println(">> Bob editing...")
	send(bob, "code-change", map[string]string{"roomId": roomID, "code": "x = 2"})
	if code := readCode(alice); code != "x = 2" {
		log.Fatalf("alice edit content: got %q, want %q", code, "x = 2")
	}
	log.Println("   Alice received edit ✓")

	// --- Bob drops; alice is notified ---
	log.Println(">> Bob disconnecting...")
	bob.Close()
	env := read(alice)
	if env.Event != "disconnected" {
		log.Fatalf("alice got event %q, want disconnected", env.Event)
	}
	var gone struct {
		SocketID string `json:"socketId"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(env.Payload, &gone); err != nil {
		log.Fatal("disconnected payload:", err)
	}
	if gone.SocketID != bobID || gone.Username != "bob" {
		log.Fatalf("disconnected payload: got %+v", gone)
	}
	log.Println("   Alice saw bob leave ✓")

	fmt.Println()
	log.Println("═══════════════════════════════")
	log.Println("  E2E TEST PASSED ✓")
	log.Println("═══════════════════════════════")
	os.Exit(0)
}

func send(conn *websocket.Conn, event string, payload any) {
	raw, _ := json.Marshal(payload)
	data, _ := json.Marshal(envelope{Event: event, Payload: raw})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatalf("send %s: %v", event, err)
	}
}

func read(conn *websocket.Conn) *envelope {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Fatal("read:", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Fatal("decode:", err)
	}
	return &env
}

func readJoined(conn *websocket.Conn, wantUsername string) *joinedPayload {
	env := read(conn)
	if env.Event != "joined" {
		log.Fatalf("got event %q, want joined", env.Event)
	}
	var p joinedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		log.Fatal("joined payload:", err)
	}
	if p.Username != wantUsername {
		log.Fatalf("joined username: got %q, want %q", p.Username, wantUsername)
	}
	return &p
}

func readCode(conn *websocket.Conn) string {
	env := read(conn)
	if env.Event != "code-change" {
		log.Fatalf("got event %q, want code-change", env.Event)
	}
	var p struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		log.Fatal("code payload:", err)
	}
	return p.Code
}
