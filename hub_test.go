package main

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func testClient(id string) *Client {
	return &Client{connID: id, send: make(chan []byte, 16)}
}

func TestHub_JoinRoom_CreatesRoom(t *testing.T) {
	hub := NewHub()

	c := testClient("conn-1")
	hub.Register(c)
	hub.JoinRoom(c, "room-1")

	if hub.RoomCount() != 1 {
		t.Errorf("expected 1 room, got %d", hub.RoomCount())
	}
	if hub.ClientCount("room-1") != 1 {
		t.Errorf("expected 1 member, got %d", hub.ClientCount("room-1"))
	}

	// Joining the same room again must not duplicate membership.
	hub.JoinRoom(c, "room-1")
	if hub.ClientCount("room-1") != 1 {
		t.Errorf("expected 1 member after rejoin, got %d", hub.ClientCount("room-1"))
	}
}

func TestHub_Members_UnknownRoom(t *testing.T) {
	hub := NewHub()

	if members := hub.Members("nowhere"); members != nil {
		t.Errorf("expected nil for unknown room, got %v", members)
	}
}

func TestHub_RoomKeysOf_MultipleRooms(t *testing.T) {
	hub := NewHub()

	c := testClient("conn-1")
	other := testClient("conn-2")
	hub.Register(c)
	hub.Register(other)
	hub.JoinRoom(c, "room-1")
	hub.JoinRoom(c, "room-2")
	hub.JoinRoom(other, "room-3")

	keys := hub.RoomKeysOf("conn-1")
	if len(keys) != 2 {
		t.Fatalf("expected 2 rooms, got %v", keys)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["room-1"] || !seen["room-2"] {
		t.Errorf("wrong rooms: %v", keys)
	}
}

func TestHub_Drop_TearsDownEmptyRooms(t *testing.T) {
	hub := NewHub()

	c1 := testClient("conn-1")
	c2 := testClient("conn-2")
	hub.Register(c1)
	hub.Register(c2)
	hub.JoinRoom(c1, "room-1")
	hub.JoinRoom(c2, "room-1")
	hub.JoinRoom(c1, "room-2")

	hub.Drop(c1)

	if hub.RoomCount() != 1 {
		t.Errorf("room-2 should be destroyed with its last member, got %d rooms", hub.RoomCount())
	}
	if hub.ClientCount("room-1") != 1 {
		t.Errorf("room-1 should keep conn-2, got %d members", hub.ClientCount("room-1"))
	}
	if hub.ConnCount() != 1 {
		t.Errorf("expected 1 live connection, got %d", hub.ConnCount())
	}
	if hub.SendTo("conn-1", []byte("x")) {
		t.Error("SendTo should fail for a dropped connection")
	}
}

func TestHub_SendTo(t *testing.T) {
	hub := NewHub()

	c := testClient("conn-1")
	hub.Register(c)

	if !hub.SendTo("conn-1", []byte("direct")) {
		t.Fatal("SendTo should succeed for a live connection")
	}
	select {
	case msg := <-c.send:
		if string(msg) != "direct" {
			t.Errorf("got %q, want %q", msg, "direct")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("message was not queued")
	}
}

func TestHub_ConcurrentSendAndDrop(t *testing.T) {
	hub := NewHub()

	// A unicast racing the target's disconnect must either deliver or
	// report the connection gone — never land on a closed channel.
	for i := 0; i < 200; i++ {
		c := testClient(fmt.Sprintf("conn-%d", i))
		hub.Register(c)
		hub.JoinRoom(c, "r1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.SendTo(c.connID, []byte("x"))
				hub.BroadcastRoom("r1", "", []byte("y"))
			}
		}()
		go func() {
			defer wg.Done()
			hub.Drop(c)
		}()
		wg.Wait()

		if hub.SendTo(c.connID, []byte("x")) {
			t.Fatalf("iteration %d: dropped connection still reachable", i)
		}
	}
}

func TestHub_ConcurrentJoinAndDrop(t *testing.T) {
	hub := NewHub()

	// A join racing the last member's drop must leave the joiner in a
	// room the index can still reach, not in an orphaned Room object.
	for i := 0; i < 200; i++ {
		leaving := testClient(fmt.Sprintf("conn-old-%d", i))
		joining := testClient(fmt.Sprintf("conn-new-%d", i))
		hub.Register(leaving)
		hub.JoinRoom(leaving, "r1")
		hub.Register(joining)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Drop(leaving)
		}()
		go func() {
			defer wg.Done()
			hub.JoinRoom(joining, "r1")
		}()
		wg.Wait()

		if hub.ClientCount("r1") != 1 {
			t.Fatalf("iteration %d: joiner lost, room has %d member(s)", i, hub.ClientCount("r1"))
		}
		hub.BroadcastRoom("r1", "", []byte("reach"))
		select {
		case <-joining.send:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("iteration %d: joiner unreachable through the room index", i)
		}

		hub.Drop(joining)
	}
}

func TestHub_RunAndShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	// Give it a moment to start
	time.Sleep(10 * time.Millisecond)

	cancel()

	select {
	case <-done:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("hub.Run did not return after cancel")
	}
}
