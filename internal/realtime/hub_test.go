package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{
		UserID:  userID,
		Role:    domain.RoleContributor,
		hub:     hub,
		send:    make(chan []byte, sendBuffer),
		roomSet: make(map[string]struct{}),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func recvFrame(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed unexpectedly")
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return frame{}
}

func expectSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_BroadcastReachesGeneralRoom(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.register <- alice
	hub.register <- bob

	hub.Broadcast(domain.RoomGeneral, domain.EventIssueCreated, map[string]string{"id": "i1"})

	for _, c := range []*Client{alice, bob} {
		f := recvFrame(t, c)
		if f.Event != domain.EventIssueCreated {
			t.Fatalf("expected %s, got %s", domain.EventIssueCreated, f.Event)
		}
	}
}

func TestHub_UserRoomIsPrivate(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.register <- alice
	hub.register <- bob

	hub.Broadcast(domain.UserRoom("alice"), domain.EventNotification, "for alice only")

	f := recvFrame(t, alice)
	if f.Event != domain.EventNotification {
		t.Fatalf("expected notification, got %s", f.Event)
	}
	expectSilent(t, bob)
}

func TestHub_IssueRoomJoinAndLeave(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.register <- alice
	hub.register <- bob

	room := domain.IssueRoom("i42")
	hub.join <- membership{client: alice, room: room}

	hub.Broadcast(room, domain.EventCommentAdded, map[string]string{"issueId": "i42"})
	if f := recvFrame(t, alice); f.Event != domain.EventCommentAdded {
		t.Fatalf("expected comment:added, got %s", f.Event)
	}
	expectSilent(t, bob)

	hub.leave <- membership{client: alice, room: room}
	hub.Broadcast(room, domain.EventCommentAdded, nil)
	expectSilent(t, alice)
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, "alice")
	hub.register <- alice

	hub.Broadcast(domain.IssueRoom("nobody-here"), domain.EventIssueUpdated, nil)
	expectSilent(t, alice)
}

func TestHub_UnregisterRemovesFromAllRooms(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, "alice")
	hub.register <- alice
	hub.join <- membership{client: alice, room: domain.IssueRoom("i1")}

	hub.unregister <- alice

	select {
	case _, ok := <-alice.send:
		if ok {
			t.Fatal("expected closed send channel, got frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed after unregister")
	}

	// A second unregister for the same client must be harmless.
	hub.unregister <- alice

	hub.Broadcast(domain.RoomGeneral, domain.EventIssueCreated, nil)
	hub.Broadcast(domain.IssueRoom("i1"), domain.EventIssueCreated, nil)
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := startHub(t)

	slow := newTestClient(hub, "slow")
	hub.register <- slow

	// Fill the send buffer without draining, then push one event past it.
	for i := 0; i < sendBuffer+1; i++ {
		hub.Broadcast(domain.RoomGeneral, domain.EventIssueUpdated, i)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				return // dropped, channel closed
			}
		case <-deadline:
			t.Fatal("slow consumer was never dropped")
		}
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	alice := newTestClient(hub, "alice")
	hub.register <- alice
	cancel()

	select {
	case _, ok := <-alice.send:
		if ok {
			t.Fatal("expected closed send channel on shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client not released on shutdown")
	}
}
