package handler

import (
	"encoding/json"
	"testing"
)

func newTestConn(playerID string) *WSConn {
	return &WSConn{
		conn:     nil, // no real connection for hub tests
		playerID: playerID,
		send:     make(chan []byte, 256),
	}
}

func recvEvent(t *testing.T, c *WSConn) WSEvent {
	t.Helper()
	select {
	case msg := <-c.send:
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return event
	default:
		t.Fatal("no event queued")
		return WSEvent{}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("guest-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubMatchChannel(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("guest-1")
	c2 := newTestConn("guest-2")
	c3 := newTestConn("guest-3") // not in the match

	for _, c := range []*WSConn{c1, c2, c3} {
		hub.Register(c)
	}

	hub.JoinMatchChannel("guest-1", "match-1")
	hub.JoinMatchChannel("guest-2", "match-1")
	if hub.MatchSubscriberCount("match-1") != 2 {
		t.Fatalf("expected 2 subscribers, got %d", hub.MatchSubscriberCount("match-1"))
	}

	hub.BroadcastMatchEvent("match-1", "state", map[string]int{"turn": 3})

	for _, c := range []*WSConn{c1, c2} {
		event := recvEvent(t, c)
		if event.Type != "state" || event.MatchID != "match-1" {
			t.Errorf("got event %+v", event)
		}
	}
	select {
	case <-c3.send:
		t.Error("guest-3 is not in the match and should receive nothing")
	default:
	}

	hub.LeaveMatchChannel("guest-1", "match-1")
	if hub.MatchSubscriberCount("match-1") != 1 {
		t.Errorf("expected 1 subscriber after leave, got %d", hub.MatchSubscriberCount("match-1"))
	}
}

func TestHubSendPlayerEvent(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("guest-1")
	c1b := newTestConn("guest-1") // second tab, same player
	c2 := newTestConn("guest-2")
	for _, c := range []*WSConn{c1, c1b, c2} {
		hub.Register(c)
	}

	hub.SendPlayerEvent("guest-1", "action_rejected", map[string]string{"code": "NoUnitToMove"})

	for _, c := range []*WSConn{c1, c1b} {
		event := recvEvent(t, c)
		if event.Type != "action_rejected" {
			t.Errorf("got event type %q", event.Type)
		}
	}
	select {
	case <-c2.send:
		t.Error("guest-2 should not receive guest-1's private event")
	default:
	}
}

func TestHubUnregisterLeavesChannels(t *testing.T) {
	hub := NewHub()
	c := newTestConn("guest-1")
	hub.Register(c)
	hub.JoinMatchChannel("guest-1", "match-1")

	hub.Unregister(c)

	if hub.MatchSubscriberCount("match-1") != 0 {
		t.Error("unregister should remove the connection from its match channel")
	}
	// Broadcasting to the dead channel must not panic on the closed send chan.
	hub.BroadcastMatchEvent("match-1", "state", nil)
}

func TestHubJoinAfterConnect(t *testing.T) {
	hub := NewHub()
	c := newTestConn("guest-1")
	hub.Register(c)

	// Joining a channel for a player with no connections is a no-op.
	hub.JoinMatchChannel("ghost", "match-1")
	if hub.MatchSubscriberCount("match-1") != 0 {
		t.Error("a player with no connections cannot subscribe anything")
	}
}
