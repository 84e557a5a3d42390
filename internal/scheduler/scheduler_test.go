package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

// newTestScheduler uses an hour-long tick so the background loop never fires
// during a test; ticks are driven explicitly through stepMatch.
func newTestScheduler(mb *mockBroadcaster, repo *mockMatchRepo) *Scheduler {
	if repo == nil {
		return New(mb, nil, nil, time.Hour)
	}
	return New(mb, repo, nil, time.Hour)
}

func TestJoin_PvEStartsImmediately(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()

	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join pve: %v", err)
	}

	if s.MatchCount() != 1 {
		t.Fatalf("match count = %d, want 1", s.MatchCount())
	}
	matchID := s.MatchOf("p1")
	if matchID == "" {
		t.Fatal("p1 should be routed to a match")
	}
	if s.MatchOf(AutomatonID) != "" {
		t.Error("the automaton must not occupy a routing slot")
	}
	started, ok := mb.lastMatchEvent(EventMatchStarted)
	if !ok || started.target != matchID {
		t.Fatalf("match_started not broadcast on channel %s", matchID)
	}
}

func TestJoin_PvPQueuesThenPairs(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()

	if err := s.Join("p1", ModePvP); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if s.MatchCount() != 0 {
		t.Fatal("a single PvP player should wait, not play")
	}
	if _, ok := mb.lastPlayerEvent("p1", EventQueueStatus); !ok {
		t.Error("queued player should be told they are waiting")
	}

	if err := s.Join("p2", ModePvP); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if s.MatchCount() != 1 {
		t.Fatalf("match count = %d, want 1 after pairing", s.MatchCount())
	}
	if s.MatchOf("p1") == "" || s.MatchOf("p1") != s.MatchOf("p2") {
		t.Error("both PvP players should land in the same match")
	}
}

func TestJoin_Rejections(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()

	if err := s.Join("p1", "ranked"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("unknown mode: got %v, want ErrUnknownMode", err)
	}

	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join pve: %v", err)
	}
	if err := s.Join("p1", ModePvE); !errors.Is(err, ErrAlreadyInMatch) {
		t.Errorf("double join: got %v, want ErrAlreadyInMatch", err)
	}

	if err := s.Join("p2", ModePvP); err != nil {
		t.Fatalf("queue p2: %v", err)
	}
	if err := s.Join("p2", ModePvP); !errors.Is(err, ErrAlreadyInMatch) {
		t.Errorf("queued player rejoining: got %v, want ErrAlreadyInMatch", err)
	}
}

func TestSubmitAction_AppliesAndBroadcasts(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()
	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join: %v", err)
	}

	// p1 joined first, so their garrison sits on the Blue nexus at (0,4).
	err := s.SubmitAction("p1", hexrift.Action{
		Type: hexrift.ActionMove,
		From: &hexrift.Coord{Q: 0, R: 4},
		To:   &hexrift.Coord{Q: 0, R: 3},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, ok := mb.lastPlayerEvent("p1", EventActionResult); !ok {
		t.Error("the acting player should get a private action_result")
	}
	state, ok := mb.lastMatchEvent(EventState)
	if !ok {
		t.Fatal("a successful action should broadcast fresh state immediately")
	}
	snap := state.data.(*hexrift.Snapshot)
	moved := false
	for _, tv := range snap.Grid {
		if tv.ID == "0,3" && tv.Unit != nil {
			moved = true
		}
	}
	if !moved {
		t.Error("broadcast snapshot should reflect the applied move")
	}
}

func TestSubmitAction_RejectionIsPrivate(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()
	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join: %v", err)
	}

	err := s.SubmitAction("p1", hexrift.Action{
		Type: hexrift.ActionMove,
		From: &hexrift.Coord{Q: 0, R: 0}, // no unit here
		To:   &hexrift.Coord{Q: 0, R: 1},
	})
	if hexrift.CodeOf(err) != hexrift.CodeNoUnitToMove {
		t.Fatalf("got %v, want NoUnitToMove", err)
	}

	rej, ok := mb.lastPlayerEvent("p1", EventActionRejected)
	if !ok {
		t.Fatal("the acting player should get a private action_rejected")
	}
	payload := rej.data.(map[string]any)
	if payload["code"] != string(hexrift.CodeNoUnitToMove) {
		t.Errorf("rejection code = %v", payload["code"])
	}
	if mb.countMatchEvents(EventState) != 0 {
		t.Error("a rejected action must not broadcast state")
	}
}

func TestSubmitAction_NotInMatch(t *testing.T) {
	s := newTestScheduler(&mockBroadcaster{}, nil)
	defer s.Stop()

	err := s.SubmitAction("ghost", hexrift.Action{Type: hexrift.ActionMove})
	if !errors.Is(err, ErrNotInMatch) {
		t.Errorf("got %v, want ErrNotInMatch", err)
	}
}

func TestStepMatch_TicksAndBroadcasts(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()
	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join: %v", err)
	}

	s.mu.Lock()
	m := s.matches[s.byPlayer["p1"]]
	s.mu.Unlock()

	s.stepMatch(m)

	state, ok := mb.lastMatchEvent(EventState)
	if !ok {
		t.Fatal("a tick should broadcast state")
	}
	if snap := state.data.(*hexrift.Snapshot); snap.Turn != 1 {
		t.Errorf("snapshot turn = %d, want 1", snap.Turn)
	}
}

func TestDisconnect_EndsMatchAndArchives(t *testing.T) {
	mb := &mockBroadcaster{}
	repo := &mockMatchRepo{}
	s := newTestScheduler(mb, repo)
	if err := s.Join("p1", ModePvE); err != nil {
		t.Fatalf("join: %v", err)
	}

	s.Disconnect("p1")

	if s.MatchCount() != 0 {
		t.Fatal("the match should be torn down")
	}
	if s.MatchOf("p1") != "" {
		t.Error("p1 should no longer be routed anywhere")
	}
	ended, ok := mb.lastMatchEvent(EventMatchEnded)
	if !ok {
		t.Fatal("match_ended should be broadcast")
	}
	if ended.data.(map[string]any)["reason"] != ReasonDisconnected {
		t.Errorf("reason = %v", ended.data.(map[string]any)["reason"])
	}

	if len(repo.records) != 1 {
		t.Fatalf("archived %d records, want 1", len(repo.records))
	}
	rec := repo.records[0]
	if rec.Mode != ModePvE || rec.Reason != ReasonDisconnected {
		t.Errorf("record = %+v", rec)
	}
	hasBot := false
	for _, p := range rec.PlayerIDs {
		if p == AutomatonID {
			hasBot = true
		}
	}
	if !hasBot {
		t.Error("the automaton should appear in the archived participant list")
	}

	if err := s.SubmitAction("p1", hexrift.Action{Type: hexrift.ActionMove}); !errors.Is(err, ErrNotInMatch) {
		t.Errorf("post-disconnect submit: got %v, want ErrNotInMatch", err)
	}
}

func TestDisconnect_QueuedPlayerFreesSlot(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	defer s.Stop()

	if err := s.Join("p1", ModePvP); err != nil {
		t.Fatalf("queue: %v", err)
	}
	s.Disconnect("p1")

	// The slot is free again: the next PvP player waits instead of pairing
	// with a ghost.
	if err := s.Join("p2", ModePvP); err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if s.MatchCount() != 0 {
		t.Error("p2 should be waiting, not matched against the departed p1")
	}
}

func TestDisconnect_PvPNotifiesOpponent(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	if err := s.Join("p1", ModePvP); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := s.Join("p2", ModePvP); err != nil {
		t.Fatalf("pair: %v", err)
	}
	matchID := s.MatchOf("p2")

	s.Disconnect("p1")

	ended, ok := mb.lastMatchEvent(EventMatchEnded)
	if !ok || ended.target != matchID {
		t.Fatal("the surviving player's match channel should see match_ended")
	}
	if ended.data.(map[string]any)["player_id"] != "p1" {
		t.Error("the departing player should be named in the event")
	}
	if s.MatchOf("p2") != "" {
		t.Error("the opponent should be released from the match")
	}
}

func TestStop_TearsDownEverything(t *testing.T) {
	mb := &mockBroadcaster{}
	s := newTestScheduler(mb, nil)
	for _, p := range []string{"a", "b", "c"} {
		if err := s.Join(p, ModePvE); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}

	s.Stop()

	if s.MatchCount() != 0 {
		t.Errorf("match count = %d after Stop, want 0", s.MatchCount())
	}
	if mb.countMatchEvents(EventMatchEnded) != 3 {
		t.Errorf("match_ended count = %d, want 3", mb.countMatchEvents(EventMatchEnded))
	}
}
