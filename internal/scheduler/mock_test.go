package scheduler

import (
	"context"
	"sync"

	"github.com/veldtlabs/hexrift/internal/model"
)

type event struct {
	target    string // matchID or playerID
	eventType string
	data      any
}

// mockBroadcaster records every event it is handed. The per-match tick loop
// broadcasts from its own goroutine, so all access is behind the mutex.
type mockBroadcaster struct {
	mu           sync.Mutex
	joined       []string
	left         []string
	matchEvents  []event
	playerEvents []event
}

func (m *mockBroadcaster) JoinMatchChannel(playerID, matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joined = append(m.joined, playerID+":"+matchID)
}

func (m *mockBroadcaster) LeaveMatchChannel(playerID, matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.left = append(m.left, playerID+":"+matchID)
}

func (m *mockBroadcaster) BroadcastMatchEvent(matchID, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchEvents = append(m.matchEvents, event{matchID, eventType, data})
}

func (m *mockBroadcaster) SendPlayerEvent(playerID, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerEvents = append(m.playerEvents, event{playerID, eventType, data})
}

func (m *mockBroadcaster) countMatchEvents(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.matchEvents {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}

func (m *mockBroadcaster) lastMatchEvent(eventType string) (event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.matchEvents) - 1; i >= 0; i-- {
		if m.matchEvents[i].eventType == eventType {
			return m.matchEvents[i], true
		}
	}
	return event{}, false
}

func (m *mockBroadcaster) lastPlayerEvent(playerID, eventType string) (event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.playerEvents) - 1; i >= 0; i-- {
		e := m.playerEvents[i]
		if e.target == playerID && e.eventType == eventType {
			return e, true
		}
	}
	return event{}, false
}

type mockMatchRepo struct {
	mu      sync.Mutex
	records []model.MatchRecord
}

func (m *mockMatchRepo) RecordMatch(_ context.Context, rec *model.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockMatchRepo) RecentMatches(_ context.Context, limit int) ([]model.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.MatchRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}
