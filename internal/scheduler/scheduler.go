// Package scheduler owns the set of live matches: matchmaking, the per-match
// tick loop, action routing, and teardown when a participant disconnects.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veldtlabs/hexrift/internal/bot"
	"github.com/veldtlabs/hexrift/internal/model"
	"github.com/veldtlabs/hexrift/internal/repository"
	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

var (
	ErrAlreadyInMatch = errors.New("player is already in a match or queued")
	ErrNotInMatch     = errors.New("player is not in a match")
	ErrUnknownMode    = errors.New("unknown match mode")
)

// Match modes.
const (
	ModePvE = "pve"
	ModePvP = "pvp"
)

// AutomatonID is the fixed participant identity of the scripted opponent.
const AutomatonID = "automaton"

// Event types sent over WebSocket.
const (
	EventMatchStarted   = "match_started"
	EventState          = "state"
	EventMatchEnded     = "match_ended"
	EventQueueStatus    = "queue_status"
	EventActionResult   = "action_result"
	EventActionRejected = "action_rejected"
)

// Reasons a match ends.
const (
	ReasonDisconnected = "player_disconnected"
	ReasonShutdown     = "server_shutdown"
)

// match is one live match with its own lock, so a slow match never stalls
// the others. The ticker goroutine and action routing both take mu.
type match struct {
	mu        sync.Mutex
	id        string
	mode      string
	game      *hexrift.GameState
	automaton *bot.Automaton
	humans    []string
	startedAt time.Time
	cancel    context.CancelFunc
}

// Scheduler manages live matches and the PvP waiting slot.
type Scheduler struct {
	mu       sync.Mutex
	matches  map[string]*match
	byPlayer map[string]string // playerID -> matchID
	waiting  string            // playerID queued for a PvP opponent, or ""

	broadcaster  Broadcaster
	matchRepo    repository.MatchRepository // nil disables archiving
	balance      *hexrift.Balance
	tickInterval time.Duration
}

// New creates a Scheduler. matchRepo may be nil to skip archiving finished
// matches; balance may be nil to play with default tuning.
func New(broadcaster Broadcaster, matchRepo repository.MatchRepository, balance *hexrift.Balance, tickInterval time.Duration) *Scheduler {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &Scheduler{
		matches:      make(map[string]*match),
		byPlayer:     make(map[string]string),
		broadcaster:  broadcaster,
		matchRepo:    matchRepo,
		balance:      balance,
		tickInterval: tickInterval,
	}
}

// Join places a player into a match. PvE starts immediately against the
// automaton. PvP pairs with a waiting player if there is one, otherwise the
// player takes the waiting slot until an opponent arrives.
func (s *Scheduler) Join(playerID, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPlayer[playerID]; ok || s.waiting == playerID {
		return ErrAlreadyInMatch
	}

	switch mode {
	case ModePvE:
		s.startMatchLocked(mode, playerID, AutomatonID)
	case ModePvP:
		if s.waiting == "" {
			s.waiting = playerID
			s.broadcaster.SendPlayerEvent(playerID, EventQueueStatus, map[string]any{"queued": true})
			log.Info().Str("playerId", playerID).Msg("Player queued for PvP")
			return nil
		}
		opponent := s.waiting
		s.waiting = ""
		s.startMatchLocked(mode, opponent, playerID)
	default:
		return ErrUnknownMode
	}
	return nil
}

// startMatchLocked creates the match, registers the participants, and spawns
// the tick loop. Caller holds s.mu.
func (s *Scheduler) startMatchLocked(mode, p1, p2 string) {
	id := uuid.NewString()
	game, err := hexrift.NewGameState(id, p1, p2, s.balance)
	if err != nil {
		// Only reachable with a broken balance table; nothing to clean up.
		log.Error().Err(err).Str("matchId", id).Msg("Match setup failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &match{
		id:        id,
		mode:      mode,
		game:      game,
		startedAt: time.Now().UTC(),
		cancel:    cancel,
	}
	for _, p := range []string{p1, p2} {
		if p == AutomatonID {
			m.automaton = bot.New(game, AutomatonID)
			continue
		}
		m.humans = append(m.humans, p)
		s.byPlayer[p] = id
	}

	s.matches[id] = m
	for _, p := range m.humans {
		s.broadcaster.JoinMatchChannel(p, id)
	}
	s.broadcaster.BroadcastMatchEvent(id, EventMatchStarted, map[string]any{
		"match_id": id,
		"mode":     mode,
		"players":  []string{p1, p2},
		"state":    game.Snapshot(),
	})

	go s.runLoop(ctx, m)
	log.Info().Str("matchId", id).Str("mode", mode).Strs("players", m.humans).Msg("Match started")
}

// runLoop drives one match at the configured tick interval until canceled.
func (s *Scheduler) runLoop(ctx context.Context, m *match) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stepMatch(m)
		}
	}
}

// stepMatch runs one tick: the automaton acts first, then the world settles,
// then every subscriber gets a fresh snapshot.
func (s *Scheduler) stepMatch(m *match) {
	m.mu.Lock()
	if m.game.Status != hexrift.StatusActive {
		m.mu.Unlock()
		return
	}
	if m.automaton != nil {
		m.automaton.DecideMove()
	}
	m.game.Tick()
	snap := m.game.Snapshot()
	m.mu.Unlock()

	s.broadcaster.BroadcastMatchEvent(m.id, EventState, snap)
}

// SubmitAction routes a player action to their match. Validation failures are
// reported privately to the acting player; successful actions trigger an
// immediate state broadcast so clients see the result before the next tick.
func (s *Scheduler) SubmitAction(playerID string, action hexrift.Action) error {
	s.mu.Lock()
	m := s.matches[s.byPlayer[playerID]]
	s.mu.Unlock()
	if m == nil {
		return ErrNotInMatch
	}

	m.mu.Lock()
	result, err := m.game.ProcessAction(playerID, action)
	var snap *hexrift.Snapshot
	if err == nil {
		snap = m.game.Snapshot()
	}
	m.mu.Unlock()

	if err != nil {
		s.broadcaster.SendPlayerEvent(playerID, EventActionRejected, map[string]any{
			"code":    string(hexrift.CodeOf(err)),
			"message": err.Error(),
		})
		return err
	}

	s.broadcaster.SendPlayerEvent(playerID, EventActionResult, result)
	s.broadcaster.BroadcastMatchEvent(m.id, EventState, snap)
	return nil
}

// Disconnect removes a player. A queued player simply leaves the slot; a
// player in a match ends it for everyone.
func (s *Scheduler) Disconnect(playerID string) {
	s.mu.Lock()
	if s.waiting == playerID {
		s.waiting = ""
		s.mu.Unlock()
		log.Info().Str("playerId", playerID).Msg("Queued player left")
		return
	}
	matchID, ok := s.byPlayer[playerID]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.endMatch(matchID, ReasonDisconnected, playerID)
}

// Stop tears down every live match, for graceful shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.endMatch(id, ReasonShutdown, "")
	}
}

// endMatch finalizes the game, notifies subscribers, archives the record,
// and releases every participant.
func (s *Scheduler) endMatch(matchID, reason, culpritID string) {
	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.matches, matchID)
	for _, p := range m.humans {
		delete(s.byPlayer, p)
	}
	s.mu.Unlock()

	m.cancel()

	m.mu.Lock()
	m.game.Finish()
	turns := m.game.Turn
	m.mu.Unlock()

	s.broadcaster.BroadcastMatchEvent(matchID, EventMatchEnded, map[string]any{
		"match_id":  matchID,
		"reason":    reason,
		"player_id": culpritID,
	})
	for _, p := range m.humans {
		s.broadcaster.LeaveMatchChannel(p, matchID)
	}

	if s.matchRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		players := m.humans
		if m.automaton != nil {
			players = append(append([]string{}, players...), AutomatonID)
		}
		rec := &model.MatchRecord{
			ID:         matchID,
			Mode:       m.mode,
			PlayerIDs:  players,
			Reason:     reason,
			Turns:      turns,
			StartedAt:  m.startedAt,
			FinishedAt: time.Now().UTC(),
		}
		if err := s.matchRepo.RecordMatch(ctx, rec); err != nil {
			log.Error().Err(err).Str("matchId", matchID).Msg("Failed to archive match")
		}
	}

	log.Info().Str("matchId", matchID).Str("reason", reason).Int("turns", turns).Msg("Match ended")
}

// MatchOf returns the match ID a player is in, or "".
func (s *Scheduler) MatchOf(playerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byPlayer[playerID]
}

// MatchCount returns the number of live matches.
func (s *Scheduler) MatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// Snapshot returns the current state of a player's match, or nil.
func (s *Scheduler) Snapshot(playerID string) *hexrift.Snapshot {
	s.mu.Lock()
	m := s.matches[s.byPlayer[playerID]]
	s.mu.Unlock()
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Snapshot()
}
