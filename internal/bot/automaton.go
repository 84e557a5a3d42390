// Package bot implements the scripted opponent for PvE matches. The
// automaton has no privileged access to the engine: it submits ordinary MOVE
// actions through the same ProcessAction entry point a human client uses.
package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

// Automaton drives one scripted participant in a single match. The scheduler
// calls DecideMove once per tick while holding the match lock, so the
// automaton never races with player actions.
type Automaton struct {
	game *hexrift.GameState
	id   string
}

// New creates an automaton playing as the given participant.
func New(game *hexrift.GameState, playerID string) *Automaton {
	return &Automaton{game: game, id: playerID}
}

// PlayerID returns the participant identity the automaton plays as.
func (a *Automaton) PlayerID() string {
	return a.id
}

// DecideMove picks one unit uniformly at random and orders it: attack the
// first enemy-occupied neighbor if any, otherwise step onto a uniformly
// random unoccupied neighbor, otherwise do nothing this cycle.
func (a *Automaton) DecideMove() {
	var myTiles []*hexrift.Tile
	for _, tile := range a.game.Grid.Tiles() {
		if tile.Unit != nil && tile.Unit.Owner == a.id {
			myTiles = append(myTiles, tile)
		}
	}
	if len(myTiles) == 0 {
		return
	}

	origin := myTiles[botIntn(len(myTiles))]
	neighbors := a.game.Grid.Neighbors(origin.Q, origin.R)

	var target *hexrift.Tile
	for _, n := range neighbors {
		if n.Unit != nil && n.Unit.Owner != a.id {
			target = n
			break
		}
	}
	if target == nil {
		var open []*hexrift.Tile
		for _, n := range neighbors {
			if n.Unit == nil {
				open = append(open, n)
			}
		}
		if len(open) == 0 {
			return
		}
		target = open[botIntn(len(open))]
	}

	a.submitMove(origin, target)
}

func (a *Automaton) submitMove(origin, target *hexrift.Tile) {
	action := hexrift.Action{
		Type: hexrift.ActionMove,
		From: &hexrift.Coord{Q: origin.Q, R: origin.R},
		To:   &hexrift.Coord{Q: target.Q, R: target.R},
	}
	if _, err := a.game.ProcessAction(a.id, action); err != nil {
		// Exhausted units and unassailable nexuses just waste the cycle.
		log.Debug().Err(err).Str("matchId", a.game.MatchID).
			Str("from", origin.ID).Str("to", target.ID).
			Msg("Automaton move rejected")
	}
}
