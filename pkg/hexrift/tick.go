package hexrift

// Tick advances the match by one turn: connectivity is recomputed, unit
// moves are refreshed, and the economy settles. Invoked on a fixed cadence
// by the orchestration layer, never by player action.
func (g *GameState) Tick() {
	g.Turn++
	g.RefreshConnectivity()

	for _, tile := range g.Grid.Tiles() {
		if tile.Unit != nil {
			tile.Unit.MovedThisTurn = false
		}
	}

	g.settleEconomy()
}

// RefreshConnectivity recomputes every tile's dormant flag: an owned tile is
// dormant unless a path of same-owner tiles connects it to that player's
// nexus. Connectivity is never cached across ticks — captures and losses
// change it continuously. The computation is idempotent within a tick.
func (g *GameState) RefreshConnectivity() {
	for _, tile := range g.Grid.Tiles() {
		tile.Dormant = tile.Owner != ""
	}
	for playerID := range g.Players {
		g.markConnected(playerID)
	}
}

// markConnected clears the dormant flag on every tile reachable from the
// player's nexus via a breadth-first traversal over their own tiles. A
// player without a nexus has no connected tiles this tick.
func (g *GameState) markConnected(playerID string) {
	nexus := g.NexusOf(playerID)
	if nexus == nil {
		return
	}

	visited := map[string]bool{nexus.ID: true}
	queue := []*Tile{nexus}
	nexus.Dormant = false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range g.Grid.Neighbors(current.Q, current.R) {
			if n.Owner != playerID || visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			n.Dormant = false
			queue = append(queue, n)
		}
	}
}

// NexusOf returns the player's nexus tile, or nil if it no longer exists.
func (g *GameState) NexusOf(playerID string) *Tile {
	for _, tile := range g.Grid.Tiles() {
		if tile.Type == TileNexus && tile.Owner == playerID {
			return tile
		}
	}
	return nil
}

// settleEconomy applies one tick of income and upkeep for both players.
// Deltas are accumulated first and applied together so that Siphon theft is
// independent of player iteration order. Essence is clamped at zero; units
// are not destroyed for unpaid upkeep.
func (g *GameState) settleEconomy() {
	delta := make(map[string]int, len(g.Players))
	for id, p := range g.Players {
		delta[id] = p.Income
	}

	for _, tile := range g.Grid.Tiles() {
		if tile.Unit != nil {
			delta[tile.Unit.Owner] -= tile.Unit.Upkeep
		}
		if tile.Type != TileMonolith || tile.Owner == "" || tile.Dormant {
			continue
		}
		yield := g.balance.MonolithYield
		if tile.Unit != nil && tile.Unit.Owner != tile.Owner && tile.Unit.Type == Siphon {
			// An enemy Siphon squatting on the monolith diverts half the
			// yield to its own player.
			stolen := yield / 2
			delta[tile.Unit.Owner] += stolen
			yield -= stolen
		}
		delta[tile.Owner] += yield
	}

	for id, p := range g.Players {
		p.Essence += delta[id]
		if p.Essence < 0 {
			p.Essence = 0
		}
	}
}
